package scan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestScanRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "WhatsApp Chat with Alice.txt"), []byte("x"))
	writeFile(t, filepath.Join(root, "Trip 2023", "_chat.txt"), []byte("x"))
	writeFile(t, filepath.Join(root, "photo.jpg"), []byte("x"))
	writeFile(t, filepath.Join(root, ".cache", "old.txt"), []byte("x"))

	files, err := ScanRoot(root)
	require.NoError(t, err)
	require.Len(t, files, 2)

	byKey := map[string]FileInfo{}
	for _, f := range files {
		byKey[f.ChatKey] = f
	}
	assert.Equal(t, "Alice", byKey["chat:WhatsApp Chat with Alice"].Title)
	assert.Equal(t, "Trip 2023", byKey["chat:Trip 2023/_chat"].Title)
	assert.EqualValues(t, 1, byKey["chat:Trip 2023/_chat"].Size)
}

func TestScanRoot_Missing(t *testing.T) {
	files, err := ScanRoot(filepath.Join(t.TempDir(), "nope"))
	assert.NoError(t, err)
	assert.Empty(t, files)
}

func TestReadTranscript(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "chat.txt")
	writeFile(t, path, []byte("\xef\xbb\xbf12/05/23, 9:15 AM - Alice: hi\xff\n"))
	s, err := ReadTranscript(path, 0)
	require.NoError(t, err)
	assert.Equal(t, "12/05/23, 9:15 AM - Alice: hi\n", s)

	_, err = ReadTranscript(path, 10)
	assert.ErrorIs(t, err, ErrTooLarge)

	other := filepath.Join(dir, "chat.zip")
	writeFile(t, other, []byte("PK"))
	_, err = ReadTranscript(other, 0)
	assert.ErrorIs(t, err, ErrNotTranscript)

	empty := filepath.Join(dir, "empty.txt")
	writeFile(t, empty, []byte(" \n\n"))
	_, err = ReadTranscript(empty, 0)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestDecode_InvalidBytes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"utf8 bom", "\xef\xbb\xbfhi\xff\n", "hi\n"},
		{"no bom", "hi\xff\n", "hi\n"},
		{"truncated sequence", "\xef\xbb\xbfcaf\xc3", "caf"},
		{"replacement char kept", "\xef\xbb\xbfa\ufffdb\xfe", "a\ufffdb"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Decode(strings.NewReader(tc.in))
			require.NoError(t, err)
			assert.Equal(t, tc.want, s)
			assert.True(t, utf8.ValidString(s))
		})
	}
}

func TestDecode_UTF16(t *testing.T) {
	// UTF-16LE with BOM: "hi"
	s, err := Decode(strings.NewReader("\xff\xfeh\x00i\x00"))
	require.NoError(t, err)
	assert.Equal(t, "hi", s)
}

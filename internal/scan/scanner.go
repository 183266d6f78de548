package scan

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	ErrNotTranscript = errors.New("only .txt chat exports are supported")
	ErrTooLarge      = errors.New("chat export exceeds the size limit")
	ErrEmpty         = errors.New("chat export is empty")
)

type FileInfo struct {
	Path    string
	ChatKey string
	Title   string
	Mtime   int64
	Size    int64
}

// ScanRoot walks root for exported transcripts. A missing root yields no files.
func ScanRoot(root string) ([]FileInfo, error) {
	var files []FileInfo
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable dirs
		}
		if info.IsDir() {
			if path != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsTranscript(path) {
			return nil
		}
		files = append(files, FileInfo{
			Path:    path,
			ChatKey: ChatKey(root, path),
			Title:   Title(path),
			Mtime:   info.ModTime().Unix(),
			Size:    info.Size(),
		})
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return files, nil
}

func IsTranscript(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".txt")
}

// ChatKey derives a stable key from the path relative to root.
func ChatKey(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(path)
	}
	return "chat:" + strings.TrimSuffix(filepath.ToSlash(rel), filepath.Ext(rel))
}

// Title guesses the chat name from the export file name. Android names the
// file "WhatsApp Chat with <name>.txt"; iOS writes "_chat.txt" inside a
// folder named after the chat.
func Title(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if base == "_chat" {
		base = filepath.Base(filepath.Dir(path))
	}
	for _, prefix := range []string{"WhatsApp Chat with ", "WhatsApp Chat - "} {
		if strings.HasPrefix(base, prefix) {
			return strings.TrimPrefix(base, prefix)
		}
	}
	return base
}

// ReadTranscript loads a transcript for parsing. It enforces the file type
// and size ceiling before decoding.
func ReadTranscript(path string, maxSize int64) (string, error) {
	if !IsTranscript(path) {
		return "", fmt.Errorf("%s: %w", path, ErrNotTranscript)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	if maxSize > 0 && info.Size() > maxSize {
		return "", fmt.Errorf("%s: %w (%d > %d bytes)", path, ErrTooLarge, info.Size(), maxSize)
	}

	return Decode(f)
}

// Decode reads r as text. A UTF-8 or UTF-16 byte-order mark selects the
// encoding and is removed; without one the bytes are taken as UTF-8. Byte
// sequences that are not valid UTF-8 are dropped. A U+FFFD that is really in
// the export is kept.
func Decode(r io.Reader) (string, error) {
	b, err := io.ReadAll(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	s := strings.ToValidUTF8(string(b), "")
	if strings.TrimSpace(s) == "" {
		return "", ErrEmpty
	}
	return s, nil
}

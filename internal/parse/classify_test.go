package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := NewClassifier(DefaultRules())
	require.NoError(t, err)
	return c
}

func TestClassifier_Classify(t *testing.T) {
	c := defaultClassifier(t)

	tests := []struct {
		body string
		want MessageType
	}{
		{"hello there", TypeText},
		{"<Media omitted>", TypeImage},
		{"image omitted", TypeImage},
		{"IMG-20230512-WA0001.jpg (file attached)", TypeImage},
		{"photo.PNG", TypeImage},
		{"video omitted", TypeVideo},
		{"VID-20230512-WA0002.mp4 (file attached)", TypeVideo},
		{"audio omitted", TypeAudio},
		{"PTT-20230512-WA0003.opus (file attached)", TypeAudio},
		{"sticker omitted", TypeSticker},
		{"STK-20230512-WA0004.webp (file attached)", TypeSticker},
		{"GIF omitted", TypeGIF},
		{"document omitted", TypeDocument},
		{"report.pdf (file attached)", TypeDocument},
		{"notes.docx (file attached)", TypeDocument},
		{"contact card omitted", TypeContact},
		{"Jane.vcf (file attached)", TypeContact},
		{"location: https://maps.google.com/?q=1,2", TypeLocation},
		{"Live location shared", TypeLocation},
		{"You deleted this message", TypeSystem},
		{"Bob's security code changed. Tap to learn more.", TypeSystem},
		{"Bob left", TypeSystem},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, c.Classify(tc.body), tc.body)
	}
}

func TestClassifier_SystemBeatsMedia(t *testing.T) {
	c := defaultClassifier(t)
	assert.Equal(t, TypeSystem, c.Classify("Alice changed the group icon IMG-20230512-WA0001.jpg"))
	assert.Equal(t, TypeSystem, c.Classify("<Media omitted> This message was deleted"))
}

func TestClassifier_EarlierCategoryWins(t *testing.T) {
	c := defaultClassifier(t)
	// image is checked before video and location, pattern or placeholder alike
	assert.Equal(t, TypeImage, c.Classify("video omitted thumbnail.jpg"))
	assert.Equal(t, TypeImage, c.Classify("photo.jpg location: home"))
	assert.Equal(t, TypeVideo, c.Classify("video omitted clip.mp4 voice.opus"))
}

func TestClassifier_PlaceholderBeforePatternInCategory(t *testing.T) {
	rules := Rules{Media: []MediaRule{
		{Type: TypeDocument, Placeholders: []string{"document omitted"}, Patterns: []string{`\.pdf`}},
	}}
	c, err := NewClassifier(rules)
	require.NoError(t, err)
	assert.Equal(t, TypeDocument, c.Classify("report.pdf document omitted"))
	assert.Equal(t, TypeText, c.Classify("nothing attached"))
}

func TestClassifier_MediaTableOrder(t *testing.T) {
	c := defaultClassifier(t)
	// ".jpg" and ".mp4" both present: image comes first in the table
	assert.Equal(t, TypeImage, c.Classify("clip.mp4 cover.jpg"))

	rules := DefaultRules()
	rules.Media[0], rules.Media[1] = rules.Media[1], rules.Media[0]
	swapped, err := NewClassifier(rules)
	require.NoError(t, err)
	assert.Equal(t, TypeVideo, swapped.Classify("clip.mp4 cover.jpg"))
}

func TestClassifier_CaseInsensitive(t *testing.T) {
	c := defaultClassifier(t)
	assert.Equal(t, TypeImage, c.Classify("<MEDIA OMITTED>"))
	assert.Equal(t, TypeSystem, c.Classify("MESSAGES AND CALLS ARE END-TO-END ENCRYPTED"))
}

func TestDefaultRules_ReturnsCopy(t *testing.T) {
	a := DefaultRules()
	a.SystemPhrases[0] = "changed"
	b := DefaultRules()
	assert.Equal(t, "Messages and calls are end-to-end encrypted", b.SystemPhrases[0])
}

func TestMessageType(t *testing.T) {
	assert.True(t, TypeSticker.IsMedia())
	assert.False(t, TypeText.IsMedia())
	assert.False(t, TypeSystem.IsMedia())
	assert.True(t, TypeSystem.Valid())
	assert.False(t, MessageType("poll").Valid())
}

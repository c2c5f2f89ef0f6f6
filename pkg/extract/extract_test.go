package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_PlainText(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		data     string
		want     string
	}{
		{"txt", "notes.txt", "hello world", "hello world"},
		{"markdown", "README.md", "# Title\n\nbody", "# Title\n\nbody"},
		{"trims whitespace", "notes.txt", "  \n content \n\n", "content"},
		{"empty is valid", "empty.txt", "", ""},
		{"csv", "data.csv", "a,b,c", "a,b,c"},
		{"uppercase extension", "NOTES.TXT", "text", "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract([]byte(tt.data), tt.fileName)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_HTML(t *testing.T) {
	html := `<html><head><title>t</title><style>body{color:red}</style></head>
<body><h1>Heading</h1><p>First paragraph.</p><script>alert("x")</script></body></html>`

	got, err := Extract([]byte(html), "page.html")
	require.NoError(t, err)

	assert.Contains(t, got, "Heading")
	assert.Contains(t, got, "First paragraph.")
	assert.NotContains(t, got, "alert")
	assert.NotContains(t, got, "color:red")
}

func TestExtract_UnsupportedFormat(t *testing.T) {
	for _, name := range []string{"image.png", "archive.zip", "doc.pdf", "noextension"} {
		_, err := Extract([]byte("data"), name)
		assert.ErrorIs(t, err, ErrUnsupportedFormat, name)
	}
}

func TestExtract_BinaryContentRejected(t *testing.T) {
	_, err := Extract([]byte{0x00, 0x01, 0x02, 'a'}, "fake.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Extract([]byte{0xff, 0xfe, 0xc0}, "fake.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

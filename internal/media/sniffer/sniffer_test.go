package sniffer

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectHead(t *testing.T) {
	cases := []struct {
		name string
		head []byte
		want MediaType
		ext  string
	}{
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0, 0x00}, TypeJPEG, "jpg"},
		{"png", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0x00}, TypePNG, "png"},
		{"gif", []byte("GIF89a......"), TypeGIF, "gif"},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), TypeWEBP, "webp"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := DetectHead(tc.head)
			require.NoError(t, err)
			assert.Equal(t, tc.want, result.Type)
			assert.Equal(t, tc.ext, result.Extension())
		})
	}
}

func TestDetectRejectsOtherContent(t *testing.T) {
	for _, head := range [][]byte{nil, []byte("<svg xmlns=\"http://www.w3.org/2000/svg\"/>"), []byte("%PDF-1.7")} {
		_, err := DetectHead(head)
		assert.ErrorIs(t, err, ErrUnknownType)
	}
}

func TestDetectReturnsHead(t *testing.T) {
	data := append([]byte("GIF87a"), bytes.Repeat([]byte{0x01}, 1024)...)
	result, head, err := Detect(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, TypeGIF, result.Type)
	assert.Len(t, head, 512)
}

func TestDeclaredType(t *testing.T) {
	h := http.Header{}
	assert.Equal(t, "", DeclaredType(h))

	h.Set("Content-Type", "image/png; charset=binary")
	assert.Equal(t, "image/png", DeclaredType(h))
}

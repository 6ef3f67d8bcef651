package extraction

import (
	"bytes"
	"encoding/base64"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeImage(t *testing.T) {
	raw := []byte("fake image bytes")
	encoded := base64.StdEncoding.EncodeToString(raw)

	tests := []struct {
		name     string
		input    string
		wantMIME string
	}{
		{"plain base64", encoded, "image/jpeg"},
		{"data url", "data:image/png;base64," + encoded, "image/png"},
		{"unpadded", base64.RawStdEncoding.EncodeToString(raw), "image/jpeg"},
		{"surrounding whitespace", "  " + encoded + "\n", "image/jpeg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := DecodeImage(tt.input)
			require.NoError(t, err)
			assert.Equal(t, raw, img.Data)
			assert.Equal(t, tt.wantMIME, img.MIMEType)
		})
	}
}

func TestDecodeImage_Invalid(t *testing.T) {
	for _, input := range []string{"", "data:image/png;base64", "data:image/png,abc", "%%%not-base64%%%"} {
		_, err := DecodeImage(input)
		assert.ErrorIs(t, err, ErrInvalidImage, input)
	}
}

func TestReadMultipartImage(t *testing.T) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="r.png"`)
	h.Set("Content-Type", "image/png")
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, _ = part.Write([]byte("png bytes"))
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, "/", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	img, err := ReadMultipartImage(req.MultipartForm.File["image"][0])
	require.NoError(t, err)
	assert.Equal(t, []byte("png bytes"), img.Data)
	assert.Equal(t, "image/png", img.MIMEType)
}

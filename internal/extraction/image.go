package extraction

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/pkg/constant"
)

// DecodeImage accepts raw base64 or a data URL ("data:image/png;base64,...").
func DecodeImage(s string) (Image, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Image{}, fmt.Errorf("%w: empty", ErrInvalidImage)
	}

	mimeType := constant.DefaultImageMIMEType
	if rest, ok := strings.CutPrefix(s, "data:"); ok {
		meta, payload, found := strings.Cut(rest, ",")
		if !found {
			return Image{}, fmt.Errorf("%w: data URL without payload", ErrInvalidImage)
		}
		meta, isBase64 := strings.CutSuffix(meta, ";base64")
		if !isBase64 {
			return Image{}, fmt.Errorf("%w: data URL is not base64", ErrInvalidImage)
		}
		if meta != "" {
			mimeType = meta
		}
		s = payload
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		// Some clients strip the padding.
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
		if err != nil {
			return Image{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
		}
	}
	if len(data) == 0 {
		return Image{}, fmt.Errorf("%w: empty", ErrInvalidImage)
	}

	return Image{Data: data, MIMEType: mimeType}, nil
}

// ReadMultipartImage reads an uploaded file, taking the MIME type from its part header.
func ReadMultipartImage(fh *multipart.FileHeader) (Image, error) {
	f, err := fh.Open()
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return Image{}, fmt.Errorf("%w: empty", ErrInvalidImage)
	}

	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = constant.DefaultImageMIMEType
	}
	return Image{Data: data, MIMEType: mimeType}, nil
}

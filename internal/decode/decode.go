// Package decode turns accepted logo uploads into self-contained data URIs.
package decode

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/katariyakhushi/umbrella-customiser/internal/domain"
)

// MaxPixels bounds the dimensions of a verified image.
const MaxPixels = 40_000_000

var (
	errTooLarge      = errors.New("upload larger than declared limit")
	errTooManyPixels = errors.New("image dimensions exceed limit")
)

// DataURIDecoder reads an upload fully and encodes it as a base64 data URI.
type DataURIDecoder struct {
	// VerifyImage rejects bytes that do not decode as an image.
	VerifyImage bool
}

// NewDataURIDecoder creates a decoder.
func NewDataURIDecoder(verifyImage bool) *DataURIDecoder {
	return &DataURIDecoder{VerifyImage: verifyImage}
}

// Decode implements domain.LogoDecoder.
func (d *DataURIDecoder) Decode(ctx context.Context, u *domain.Upload) (*domain.Logo, error) {
	if u.Open == nil {
		return nil, errors.New("upload has nothing to open")
	}
	rc, err := u.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer rc.Close()

	// Read one byte past the limit so growth after validation is caught.
	data, err := io.ReadAll(io.LimitReader(&ctxReader{ctx: ctx, r: rc}, domain.MaxLogoSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > domain.MaxLogoSize {
		return nil, errTooLarge
	}

	if d.VerifyImage {
		if err := verify(data); err != nil {
			return nil, err
		}
	}

	mediaType := MediaType(u.MediaType, data)
	return &domain.Logo{
		DataURI:   "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data),
		Filename:  u.Filename,
		MediaType: mediaType,
		Size:      int64(len(data)),
	}, nil
}

// verify reads the header first so oversized dimensions are refused before
// any pixel buffer is allocated.
func verify(data []byte) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode image header: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return fmt.Errorf("%w: %dx%d", errTooManyPixels, cfg.Width, cfg.Height)
	}
	if _, err := imaging.Decode(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	return nil
}

// MediaType picks the type written into the data URI. Sniffed PNG or JPEG
// content wins; otherwise the declared type is used, with the non-standard
// "image/jpg" spelled as "image/jpeg".
func MediaType(declared string, data []byte) string {
	detected := mimetype.Detect(data)
	switch {
	case detected.Is("image/png"):
		return "image/png"
	case detected.Is("image/jpeg"):
		return "image/jpeg"
	case declared == "image/jpg":
		return "image/jpeg"
	default:
		return declared
	}
}

// ctxReader stops reading once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

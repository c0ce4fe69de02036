package domain

import (
	"context"
	"fmt"
	"io"
	"strings"
)

const (
	// MaxLogoSize is the largest accepted upload, inclusive.
	MaxLogoSize int64 = 5 * 1024 * 1024
)

// allowedMediaTypes holds the declared media types accepted for a logo.
// Both spellings of JPEG are in use by browsers.
var allowedMediaTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
}

// AllowedMediaType reports whether a declared media type may be uploaded.
func AllowedMediaType(mediaType string) bool {
	return allowedMediaTypes[strings.ToLower(strings.TrimSpace(mediaType))]
}

// Upload is a file chosen by the user, as declared by the browser.
// Open is only called once the declaration passed validation.
type Upload struct {
	Filename  string
	MediaType string
	Size      int64                         `validate:"gte=0"`
	Open      func() (io.ReadCloser, error) `validate:"required"`
	// Release, when set, frees whatever backs Open. It is called once the
	// upload is no longer needed.
	Release func()
}

// CheckDeclared validates the declared media type and size, in that order.
func (u *Upload) CheckDeclared() error {
	if !AllowedMediaType(u.MediaType) {
		return ErrInvalidType
	}
	if u.Size > MaxLogoSize {
		return ErrOversizedFile
	}
	return nil
}

// Validate runs CheckDeclared and then makes sure the upload can be read.
// An upload with nothing to open is reported as a read failure.
func (u *Upload) Validate() error {
	if err := u.CheckDeclared(); err != nil {
		return err
	}
	if err := validatorInstance.Struct(u); err != nil {
		return fmt.Errorf("%w: %v", ErrReadFailure, err)
	}
	return nil
}

// Close calls Release if one is set.
func (u *Upload) Close() {
	if u.Release != nil {
		u.Release()
		u.Release = nil
	}
}

// Logo is a decoded upload ready to be embedded in the page.
type Logo struct {
	// DataURI is a self-contained "data:<type>;base64,..." payload.
	DataURI   string
	Filename  string
	MediaType string
	Size      int64
}

// LogoDecoder turns an upload into an embeddable Logo.
type LogoDecoder interface {
	Decode(ctx context.Context, u *Upload) (*Logo, error)
}

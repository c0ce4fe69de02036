package domain

import "errors"

// Intake errors. Their text is shown to the user verbatim in the error banner.
var (
	ErrInvalidType   = errors.New("Invalid file type. Please upload a PNG or JPG file.")
	ErrOversizedFile = errors.New("File size exceeds 5MB. Please upload a smaller file.")
	ErrReadFailure   = errors.New("Error reading file. Please try again.")
)

// Sentinel errors for the rest of the domain layer.
var (
	ErrUnknownColor = errors.New("unknown umbrella color")
	ErrViewNotFound = errors.New("view not found")
)

// Banner returns the text shown for an intake error. Wrapped sentinels show
// their own message and anything else reads as a read failure, so the banner
// never carries detail meant for logs.
func Banner(err error) string {
	for _, sentinel := range []error{ErrInvalidType, ErrOversizedFile, ErrReadFailure} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return ErrReadFailure.Error()
}

package capture

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed capture.
type ErrorKind int

const (
	// KindUnknown is any unexpected failure in the pipeline.
	KindUnknown ErrorKind = iota

	// KindPhotoCaptureFailed means the camera did not return a usable image.
	KindPhotoCaptureFailed

	// KindTimeout means the camera or decoder did not finish in time.
	KindTimeout
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindPhotoCaptureFailed:
		return "photo_capture_failed"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Sentinel errors matched by CaptureError via errors.Is.
var (
	ErrPhotoCapture = errors.New("failed to capture photo")
	ErrTimeout      = errors.New("capture timed out")
	ErrUnknown      = errors.New("failed to capture colour")
)

// CaptureError is the error surfaced to the UI for a failed capture.
type CaptureError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *CaptureError) Error() string {
	if e.Message == "" {
		return e.sentinel().Error()
	}
	return fmt.Sprintf("%s: %s", e.sentinel(), e.Message)
}

// Unwrap returns the underlying cause.
func (e *CaptureError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *CaptureError) Is(target error) bool {
	return target == e.sentinel()
}

func (e *CaptureError) sentinel() error {
	switch e.Kind {
	case KindPhotoCaptureFailed:
		return ErrPhotoCapture
	case KindTimeout:
		return ErrTimeout
	default:
		return ErrUnknown
	}
}

func newError(kind ErrorKind, err error) *CaptureError {
	ce := &CaptureError{Kind: kind, Err: err}
	if err != nil {
		ce.Message = err.Error()
	}
	return ce
}

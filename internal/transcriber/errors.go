package transcriber

import (
	"errors"
	"fmt"
	"net/http"
)

// PermanentError marks an error that retrying the same request cannot fix.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	if e == nil || e.Err == nil {
		return "permanent transcription error"
	}
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func NewPermanentError(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

func IsPermanent(err error) bool {
	var permanent *PermanentError
	return errors.As(err, &permanent)
}

// TranscriptionError is returned once a chunk could not be transcribed,
// after any retries.
type TranscriptionError struct {
	Path     string
	Attempts int
	Err      error
}

func (e *TranscriptionError) Error() string {
	if e == nil || e.Err == nil {
		return "transcription failed"
	}
	if e.Attempts > 1 {
		return fmt.Sprintf("transcribe %s (after %d attempts): %v", e.Path, e.Attempts, e.Err)
	}
	return fmt.Sprintf("transcribe %s: %v", e.Path, e.Err)
}

func (e *TranscriptionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func IsTranscriptionError(err error) bool {
	var transcriptionErr *TranscriptionError
	return errors.As(err, &transcriptionErr)
}

// isPermanentStatus reports whether an HTTP status will not change on retry.
func isPermanentStatus(status int) bool {
	if status < 400 || status >= 500 {
		return false
	}
	return status != http.StatusRequestTimeout && status != http.StatusTooManyRequests
}

package media

import (
	"errors"
	"fmt"
)

// ProbeError means the duration of the input could not be determined.
type ProbeError struct {
	Path string
	Err  error
}

func (e *ProbeError) Error() string {
	if e == nil || e.Err == nil {
		return "probe failed"
	}
	return fmt.Sprintf("probe %s: %v", e.Path, e.Err)
}

func (e *ProbeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ExtractionError means a chunk could not be cut from the input.
type ExtractionError struct {
	Output string
	Start  float64
	Length float64
	Err    error
}

func (e *ExtractionError) Error() string {
	if e == nil || e.Err == nil {
		return "extraction failed"
	}
	return fmt.Sprintf("extract %.3fs+%.3fs to %s: %v", e.Start, e.Length, e.Output, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func IsProbeError(err error) bool {
	var probeErr *ProbeError
	return errors.As(err, &probeErr)
}

func IsExtractionError(err error) bool {
	var extractErr *ExtractionError
	return errors.As(err, &extractErr)
}

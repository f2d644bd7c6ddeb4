package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	CodeConfig         = "CONFIG_ERROR"
	CodeDownload       = "DOWNLOAD_ERROR"
	CodeParse          = "PARSE_ERROR"
	CodeInput          = "INPUT_ERROR"
	CodeRemote         = "REMOTE_ERROR"
	CodeFormat         = "FORMAT_ERROR"
	CodeRetryExhausted = "RETRY_EXHAUSTED"
)

type PipelineError struct {
	Message string
	Code    string
	Context map[string]any
	Cause   error
}

func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

func NewPipelineError(message, code string, context map[string]any) *PipelineError {
	return &PipelineError{
		Message: message,
		Code:    code,
		Context: context,
	}
}

func (e *PipelineError) WithCause(cause error) *PipelineError {
	e.Cause = cause
	return e
}

// NewConfigError reports a missing or invalid configuration value.
func NewConfigError(message string) *PipelineError {
	return NewPipelineError(message, CodeConfig, nil)
}

// NewDownloadError reports an external downloader failure or the absence of
// any usable subtitle/chat track.
func NewDownloadError(message string, cause error) *PipelineError {
	return NewPipelineError(message, CodeDownload, nil).WithCause(cause)
}

type ParseError struct {
	*PipelineError
	Source string
}

func NewParseError(message, source string, cause error) *ParseError {
	return &ParseError{
		PipelineError: &PipelineError{
			Message: message,
			Code:    CodeParse,
			Context: map[string]any{
				"source": source,
			},
			Cause: cause,
		},
		Source: source,
	}
}

func (e *ParseError) Unwrap() error {
	return e.PipelineError
}

// NewInputError reports that the pipeline has nothing to work with before any
// remote call is attempted.
func NewInputError(message string) *PipelineError {
	return NewPipelineError(message, CodeInput, nil)
}

func NewRemoteError(message string, cause error) *PipelineError {
	return NewPipelineError(message, CodeRemote, nil).WithCause(cause)
}

type FormatError struct {
	*PipelineError
	Markers int
}

func NewFormatError(message string, markers int, context map[string]any) *FormatError {
	if context == nil {
		context = map[string]any{}
	}
	context["markers"] = markers
	return &FormatError{
		PipelineError: &PipelineError{
			Message: message,
			Code:    CodeFormat,
			Context: context,
		},
		Markers: markers,
	}
}

func (e *FormatError) Unwrap() error {
	return e.PipelineError
}

type RetryExhaustedError struct {
	*PipelineError
	Attempts int
}

func NewRetryExhaustedError(message string, attempts int, cause error) *RetryExhaustedError {
	return &RetryExhaustedError{
		PipelineError: &PipelineError{
			Message: message,
			Code:    CodeRetryExhausted,
			Context: map[string]any{
				"attempts": attempts,
			},
			Cause: cause,
		},
		Attempts: attempts,
	}
}

func (e *RetryExhaustedError) Unwrap() error {
	return e.PipelineError
}

// CodeOf returns the pipeline error code carried by err, or "" when err is
// not a pipeline error.
func CodeOf(err error) string {
	var pe *PipelineError
	if stderrors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// HasCode reports whether err carries the given pipeline error code.
func HasCode(err error, code string) bool {
	return CodeOf(err) == code
}

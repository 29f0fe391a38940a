package cli

import (
	stderrors "errors"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/netsentinel/netsentinel/internal/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONEnvelope wraps command output in a consistent structure for machine parsing.
// All --json output should use this envelope.
type JSONEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *JSONError  `json:"error,omitempty"`
}

// JSONError provides structured error information for machine parsing.
type JSONError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// ErrCodeUnknown marks errors that aren't structured.
const ErrCodeUnknown = "UNKNOWN"

// WriteJSONSuccess writes a successful response with data to the writer.
func WriteJSONSuccess(w io.Writer, data interface{}) error {
	return writeJSONEnvelope(w, JSONEnvelope{Success: true, Data: data})
}

// WriteJSONFromError converts a Go error to a JSON error response.
func WriteJSONFromError(w io.Writer, err error) error {
	return writeJSONEnvelope(w, JSONEnvelope{Success: false, Error: ErrorToJSON(err)})
}

func writeJSONEnvelope(w io.Writer, env JSONEnvelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// ErrorToJSON converts a Go error to a JSONError. Structured errors keep
// their code; anything else is UNKNOWN.
func ErrorToJSON(err error) *JSONError {
	if err == nil {
		return nil
	}

	var nsErr *errors.Error
	if stderrors.As(err, &nsErr) {
		return &JSONError{
			Code:       nsErr.Code,
			Message:    nsErr.Short(),
			Suggestion: nsErr.Suggestion,
		}
	}

	return &JSONError{
		Code:    ErrCodeUnknown,
		Message: errors.OneLine(err),
	}
}

// emitJSON writes data, or the error when err is set, and returns err so
// the exit code still reflects failure.
func emitJSON(w io.Writer, data interface{}, err error) error {
	if err != nil {
		if werr := WriteJSONFromError(w, err); werr != nil {
			return werr
		}
		return errSilent{err}
	}
	return WriteJSONSuccess(w, data)
}

// errSilent marks an error already reported on stdout.
type errSilent struct{ error }

func (e errSilent) Unwrap() error { return e.error }

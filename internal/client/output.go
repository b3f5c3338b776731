// Package client talks to the Wild Docs backend and formats command results.
// JSON output uses a fixed envelope; text output is styled for terminals.
package client

import (
	"encoding/json"
	"io"
	"time"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Response represents the JSON output envelope for all CLI command outputs.
// The Data and Error fields are mutually exclusive.
type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *Error      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Error represents structured error information in a CLI response.
type Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// WriteSuccess writes a success envelope holding data to w.
func WriteSuccess(w io.Writer, data interface{}) error {
	response := Response{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
	}
	return json.NewEncoder(w).Encode(response)
}

// WriteError writes an error envelope to w. code is machine-readable
// (e.g. "INVALID_GITHUB_URL"), message is shown to the user verbatim.
func WriteError(w io.Writer, code, message string, details interface{}) error {
	response := Response{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
			Details: details,
		},
		Timestamp: time.Now(),
	}
	return json.NewEncoder(w).Encode(response)
}

// Printer writes command results in the selected format.
type Printer struct {
	Out    io.Writer
	Format string
}

// NewPrinter returns a Printer for format, falling back to JSON for unknown formats.
func NewPrinter(out io.Writer, format string) *Printer {
	if format != FormatText {
		format = FormatJSON
	}
	return &Printer{Out: out, Format: format}
}

// IsText reports whether results are printed for humans.
func (p *Printer) IsText() bool {
	return p.Format == FormatText
}

// Success prints data as an envelope, or calls text in text mode.
func (p *Printer) Success(data interface{}, text func(io.Writer) error) error {
	if p.IsText() && text != nil {
		return text(p.Out)
	}
	return WriteSuccess(p.Out, data)
}

// Failure prints an error envelope, or a styled error line in text mode.
func (p *Printer) Failure(code, message string, details interface{}) error {
	if p.IsText() {
		return WriteErrorText(p.Out, code, message)
	}
	return WriteError(p.Out, code, message, details)
}

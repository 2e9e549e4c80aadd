/*
Package errs defines the coded error type shared by the HTTP layer.

Every client-visible failure maps to a stable business code (error_codes.go)
with a user-facing message and HTTP status (error_map.go), so clients switch
on codes instead of parsing message text.
*/
package errs

import (
	"fmt"
	"net/http"
	"strings"

	"dmchat/internal/pkg/logx"
)

// CustomError couples a business code with its client-facing message and the
// HTTP status it travels under.
type CustomError struct {
	// Code is the business error code (see error_codes.go).
	Code int

	// Message is the user-facing error description.
	Message string

	// Status is the HTTP status the response is written with.
	Status int
}

// Error satisfies the standard error interface.
func (e CustomError) Error() string {
	return fmt.Sprintf("Error Code %d (HTTP %d): %s", e.Code, e.Status, e.Message)
}

// NewError builds the CustomError registered for code. An unregistered code
// degrades to ErrUnknown rather than panicking mid-request. Optional details
// feed the message's printf placeholders when it has any; for ErrUnknown a
// leading error detail is logged server-side instead of exposed to clients.
func NewError(code int, details ...any) *CustomError {
	template, ok := errorMap[code]
	if !ok {
		logx.Error(
			fmt.Errorf("unregistered error code %d", code),
			"Unknown error code requested",
		)
		template = errorMap[ErrUnknown]
		return &template
	}

	customErr := template
	if customErr.Status == 0 {
		customErr.Status = http.StatusOK
	}

	if len(details) == 0 {
		return &customErr
	}

	if code == ErrUnknown {
		if cause, ok := details[0].(error); ok {
			logx.Error(cause, "Handling ErrUnknown with underlying error")
		}
		return &customErr
	}

	if strings.Contains(customErr.Message, "%") {
		customErr.Message = fmt.Sprintf(customErr.Message, details...)
	} else {
		logx.Warn("Details provided for an error whose message has no placeholders. Details ignored.",
			"code", code)
	}

	return &customErr
}

/*
Package resp writes the JSON envelope shared by every HTTP endpoint.

Success responses carry code 0 and an optional data payload; error responses
carry the business code and message defined in the errs package.
*/
package resp

import (
	"encoding/json"
	"net/http"

	"dmchat/internal/pkg/errs"
	"dmchat/internal/pkg/logx"
)

// JSONResponse is the envelope every endpoint returns.
type JSONResponse struct {
	// Code is 0 on success, otherwise a business code from the errs package.
	Code int `json:"code"`

	// Message describes the outcome in client-friendly terms.
	Message string `json:"message"`

	// Data carries the payload of a successful request, when there is one.
	Data any `json:"data,omitempty"`
}

// RespondJSON marshals payload and writes it with the given HTTP status.
func RespondJSON(w http.ResponseWriter, r *http.Request, httpStatus int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	body, err := json.Marshal(payload)
	if err != nil {
		logx.Error(err, "Error encoding JSON response", "http_status", httpStatus)
		http.Error(w, "Error encoding JSON response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(httpStatus)
	w.Write(body)
}

// RespondSuccess writes an HTTP 200 envelope with code 0 and the given data.
func RespondSuccess(w http.ResponseWriter, r *http.Request, data any) {
	RespondJSON(w, r, http.StatusOK, JSONResponse{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// RespondError writes the envelope for a CustomError, using its HTTP status.
// A nil error degrades to ErrUnknown rather than panicking mid-response.
func RespondError(w http.ResponseWriter, r *http.Request, customErr *errs.CustomError) {
	if customErr == nil {
		customErr = errs.NewError(errs.ErrUnknown)
	}

	RespondJSON(w, r, customErr.Status, JSONResponse{
		Code:    customErr.Code,
		Message: customErr.Message,
	})
}

// Package responses defines the HTTP layer's shared JSON response shapes.
package responses

import "github.com/scholarfed/engine/app/domain/common"

// ErrorResponse is the module's standard error body, following the
// teacher's `responses.ErrorResponse{Code, ErrorInstance}` convention: a
// stable UUID code for log correlation plus the underlying error.
type ErrorResponse struct {
	Code          string `json:"code"`
	ErrorInstance error  `json:"-"`
	Message       string `json:"message"`
}

// NewErrorResponse builds an ErrorResponse from a call-site UUID code and
// the underlying error, wrapping both in a common.Error so the code
// travels with the error through logs as well as the response body.
func NewErrorResponse(code string, err error) ErrorResponse {
	wrapped := common.NewError(err, code)
	return ErrorResponse{Code: code, ErrorInstance: wrapped, Message: wrapped.Error()}
}

package protocol

import (
	"errors"

	"github.com/Alia5/macropad/apitypes"
)

// Factory helpers returning *apitypes.ApiError (single canonical error type).
func ErrParse(detail string) *apitypes.ApiError {
	return &apitypes.ApiError{Status: 400, Title: "Parse Error", Detail: detail}
}
func ErrBadRequest(detail string) *apitypes.ApiError {
	return &apitypes.ApiError{Status: 400, Title: "Bad Request", Detail: detail}
}
func ErrNotFound(detail string) *apitypes.ApiError {
	return &apitypes.ApiError{Status: 404, Title: "Not Found", Detail: detail}
}
func ErrConflict(detail string) *apitypes.ApiError {
	return &apitypes.ApiError{Status: 409, Title: "Conflict", Detail: detail}
}
func ErrInternal(detail string) *apitypes.ApiError {
	return &apitypes.ApiError{Status: 500, Title: "Internal Server Error", Detail: detail}
}

// WrapError normalizes any error into *apitypes.ApiError.
func WrapError(err error) *apitypes.ApiError {
	if err == nil {
		return nil
	}
	var ae *apitypes.ApiError
	if errors.As(err, &ae) {
		return ae
	}
	var av apitypes.ApiError
	if errors.As(err, &av) {
		return &av
	}
	// Default wrap as internal error
	return ErrInternal(err.Error())
}

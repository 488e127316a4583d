package dto

import (
	"merchtable/internal/core/apperror"
)

// errorBody renders an error for embedding in a partial-success response.
func errorBody(err error) ErrorResponse {
	if appErr, ok := apperror.AsAppError(err); ok {
		return ErrorResponse{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		}
	}
	return ErrorResponse{
		Code:    apperror.CodeInternal,
		Message: err.Error(),
	}
}

package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	mw "sourcing-workflow/internal/adapter/middleware"
	"sourcing-workflow/internal/apperr"
)

// fieldErrors is a request that decoded but failed struct validation.
type fieldErrors struct{ list []FieldError }

func (e *fieldErrors) Error() string { return "validation failed" }

func statusFor(k apperr.Kind) int {
	switch k {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindValidation, apperr.KindConflict, apperr.KindInvalidTransition:
		return http.StatusBadRequest
	case apperr.KindAuthenticationRequired:
		return http.StatusUnauthorized
	case apperr.KindAuthorizationDenied:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders use case errors. Anything that is not an *apperr.Error
// is hidden behind a generic 500 and left to the request logger.
func writeError(c echo.Context, err error) error {
	var fe *fieldErrors
	if errors.As(err, &fe) {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: fe.Error(), Details: fe.list})
	}
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		mw.SetCause(c, err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
	resp := ErrorResponse{Error: ae.Message}
	if len(ae.Details) > 0 {
		resp.Details = ae.Details
	}
	return c.JSON(statusFor(ae.Kind), resp)
}

// bind decodes and validates req.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return apperr.Validation("invalid body")
	}
	if err := c.Validate(req); err != nil {
		return &fieldErrors{list: ToFieldErrors(err)}
	}
	return nil
}

func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("invalid " + name + " path param")
	}
	return id, nil
}

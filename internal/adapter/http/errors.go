package http

import (
	"net/http"

	"aura-lend/internal/domain/errs"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

var kindStatus = map[errs.Kind]int{
	errs.Validation:    http.StatusUnprocessableEntity,
	errs.State:         http.StatusConflict,
	errs.Authorization: http.StatusForbidden,
	errs.NotFound:      http.StatusNotFound,
	errs.Timing:        http.StatusPreconditionFailed,
	errs.EffectFailure: http.StatusFailedDependency,
}

// StatusFor maps an error to the HTTP status of its kind.
func StatusFor(err error) int {
	if code, ok := kindStatus[errs.KindOf(err)]; ok {
		return code
	}
	return http.StatusInternalServerError
}

func writeError(c echo.Context, err error) error {
	e, ok := errs.As(err)
	if !ok {
		log.Error().Err(err).Str("path", c.Path()).Msg("unclassified error")
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(StatusFor(err), ErrorResponse{
		Error:  err.Error(),
		Kind:   e.Kind.String(),
		Code:   e.Code,
		Entity: e.Entity,
		ID:     e.ID,
		Status: e.Status,
	})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func validationFailed(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Kind:    errs.Validation.String(),
		Details: ToFieldErrors(err),
	})
}

package http

import (
	"strconv"

	"aura-lend/internal/adapter/middleware"
	"aura-lend/pkg/id"

	"github.com/labstack/echo/v4"
)

// caller returns the authenticated address in Ax-Caller-Id.
func caller(c echo.Context) (string, bool) {
	a := id.NormalizeAddress(c.Request().Header.Get(middleware.HeaderCallerID))
	return a, id.ValidAddress(a)
}

func pathID(c echo.Context, name string) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	return n, err == nil && n > 0
}

// bindValid binds the body into req and validates it, writing the error
// response itself. A nil return with ok=false means the response is written.
func bindValid(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, badRequest(c, "invalid body")
	}
	if err := c.Validate(req); err != nil {
		return false, validationFailed(c, err)
	}
	return true, nil
}

package http

import (
	"net/http"
	"time"

	"aura-lend/internal/usecase/protocol"

	"github.com/labstack/echo/v4"
)

type Handler struct{ svc *protocol.Service }

func NewHandler(svc *protocol.Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (h *Handler) Stats(c echo.Context) error {
	st, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

// execute runs cmd and writes its result with status on success.
func execute(c echo.Context, svc *protocol.Service, cmd protocol.Command, status int) error {
	res, err := svc.Execute(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(status, res)
}

func missingCaller(c echo.Context) error {
	return badRequest(c, "missing or invalid Ax-Caller-Id")
}

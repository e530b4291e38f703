package http

import (
	"net/http"

	"aura-lend/internal/usecase/protocol"

	"github.com/labstack/echo/v4"
)

// AdminHandler serves the admin-gated commands and the account and
// reputation views. The admin capability is checked by the protocol, not here.
type AdminHandler struct{ svc *protocol.Service }

func NewAdminHandler(svc *protocol.Service) *AdminHandler { return &AdminHandler{svc: svc} }

type blacklistReq struct {
	Blacklisted *bool `json:"blacklisted" validate:"required"`
}

type attestorReq struct {
	Address string `json:"address" validate:"required,address"`
}

type depositReq struct {
	Amount uint64 `json:"amount" validate:"required,gt=0"`
}

func (h *AdminHandler) SetBlacklist(c echo.Context) error {
	admin, ok := caller(c)
	if !ok {
		return missingCaller(c)
	}
	var req blacklistReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	return execute(c, h.svc, protocol.SetBlacklist{
		Admin:       admin,
		Borrower:    c.Param("borrower"),
		Blacklisted: *req.Blacklisted,
	}, http.StatusOK)
}

func (h *AdminHandler) AddAttestor(c echo.Context) error {
	admin, ok := caller(c)
	if !ok {
		return missingCaller(c)
	}
	var req attestorReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	return execute(c, h.svc, protocol.AddAttestor{Admin: admin, Address: req.Address}, http.StatusCreated)
}

func (h *AdminHandler) RemoveAttestor(c echo.Context) error {
	admin, ok := caller(c)
	if !ok {
		return missingCaller(c)
	}
	return execute(c, h.svc, protocol.RemoveAttestor{Admin: admin, Address: c.Param("address")}, http.StatusOK)
}

// Deposit credits an account from outside the protocol.
func (h *AdminHandler) Deposit(c echo.Context) error {
	admin, ok := caller(c)
	if !ok {
		return missingCaller(c)
	}
	var req depositReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	address := c.Param("address")
	bal, err := h.svc.Deposit(c.Request().Context(), admin, address, req.Amount)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"address": address, "balance": bal})
}

func (h *AdminHandler) Balance(c echo.Context) error {
	address := c.Param("address")
	bal, err := h.svc.Balance(c.Request().Context(), address)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"address": address, "balance": bal})
}

func (h *AdminHandler) Profile(c echo.Context) error {
	p, err := h.svc.Profile(c.Request().Context(), c.Param("borrower"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

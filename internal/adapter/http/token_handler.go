package http

import (
	"net/http"

	"aura-lend/internal/usecase/protocol"

	"github.com/labstack/echo/v4"
)

type TokenHandler struct{ svc *protocol.Service }

func NewTokenHandler(svc *protocol.Service) *TokenHandler { return &TokenHandler{svc: svc} }

type mintReq struct {
	ValuationHash string `json:"valuation_hash" validate:"required,valuation"`
	MetadataRef   string `json:"metadata_ref"   validate:"max=2048"`
}

type authorizeReq struct {
	Borrower string `json:"borrower" validate:"required,address"`
}

// Mint issues a token owned by the caller.
func (h *TokenHandler) Mint(c echo.Context) error {
	owner, ok := caller(c)
	if !ok {
		return missingCaller(c)
	}
	var req mintReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	return execute(c, h.svc, protocol.Mint{
		Owner:         owner,
		ValuationHash: req.ValuationHash,
		MetadataRef:   req.MetadataRef,
	}, http.StatusCreated)
}

func (h *TokenHandler) Get(c echo.Context) error {
	tokenID, ok := pathID(c, "token_id")
	if !ok {
		return badRequest(c, "invalid token_id")
	}
	t, err := h.svc.Token(c.Request().Context(), tokenID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// Attest records the caller's attestation of the token's valuation.
func (h *TokenHandler) Attest(c echo.Context) error {
	attestor, ok := caller(c)
	if !ok {
		return missingCaller(c)
	}
	tokenID, ok := pathID(c, "token_id")
	if !ok {
		return badRequest(c, "invalid token_id")
	}
	return execute(c, h.svc, protocol.Attest{Attestor: attestor, TokenID: tokenID}, http.StatusOK)
}

func (h *TokenHandler) Authorize(c echo.Context) error {
	owner, ok := caller(c)
	if !ok {
		return missingCaller(c)
	}
	tokenID, ok := pathID(c, "token_id")
	if !ok {
		return badRequest(c, "invalid token_id")
	}
	var req authorizeReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	return execute(c, h.svc, protocol.AuthorizeBorrower{
		Owner:    owner,
		TokenID:  tokenID,
		Borrower: req.Borrower,
	}, http.StatusOK)
}

func (h *TokenHandler) ByOwner(c echo.Context) error {
	owner := c.Param("owner")
	ids, err := h.svc.TokensByOwner(c.Request().Context(), owner)
	if err != nil {
		return writeError(c, err)
	}
	if ids == nil {
		ids = []uint64{}
	}
	return c.JSON(http.StatusOK, map[string]any{"owner": owner, "token_ids": ids})
}

func (h *TokenHandler) Attestors(c echo.Context) error {
	list, err := h.svc.Attestors(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"attestors": list})
}

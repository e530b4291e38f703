package http

import (
	"net/http"

	"aura-lend/internal/domain/auction"
	"aura-lend/internal/usecase/protocol"

	"github.com/labstack/echo/v4"
)

type AuctionHandler struct{ svc *protocol.Service }

func NewAuctionHandler(svc *protocol.Service) *AuctionHandler { return &AuctionHandler{svc: svc} }

type bidReq struct {
	Amount uint64 `json:"amount" validate:"required,gt=0"`
}

func (h *AuctionHandler) Get(c echo.Context) error {
	auctionID, ok := pathID(c, "auction_id")
	if !ok {
		return badRequest(c, "invalid auction_id")
	}
	a, err := h.svc.Auction(c.Request().Context(), auctionID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *AuctionHandler) List(c echo.Context) error {
	status := auction.Status(c.QueryParam("status"))
	if status != "" && !status.Valid() {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: []FieldError{{Field: "status", Message: "must be one of active, ended, settled"}},
		})
	}
	list, err := h.svc.Auctions(c.Request().Context(), status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"auctions": nonNil(list)})
}

func (h *AuctionHandler) Bids(c echo.Context) error {
	auctionID, ok := pathID(c, "auction_id")
	if !ok {
		return badRequest(c, "invalid auction_id")
	}
	list, err := h.svc.Bids(c.Request().Context(), auctionID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"bids": nonNil(list)})
}

// PlaceBid bids for the caller. The bid amount moves into escrow when the
// bid is accepted.
func (h *AuctionHandler) PlaceBid(c echo.Context) error {
	bidder, ok := caller(c)
	if !ok {
		return missingCaller(c)
	}
	auctionID, ok := pathID(c, "auction_id")
	if !ok {
		return badRequest(c, "invalid auction_id")
	}
	var req bidReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	return execute(c, h.svc, protocol.PlaceBid{
		Bidder:    bidder,
		AuctionID: auctionID,
		Amount:    req.Amount,
	}, http.StatusCreated)
}

func (h *AuctionHandler) End(c echo.Context) error {
	who, ok := caller(c)
	if !ok {
		return missingCaller(c)
	}
	auctionID, ok := pathID(c, "auction_id")
	if !ok {
		return badRequest(c, "invalid auction_id")
	}
	return execute(c, h.svc, protocol.EndAuction{Caller: who, AuctionID: auctionID}, http.StatusOK)
}

func (h *AuctionHandler) Settle(c echo.Context) error {
	who, ok := caller(c)
	if !ok {
		return missingCaller(c)
	}
	auctionID, ok := pathID(c, "auction_id")
	if !ok {
		return badRequest(c, "invalid auction_id")
	}
	return execute(c, h.svc, protocol.Settle{Caller: who, AuctionID: auctionID}, http.StatusOK)
}

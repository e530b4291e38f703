package http

import (
	"aura-lend/internal/usecase/protocol"

	"github.com/labstack/echo/v4"
)

// Register mounts every route on e. mutating wraps the command routes,
// normally with the idempotency middleware.
func Register(e *echo.Echo, svc *protocol.Service, mutating ...echo.MiddlewareFunc) {
	h := NewHandler(svc)
	tokens := NewTokenHandler(svc)
	loans := NewLoanHandler(svc)
	auctions := NewAuctionHandler(svc)
	admin := NewAdminHandler(svc)

	e.GET("/health", h.Health)
	e.GET("/stats", h.Stats)

	// views
	e.GET("/tokens/:token_id", tokens.Get)
	e.GET("/owners/:owner/tokens", tokens.ByOwner)
	e.GET("/attestors", tokens.Attestors)
	e.GET("/loans", loans.ListLoans)
	e.GET("/loans/:loan_id", loans.GetLoan)
	e.GET("/borrowers/:borrower/loans", loans.ByBorrower)
	e.GET("/borrowers/:borrower/profile", admin.Profile)
	e.GET("/auctions", auctions.List)
	e.GET("/auctions/:auction_id", auctions.Get)
	e.GET("/auctions/:auction_id/bids", auctions.Bids)
	e.GET("/accounts/:address", admin.Balance)

	// commands
	e.POST("/tokens", tokens.Mint, mutating...)
	e.POST("/tokens/:token_id/attest", tokens.Attest, mutating...)
	e.POST("/tokens/:token_id/authorize", tokens.Authorize, mutating...)
	e.POST("/loans", loans.CreateLoan, mutating...)
	e.POST("/loans/:loan_id/fund", loans.Fund, mutating...)
	e.POST("/loans/:loan_id/repay", loans.Repay, mutating...)
	e.POST("/loans/:loan_id/default", loans.MarkDefault, mutating...)
	e.POST("/auctions/:auction_id/bids", auctions.PlaceBid, mutating...)
	e.POST("/auctions/:auction_id/end", auctions.End, mutating...)
	e.POST("/auctions/:auction_id/settle", auctions.Settle, mutating...)
	e.PUT("/admin/borrowers/:borrower/blacklist", admin.SetBlacklist, mutating...)
	e.POST("/admin/attestors", admin.AddAttestor, mutating...)
	e.DELETE("/admin/attestors/:address", admin.RemoveAttestor, mutating...)
	e.POST("/admin/accounts/:address/deposit", admin.Deposit, mutating...)
}

package auction

import "aura-lend/internal/domain/errs"

var (
	ErrAuctionNotFound    = errs.New(errs.NotFound, "AuctionNotFound", "auction not found")
	ErrAuctionNotActive   = errs.New(errs.State, "AuctionNotActive", "auction is not active")
	ErrAuctionClosed      = errs.New(errs.Timing, "AuctionClosed", "auction bidding window has closed")
	ErrBidTooLow          = errs.New(errs.State, "BidTooLow", "bid does not beat the current highest bid")
	ErrAuctionNotYetEnded = errs.New(errs.Timing, "AuctionNotYetEnded", "auction end time not reached")
	ErrAlreadySettled     = errs.New(errs.State, "AlreadySettled", "auction already settled")
	ErrAuctionExists      = errs.New(errs.State, "AuctionExists", "loan already has an auction")
	ErrLoanNotDefaulted   = errs.New(errs.State, "LoanNotDefaulted", "auction requires a defaulted loan")
	ErrInvalidAuction     = errs.New(errs.Validation, "InvalidAuction", "invalid auction parameters")
)

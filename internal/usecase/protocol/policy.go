package protocol

import (
	"strings"
	"time"

	"aura-lend/internal/domain/errs"
	"aura-lend/internal/usecase/auction"
	"aura-lend/internal/usecase/loan"
	"aura-lend/internal/usecase/reputation"
)

var (
	ErrNotAdmin       = errs.New(errs.Authorization, "NotAdmin", "caller lacks the admin capability")
	ErrTransferFailed = errs.New(errs.EffectFailure, "TransferFailed", "fund transfer failed")
	ErrUnknownCommand = errs.New(errs.Validation, "UnknownCommand", "unknown command")
	ErrInvalidDeposit = errs.New(errs.Validation, "InvalidDeposit", "invalid deposit")
	// ErrReservedAddress guards protocol-held accounts such as the auction
	// escrow, whose balance belongs to the open bids.
	ErrReservedAddress = errs.New(errs.Authorization, "ReservedAddress", "address is reserved for a protocol account")
)

type Clock interface {
	Now() int64
}

type ClockFunc func() int64

func (f ClockFunc) Now() int64 { return f() }

type SystemClock struct{}

func (SystemClock) Now() int64 { return time.Now().Unix() }

// FixedClock reports the same instant until moved.
type FixedClock struct{ T int64 }

func (c *FixedClock) Now() int64         { return c.T }
func (c *FixedClock) Advance(secs int64) { c.T += secs }
func (c *FixedClock) Set(t int64)        { c.T = t }

type Capabilities interface {
	IsAdmin(address string) bool
}

// AdminSet grants the admin capability to a fixed list of addresses.
type AdminSet map[string]struct{}

func NewAdminSet(addrs ...string) AdminSet {
	s := make(AdminSet, len(addrs))
	for _, a := range addrs {
		if a = strings.TrimSpace(a); a != "" {
			s[a] = struct{}{}
		}
	}
	return s
}

func (s AdminSet) IsAdmin(address string) bool {
	_, ok := s[address]
	return ok
}

type Policy struct {
	Repay      loan.RepayPolicy
	Auction    auction.Policy
	Reputation reputation.Policy
}

func DefaultPolicy() Policy {
	return Policy{
		Repay:      loan.RepayStrict,
		Auction:    auction.DefaultPolicy(),
		Reputation: reputation.DefaultPolicy(),
	}
}

// Package event defines the protocol's audit events. They are collected during
// a transition and emitted only after the transaction commits.
package event

import (
	"context"
	"strconv"
)

const (
	TypeCollateralMinted     = "collateral.minted"
	TypeCollateralAttested   = "collateral.attested"
	TypeCollateralAuthorized = "collateral.authorized"
	TypeCollateralTransfer   = "collateral.transferred"
	TypeAttestorAdded        = "collateral.attestor_added"
	TypeAttestorRemoved      = "collateral.attestor_removed"
	TypeLoanRequested        = "loan.requested"
	TypeLoanFunded           = "loan.funded"
	TypeLoanRepaid           = "loan.repaid"
	TypeLoanDefaulted        = "loan.defaulted"
	TypeAuctionStarted       = "auction.started"
	TypeAuctionBid           = "auction.bid"
	TypeAuctionEnded         = "auction.ended"
	TypeAuctionSettled       = "auction.settled"
	TypeBorrowerBlacklisted  = "reputation.blacklisted"
)

type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

func New(eventType string) Event {
	return Event{Type: eventType, Attributes: make(map[string]string)}
}

func (e Event) With(key, value string) Event {
	e.Attributes[key] = value
	return e
}

func (e Event) WithUint(key string, v uint64) Event {
	return e.With(key, strconv.FormatUint(v, 10))
}

func (e Event) WithInt(key string, v int64) Event {
	return e.With(key, strconv.FormatInt(v, 10))
}

func (e Event) WithBool(key string, v bool) Event {
	return e.With(key, strconv.FormatBool(v))
}

// Emitter publishes committed events. Implementations must not block the
// caller for long; failures are reported, never retried by the protocol.
type Emitter interface {
	Emit(ctx context.Context, events []Event) error
}

type NoopEmitter struct{}

func (NoopEmitter) Emit(context.Context, []Event) error { return nil }

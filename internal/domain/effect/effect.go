// Package effect describes the external side effects a protocol transition
// asks its environment to carry out. Transitions return effects instead of
// performing transfers inline so state and transfers commit together.
package effect

import "fmt"

type Kind string

const (
	FundTransfer  Kind = "fund_transfer"
	TokenTransfer Kind = "token_transfer"
)

// Effect is a single transfer. For fund transfers Amount is set; for token
// transfers TokenID is set.
type Effect struct {
	Kind    Kind   `json:"kind"`
	From    string `json:"from"`
	To      string `json:"to"`
	Amount  uint64 `json:"amount,omitempty"`
	TokenID uint64 `json:"token_id,omitempty"`
	Reason  string `json:"reason"`
}

func Funds(from, to string, amount uint64, reason string) Effect {
	return Effect{Kind: FundTransfer, From: from, To: to, Amount: amount, Reason: reason}
}

func Token(from, to string, tokenID uint64, reason string) Effect {
	return Effect{Kind: TokenTransfer, From: from, To: to, TokenID: tokenID, Reason: reason}
}

func (e Effect) String() string {
	if e.Kind == TokenTransfer {
		return fmt.Sprintf("token %d %s -> %s (%s)", e.TokenID, e.From, e.To, e.Reason)
	}
	return fmt.Sprintf("funds %d %s -> %s (%s)", e.Amount, e.From, e.To, e.Reason)
}

// FundsTo sums the fund transfers credited to addr.
func FundsTo(list []Effect, addr string) uint64 {
	var total uint64
	for _, e := range list {
		if e.Kind == FundTransfer && e.To == addr {
			total += e.Amount
		}
	}
	return total
}

package protocol

import (
	"context"

	"aura-lend/internal/domain/auction"
	"aura-lend/internal/domain/loan"
	"aura-lend/internal/domain/uow"
)

// Stats is a protocol-wide summary.
type Stats struct {
	TotalTokensMinted    uint64                    `json:"total_tokens_minted"`
	Loans                map[loan.Status]uint64    `json:"loans"`
	Auctions             map[auction.Status]uint64 `json:"auctions"`
	BlacklistedBorrowers uint64                    `json:"blacklisted_borrowers"`
	ActiveLoans          uint64                    `json:"active_loans"`
	ActiveRequests       uint64                    `json:"active_requests"`
	ActiveAuctions       uint64                    `json:"active_auctions"`
}

func (s *Service) Stats(ctx context.Context) (out Stats, err error) {
	err = s.view(ctx, func(r uow.Repos) error {
		out, err = s.proto.Stats(ctx, r)
		return err
	})
	return out, err
}

func (p *Protocol) Stats(ctx context.Context, r uow.Repos) (Stats, error) {
	var st Stats
	var err error
	if st.TotalTokensMinted, err = p.Tokens.TotalMinted(ctx, r); err != nil {
		return Stats{}, err
	}
	if st.Loans, err = r.Loans.CountByStatus(ctx); err != nil {
		return Stats{}, err
	}
	if st.Auctions, err = r.Auctions.CountByStatus(ctx); err != nil {
		return Stats{}, err
	}
	if st.BlacklistedBorrowers, err = r.Profiles.CountBlacklisted(ctx); err != nil {
		return Stats{}, err
	}
	st.ActiveRequests = st.Loans[loan.StatusRequested]
	st.ActiveLoans = st.Loans[loan.StatusFunded]
	st.ActiveAuctions = st.Auctions[auction.StatusActive]
	return st, nil
}

package protocol

import (
	"context"
	"strings"
	"time"

	"aura-lend/internal/domain/auction"
	"aura-lend/internal/domain/collateral"
	"aura-lend/internal/domain/effect"
	"aura-lend/internal/domain/errs"
	"aura-lend/internal/domain/event"
	"aura-lend/internal/domain/ledger"
	"aura-lend/internal/domain/loan"
	"aura-lend/internal/domain/reputation"
	"aura-lend/internal/domain/uow"
	"aura-lend/internal/infrastructure/metrics"

	"github.com/rs/zerolog"
)

// Service runs each command in its own transaction: Apply plus the fund
// transfers it returns either all commit or all roll back. Events are emitted
// only after commit.
type Service struct {
	proto   *Protocol
	uow     uow.UnitOfWork
	clock   Clock
	emitter event.Emitter
	metrics *metrics.ProtocolMetrics
	log     zerolog.Logger
}

type Option func(*Service)

func WithClock(c Clock) Option                      { return func(s *Service) { s.clock = c } }
func WithEmitter(e event.Emitter) Option            { return func(s *Service) { s.emitter = e } }
func WithMetrics(m *metrics.ProtocolMetrics) Option { return func(s *Service) { s.metrics = m } }
func WithLogger(l zerolog.Logger) Option            { return func(s *Service) { s.log = l } }

func NewService(p *Protocol, u uow.UnitOfWork, opts ...Option) *Service {
	s := &Service{
		proto:   p,
		uow:     u,
		clock:   SystemClock{},
		emitter: event.NoopEmitter{},
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) Protocol() *Protocol { return s.proto }

func (s *Service) Execute(ctx context.Context, cmd Command) (Result, error) {
	start := time.Now()
	now := s.clock.Now()

	var res Result
	err := s.uow.WithinTx(ctx, func(r uow.Repos) error {
		out, err := s.proto.Apply(ctx, r, now, cmd)
		if err != nil {
			return err
		}
		if err := transferFunds(ctx, r.Ledger, out.Effects); err != nil {
			return err
		}
		res = out
		return nil
	})
	elapsed := time.Since(start)
	if err != nil {
		kind := errs.KindOf(err)
		s.metrics.ObserveCommand(cmd.Name(), kind.String(), elapsed)
		s.log.Warn().Err(err).
			Str("command", cmd.Name()).
			Str("kind", kind.String()).
			Int64("now", now).
			Msg("command rejected")
		return Result{}, err
	}

	s.metrics.ObserveCommand(cmd.Name(), "ok", elapsed)
	for _, e := range res.Effects {
		s.metrics.ObserveEffect(string(e.Kind), e.Reason, e.Amount)
	}
	s.log.Info().
		Str("command", cmd.Name()).
		Uint64("id", res.ID).
		Int("effects", len(res.Effects)).
		Dur("elapsed", elapsed).
		Msg("command applied")

	if len(res.Events) > 0 {
		if err := s.emitter.Emit(ctx, res.Events); err != nil {
			s.metrics.ObserveEmitFailure()
			s.log.Error().Err(err).Str("command", cmd.Name()).Int("events", len(res.Events)).Msg("emit events")
		}
	}
	return res, nil
}

// transferFunds carries out the fund effects in order. Token effects were
// applied by the collateral registry and are only reported.
func transferFunds(ctx context.Context, l ledger.Repository, effects []effect.Effect) error {
	for _, e := range effects {
		if e.Kind != effect.FundTransfer {
			continue
		}
		if err := l.Transfer(ctx, e.From, e.To, e.Amount); err != nil {
			return ErrTransferFailed.Withf("%s", e).Wrap(err)
		}
	}
	return nil
}

// Deposit credits an account from outside the protocol, standing in for the
// environment funding its users.
func (s *Service) Deposit(ctx context.Context, admin, address string, amount uint64) (uint64, error) {
	if !s.proto.IsAdmin(admin) {
		return 0, ErrNotAdmin.Withf("%q", admin)
	}
	address = strings.TrimSpace(address)
	if address == "" || amount == 0 {
		return 0, ErrInvalidDeposit.Withf("address %q amount %d", address, amount)
	}
	if s.proto.IsReserved(address) {
		return 0, ErrReservedAddress.Withf("deposit to %q", address)
	}
	var bal uint64
	err := s.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Ledger.Credit(ctx, address, amount); err != nil {
			return err
		}
		var err error
		bal, err = r.Ledger.Balance(ctx, address)
		return err
	})
	if err == nil {
		s.log.Info().Str("address", address).Uint64("amount", amount).Msg("deposit")
	}
	return bal, err
}

// SeedAttestors registers addrs as attestors, skipping those already present.
func (s *Service) SeedAttestors(ctx context.Context, admin string, addrs []string) error {
	now := s.clock.Now()
	return s.uow.WithinTx(ctx, func(r uow.Repos) error {
		sc := uow.NewScope(r, now)
		for _, a := range addrs {
			if strings.TrimSpace(a) == "" {
				continue
			}
			if s.proto.IsReserved(a) {
				return ErrReservedAddress.Withf("attestor %q", a)
			}
			if err := s.proto.Tokens.EnsureAttestor(ctx, sc, admin, a); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Service) view(ctx context.Context, fn func(r uow.Repos) error) error {
	return s.uow.WithinTx(ctx, fn)
}

func (s *Service) Token(ctx context.Context, tokenID uint64) (t *collateral.Token, err error) {
	err = s.view(ctx, func(r uow.Repos) error {
		t, err = s.proto.Tokens.Get(ctx, r, tokenID)
		return err
	})
	return t, err
}

func (s *Service) TokensByOwner(ctx context.Context, owner string) (ids []uint64, err error) {
	err = s.view(ctx, func(r uow.Repos) error {
		ids, err = s.proto.Tokens.ByOwner(ctx, r, owner)
		return err
	})
	return ids, err
}

func (s *Service) Attestors(ctx context.Context) (out []collateral.Attestor, err error) {
	err = s.view(ctx, func(r uow.Repos) error {
		out, err = r.Tokens.ListAttestors(ctx)
		return err
	})
	return out, err
}

func (s *Service) Loan(ctx context.Context, loanID uint64) (l *loan.Loan, err error) {
	err = s.view(ctx, func(r uow.Repos) error {
		l, err = s.proto.Loans.Get(ctx, r, loanID)
		return err
	})
	return l, err
}

// Loans lists loans in status, or all loans when status is empty.
func (s *Service) Loans(ctx context.Context, status loan.Status) (out []loan.Loan, err error) {
	err = s.view(ctx, func(r uow.Repos) error {
		out, err = s.proto.Loans.List(ctx, r, status)
		return err
	})
	return out, err
}

func (s *Service) LoansByBorrower(ctx context.Context, borrower string) (out []loan.Loan, err error) {
	err = s.view(ctx, func(r uow.Repos) error {
		out, err = s.proto.Loans.ByBorrower(ctx, r, borrower)
		return err
	})
	return out, err
}

func (s *Service) Auction(ctx context.Context, auctionID uint64) (a *auction.Auction, err error) {
	err = s.view(ctx, func(r uow.Repos) error {
		a, err = s.proto.Auctions.Get(ctx, r, auctionID)
		return err
	})
	return a, err
}

func (s *Service) Auctions(ctx context.Context, status auction.Status) (out []auction.Auction, err error) {
	err = s.view(ctx, func(r uow.Repos) error {
		out, err = s.proto.Auctions.List(ctx, r, status)
		return err
	})
	return out, err
}

func (s *Service) Bids(ctx context.Context, auctionID uint64) (out []auction.Bid, err error) {
	err = s.view(ctx, func(r uow.Repos) error {
		out, err = s.proto.Auctions.Bids(ctx, r, auctionID)
		return err
	})
	return out, err
}

func (s *Service) Profile(ctx context.Context, borrower string) (p *reputation.Profile, err error) {
	err = s.view(ctx, func(r uow.Repos) error {
		p, err = s.proto.Profiles.Get(ctx, r, borrower)
		return err
	})
	return p, err
}

func (s *Service) Balance(ctx context.Context, address string) (bal uint64, err error) {
	err = s.view(ctx, func(r uow.Repos) error {
		bal, err = r.Ledger.Balance(ctx, address)
		return err
	})
	return bal, err
}

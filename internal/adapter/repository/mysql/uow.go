package mysql

import (
	"context"

	"aura-lend/internal/domain/auction"
	"aura-lend/internal/domain/collateral"
	"aura-lend/internal/domain/ledger"
	"aura-lend/internal/domain/loan"
	"aura-lend/internal/domain/reputation"
	"aura-lend/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

var _ uow.UnitOfWork = (*GormUoW)(nil)

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepos(tx))
	})
}

// NewRepos binds every repository to db, usually a transaction handle.
func NewRepos(db *gorm.DB) uow.Repos {
	return uow.Repos{
		Tokens:   NewTokenRepository(db),
		Loans:    NewLoanRepository(db),
		Auctions: NewAuctionRepository(db),
		Profiles: NewProfileRepository(db),
		Ledger:   NewLedgerRepository(db),
	}
}

// Models lists every persisted entity, for AutoMigrate.
func Models() []any {
	return []any{
		&collateral.Token{},
		&collateral.Attestor{},
		&loan.Loan{},
		&auction.Auction{},
		&auction.Bid{},
		&reputation.Profile{},
		&ledger.Account{},
	}
}

func Migrate(db *gorm.DB) error { return db.AutoMigrate(Models()...) }

package mysql

import (
	"context"

	"aura-lend/internal/domain/collateral"

	"gorm.io/gorm"
)

type TokenRepository struct{ db *gorm.DB }

func NewTokenRepository(db *gorm.DB) *TokenRepository { return &TokenRepository{db: db} }

func (r *TokenRepository) Create(ctx context.Context, t *collateral.Token) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TokenRepository) Get(ctx context.Context, tokenID uint64) (*collateral.Token, error) {
	return r.get(r.db.WithContext(ctx), tokenID)
}

func (r *TokenRepository) GetForUpdate(ctx context.Context, tokenID uint64) (*collateral.Token, error) {
	return r.get(forUpdate(r.db.WithContext(ctx)), tokenID)
}

func (r *TokenRepository) get(db *gorm.DB, tokenID uint64) (*collateral.Token, error) {
	var out collateral.Token
	if err := db.Where("id = ?", tokenID).First(&out).Error; err != nil {
		if notFound(err) {
			return nil, collateral.ErrTokenNotFound.On("token", tokenID, "")
		}
		return nil, err
	}
	return &out, nil
}

func (r *TokenRepository) Save(ctx context.Context, t *collateral.Token) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *TokenRepository) ListByOwner(ctx context.Context, owner string) ([]collateral.Token, error) {
	out := []collateral.Token{}
	err := r.db.WithContext(ctx).Where("owner = ?", owner).Order("id ASC").Find(&out).Error
	return out, err
}

func (r *TokenRepository) Count(ctx context.Context) (uint64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&collateral.Token{}).Count(&n).Error
	return uint64(n), err
}

func (r *TokenRepository) IsAttestor(ctx context.Context, address string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&collateral.Attestor{}).Where("address = ?", address).Count(&n).Error
	return n > 0, err
}

func (r *TokenRepository) AddAttestor(ctx context.Context, a *collateral.Attestor) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *TokenRepository) RemoveAttestor(ctx context.Context, address string) error {
	res := r.db.WithContext(ctx).Where("address = ?", address).Delete(&collateral.Attestor{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return collateral.ErrAttestorNotFound.Withf("%q", address)
	}
	return nil
}

func (r *TokenRepository) ListAttestors(ctx context.Context) ([]collateral.Attestor, error) {
	out := []collateral.Attestor{}
	err := r.db.WithContext(ctx).Order("address ASC").Find(&out).Error
	return out, err
}

package mysql

import (
	"context"

	"aura-lend/internal/domain/reputation"

	"gorm.io/gorm"
)

type ProfileRepository struct{ db *gorm.DB }

func NewProfileRepository(db *gorm.DB) *ProfileRepository { return &ProfileRepository{db: db} }

func (r *ProfileRepository) Get(ctx context.Context, borrower string) (*reputation.Profile, error) {
	return r.get(r.db.WithContext(ctx), borrower)
}

func (r *ProfileRepository) GetForUpdate(ctx context.Context, borrower string) (*reputation.Profile, error) {
	return r.get(forUpdate(r.db.WithContext(ctx)), borrower)
}

func (r *ProfileRepository) get(db *gorm.DB, borrower string) (*reputation.Profile, error) {
	var out reputation.Profile
	if err := db.Where("borrower = ?", borrower).First(&out).Error; err != nil {
		if notFound(err) {
			return nil, reputation.ErrProfileNotFound.Withf("%q", borrower)
		}
		return nil, err
	}
	return &out, nil
}

func (r *ProfileRepository) Save(ctx context.Context, p *reputation.Profile) error {
	return upsert(r.db.WithContext(ctx)).Create(p).Error
}

func (r *ProfileRepository) CountBlacklisted(ctx context.Context) (uint64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&reputation.Profile{}).Where("is_blacklisted = ?", true).Count(&n).Error
	return uint64(n), err
}

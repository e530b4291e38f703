package mysql

import (
	"context"
	"errors"
	"testing"

	"aura-lend/internal/domain/collateral"
)

func TestTokenRepository_LockRoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewTokenRepository(db)
	ctx := context.Background()

	tok := &collateral.Token{Owner: "alice", ValuationHash: "0xabc", MetadataRef: "ipfs://doc", CreatedAt: 100}
	if err := repo.Create(ctx, tok); err != nil {
		t.Fatalf("Create: %v", err)
	}

	loanID := uint64(7)
	tok.LockedByLoanID = &loanID
	tok.IsAttested = true
	if err := repo.Save(ctx, tok); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := repo.GetForUpdate(ctx, tok.ID)
	if err != nil {
		t.Fatalf("GetForUpdate: %v", err)
	}
	if got.LockedByLoanID == nil || *got.LockedByLoanID != 7 || !got.IsAttested {
		t.Fatalf("lock not persisted: %+v", got)
	}

	got.LockedByLoanID = nil
	if err := repo.Save(ctx, got); err != nil {
		t.Fatalf("Save unlock: %v", err)
	}
	again, _ := repo.Get(ctx, tok.ID)
	if again.IsLocked() {
		t.Fatalf("unlock not persisted")
	}

	if _, err := repo.Get(ctx, 999); !errors.Is(err, collateral.ErrTokenNotFound) {
		t.Fatalf("want ErrTokenNotFound, got %v", err)
	}
}

func TestTokenRepository_OwnerIndexAndCount(t *testing.T) {
	db := openTestDB(t)
	repo := NewTokenRepository(db)
	ctx := context.Background()

	for _, owner := range []string{"alice", "bob", "alice"} {
		if err := repo.Create(ctx, &collateral.Token{Owner: owner, ValuationHash: "h"}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	mine, err := repo.ListByOwner(ctx, "alice")
	if err != nil || len(mine) != 2 {
		t.Fatalf("ListByOwner: %v %d", err, len(mine))
	}
	if n, _ := repo.Count(ctx); n != 3 {
		t.Fatalf("Count: %d", n)
	}
}

func TestTokenRepository_Attestors(t *testing.T) {
	db := openTestDB(t)
	repo := NewTokenRepository(db)
	ctx := context.Background()

	if ok, _ := repo.IsAttestor(ctx, "appraiser"); ok {
		t.Fatalf("unexpected attestor")
	}
	if err := repo.AddAttestor(ctx, &collateral.Attestor{Address: "appraiser", AddedBy: "admin", AddedAt: 1}); err != nil {
		t.Fatalf("AddAttestor: %v", err)
	}
	if ok, _ := repo.IsAttestor(ctx, "appraiser"); !ok {
		t.Fatalf("attestor not registered")
	}
	list, _ := repo.ListAttestors(ctx)
	if len(list) != 1 || list[0].AddedBy != "admin" {
		t.Fatalf("ListAttestors: %+v", list)
	}
	if err := repo.RemoveAttestor(ctx, "appraiser"); err != nil {
		t.Fatalf("RemoveAttestor: %v", err)
	}
	if err := repo.RemoveAttestor(ctx, "appraiser"); !errors.Is(err, collateral.ErrAttestorNotFound) {
		t.Fatalf("want ErrAttestorNotFound, got %v", err)
	}
}

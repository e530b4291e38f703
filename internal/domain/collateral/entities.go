package collateral

// Token is a tokenized property valuation. It can back at most one loan at a
// time; LockedByLoanID names that loan while it is set.
type Token struct {
	ID               uint64  `gorm:"primaryKey;column:id" json:"token_id"`
	Owner            string  `gorm:"size:66;index:idx_tokens_owner" json:"owner"`
	ValuationHash    string  `gorm:"size:128" json:"valuation_hash"`
	MetadataRef      string  `gorm:"type:text" json:"metadata_ref"`
	IsAttested       bool    `json:"is_attested"`
	Attestor         string  `gorm:"size:66" json:"attestor,omitempty"`
	CreatedAt        int64   `gorm:"autoCreateTime:false" json:"created_at"`
	AttestedAt       int64   `json:"attested_at,omitempty"`
	LockedByLoanID   *uint64 `gorm:"index:idx_tokens_locked_by" json:"locked_by_loan_id,omitempty"`
	ApprovedBorrower string  `gorm:"size:66" json:"approved_borrower,omitempty"`
}

func (Token) TableName() string { return "collateral_tokens" }

func (t *Token) IsLocked() bool { return t.LockedByLoanID != nil }

// CanBorrowAgainst reports whether borrower may open a loan backed by t.
func (t *Token) CanBorrowAgainst(borrower string) bool {
	return borrower != "" && (t.Owner == borrower || t.ApprovedBorrower == borrower)
}

// Clone returns a deep copy; the lock pointer is not shared.
func (t Token) Clone() Token {
	if t.LockedByLoanID != nil {
		id := *t.LockedByLoanID
		t.LockedByLoanID = &id
	}
	return t
}

type Attestor struct {
	Address string `gorm:"primaryKey;size:66" json:"address"`
	AddedBy string `gorm:"size:66" json:"added_by"`
	AddedAt int64  `json:"added_at"`
}

func (Attestor) TableName() string { return "collateral_attestors" }

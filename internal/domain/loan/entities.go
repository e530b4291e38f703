package loan

type Status string

const (
	StatusRequested Status = "requested"
	StatusFunded    Status = "funded"
	StatusRepaid    Status = "repaid"
	StatusDefaulted Status = "defaulted"
)

func (s Status) Valid() bool {
	switch s {
	case StatusRequested, StatusFunded, StatusRepaid, StatusDefaulted:
		return true
	}
	return false
}

// Terminal loans are kept for history but never change again.
func (s Status) Terminal() bool { return s == StatusRepaid || s == StatusDefaulted }

// Loan is both the open request and, once funded, the active loan. Funding
// fills in the lender, the due date and the repayment amount.
type Loan struct {
	ID              uint64 `gorm:"primaryKey;column:id" json:"loan_id"`
	Borrower        string `gorm:"size:66;index:idx_loans_borrower" json:"borrower"`
	TokenID         uint64 `gorm:"index:idx_loans_token" json:"token_id"`
	TokenOwner      string `gorm:"size:66" json:"token_owner"`
	Lender          string `gorm:"size:66" json:"lender,omitempty"`
	Amount          uint64 `json:"amount"`
	InterestRateBps uint64 `json:"interest_rate_bps"`
	DurationSecs    int64  `json:"duration_secs"`
	CreatedAt       int64  `gorm:"autoCreateTime:false" json:"created_at"`
	FundedAt        int64  `json:"funded_at,omitempty"`
	DueDate         int64  `json:"due_date,omitempty"`
	RepaymentAmount uint64 `json:"repayment_amount"`
	RepaidAt        int64  `json:"repaid_at,omitempty"`
	DefaultedAt     int64  `json:"defaulted_at,omitempty"`
	Status          Status `gorm:"size:16;index:idx_loans_status;default:'requested'" json:"status"`
}

func (Loan) TableName() string { return "loans" }

// Overdue reports whether the loan is past its due date at now.
func (l *Loan) Overdue(now int64) bool { return l.Status == StatusFunded && now > l.DueDate }

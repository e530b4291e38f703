package reputation

type Profile struct {
	Borrower              string `gorm:"primaryKey;size:66" json:"borrower"`
	TotalLoansTaken       uint64 `json:"total_loans_taken"`
	LoansRepaid           uint64 `json:"loans_repaid"`
	LoansDefaulted        uint64 `json:"loans_defaulted"`
	TotalAmountBorrowed   uint64 `json:"total_amount_borrowed"`
	TotalAmountRepaid     uint64 `json:"total_amount_repaid"`
	RepaymentScore        uint64 `json:"repayment_score"`
	IsBlacklisted         bool   `json:"is_blacklisted"`
	FirstLoanTimestamp    int64  `json:"first_loan_timestamp,omitempty"`
	LastActivityTimestamp int64  `json:"last_activity_timestamp,omitempty"`
}

func (Profile) TableName() string { return "borrower_profiles" }

// NewProfile is the profile of a borrower with no history.
func NewProfile(borrower string) *Profile {
	return &Profile{Borrower: borrower, RepaymentScore: MaxScore}
}

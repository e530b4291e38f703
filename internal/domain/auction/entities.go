package auction

type Status string

const (
	StatusActive  Status = "active"
	StatusEnded   Status = "ended"
	StatusSettled Status = "settled"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusEnded || s == StatusSettled
}

// Auction liquidates the collateral of one defaulted loan. DebtAmount is the
// loan's repayment amount at default; the lender is paid at most that much.
type Auction struct {
	ID                uint64 `gorm:"primaryKey;column:id" json:"auction_id"`
	TokenID           uint64 `gorm:"index:idx_auctions_token" json:"token_id"`
	LoanID            uint64 `gorm:"uniqueIndex:ux_auctions_loan" json:"loan_id"`
	OriginalBorrower  string `gorm:"size:66" json:"original_borrower"`
	Lender            string `gorm:"size:66" json:"lender"`
	StartTime         int64  `json:"start_time"`
	EndTime           int64  `json:"end_time"`
	MinBid            uint64 `json:"min_bid"`
	DebtAmount        uint64 `json:"debt_amount"`
	CurrentHighestBid uint64 `json:"current_highest_bid"`
	HighestBidder     string `gorm:"size:66" json:"highest_bidder,omitempty"`
	TotalBids         uint64 `json:"total_bids"`
	Status            Status `gorm:"size:16;index:idx_auctions_status;default:'active'" json:"status"`
	SettledAt         int64  `json:"settled_at,omitempty"`
}

func (Auction) TableName() string { return "auctions" }

func (a *Auction) HasBids() bool { return a.TotalBids > 0 }

// Bid is append-only history.
type Bid struct {
	ID        uint64 `gorm:"primaryKey;column:id" json:"bid_id"`
	AuctionID uint64 `gorm:"index:idx_bids_auction" json:"auction_id"`
	Bidder    string `gorm:"size:66" json:"bidder"`
	Amount    uint64 `json:"amount"`
	Timestamp int64  `json:"timestamp"`
}

func (Bid) TableName() string { return "auction_bids" }

// Split divides a winning bid between lender and borrower: the lender is
// paid up to the debt and any surplus goes back to the borrower.
func Split(bid, debt uint64) (toLender, toBorrower uint64) {
	if bid <= debt {
		return bid, 0
	}
	return debt, bid - debt
}

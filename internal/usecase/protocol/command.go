package protocol

// Command is the closed set of state-changing requests the protocol accepts.
// Apply switches over every variant.
type Command interface {
	Name() string
	isCommand()
}

type Mint struct {
	Owner         string
	ValuationHash string
	MetadataRef   string
}

type Attest struct {
	Attestor string
	TokenID  uint64
}

type AuthorizeBorrower struct {
	Owner    string
	TokenID  uint64
	Borrower string
}

type AddAttestor struct {
	Admin   string
	Address string
}

type RemoveAttestor struct {
	Admin   string
	Address string
}

type CreateRequest struct {
	Borrower        string
	TokenID         uint64
	Amount          uint64
	InterestRateBps uint64
	DurationSecs    int64
}

type Fund struct {
	Lender string
	LoanID uint64
}

type Repay struct {
	Payer  string
	LoanID uint64
}

type MarkDefault struct {
	Caller string
	LoanID uint64
}

type PlaceBid struct {
	Bidder    string
	AuctionID uint64
	Amount    uint64
}

type EndAuction struct {
	Caller    string
	AuctionID uint64
}

type Settle struct {
	Caller    string
	AuctionID uint64
}

type SetBlacklist struct {
	Admin       string
	Borrower    string
	Blacklisted bool
}

func (Mint) Name() string              { return "mint" }
func (Attest) Name() string            { return "attest" }
func (AuthorizeBorrower) Name() string { return "authorize_borrower" }
func (AddAttestor) Name() string       { return "add_attestor" }
func (RemoveAttestor) Name() string    { return "remove_attestor" }
func (CreateRequest) Name() string     { return "create_request" }
func (Fund) Name() string              { return "fund" }
func (Repay) Name() string             { return "repay" }
func (MarkDefault) Name() string       { return "mark_default" }
func (PlaceBid) Name() string          { return "place_bid" }
func (EndAuction) Name() string        { return "end_auction" }
func (Settle) Name() string            { return "settle" }
func (SetBlacklist) Name() string      { return "set_blacklist" }

func (Mint) isCommand()              {}
func (Attest) isCommand()            {}
func (AuthorizeBorrower) isCommand() {}
func (AddAttestor) isCommand()       {}
func (RemoveAttestor) isCommand()    {}
func (CreateRequest) isCommand()     {}
func (Fund) isCommand()              {}
func (Repay) isCommand()             {}
func (MarkDefault) isCommand()       {}
func (PlaceBid) isCommand()          {}
func (EndAuction) isCommand()        {}
func (Settle) isCommand()            {}
func (SetBlacklist) isCommand()      {}

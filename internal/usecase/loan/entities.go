package loan

import "fmt"

// RepayPolicy decides how long a funded loan stays repayable.
type RepayPolicy string

const (
	// RepayStrict accepts repayment up to and including the due date.
	RepayStrict RepayPolicy = "strict"
	// RepayUntilDefault accepts repayment after the due date until someone
	// marks the loan defaulted.
	RepayUntilDefault RepayPolicy = "until-default"
)

func ParseRepayPolicy(s string) (RepayPolicy, error) {
	switch p := RepayPolicy(s); p {
	case RepayStrict, RepayUntilDefault:
		return p, nil
	case "":
		return RepayStrict, nil
	}
	return "", fmt.Errorf("unknown repay policy %q", s)
}

type CreateRequestInput struct {
	Borrower        string
	TokenID         uint64
	Amount          uint64
	InterestRateBps uint64
	DurationSecs    int64
}

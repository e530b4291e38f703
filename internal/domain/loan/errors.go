package loan

import "aura-lend/internal/domain/errs"

var (
	ErrLoanNotFound           = errs.New(errs.NotFound, "LoanNotFound", "loan not found")
	ErrTokenNotAttested       = errs.New(errs.State, "TokenNotAttested", "collateral token is not attested")
	ErrTokenLocked            = errs.New(errs.State, "TokenLocked", "collateral token already backs a loan")
	ErrNotTokenHolder         = errs.New(errs.Authorization, "NotTokenHolder", "borrower neither owns nor is authorized on the token")
	ErrBorrowerBlacklisted    = errs.New(errs.Authorization, "BorrowerBlacklisted", "borrower is blacklisted")
	ErrInvalidLoanTerms       = errs.New(errs.Validation, "InvalidLoanTerms", "invalid loan terms")
	ErrInvalidStateTransition = errs.New(errs.State, "InvalidStateTransition", "invalid loan state transition")
	ErrAlreadyFunded          = errs.New(errs.State, "AlreadyFunded", "loan already funded")
	ErrSelfFunding            = errs.New(errs.Authorization, "SelfFunding", "lender cannot be the borrower")
	ErrNotYetDue              = errs.New(errs.Timing, "NotYetDue", "loan is not past its due date")
	ErrLoanOverdue            = errs.New(errs.Timing, "LoanOverdue", "loan is past its due date")
)

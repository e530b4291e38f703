package reputation

import "aura-lend/internal/domain/errs"

var (
	ErrProfileNotFound = errs.New(errs.NotFound, "ProfileNotFound", "borrower profile not found")
	ErrInvalidBorrower = errs.New(errs.Validation, "InvalidBorrower", "borrower address is required")
)

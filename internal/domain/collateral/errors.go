package collateral

import "aura-lend/internal/domain/errs"

var (
	ErrTokenNotFound      = errs.New(errs.NotFound, "TokenNotFound", "collateral token not found")
	ErrInvalidInput       = errs.New(errs.Validation, "InvalidInput", "invalid collateral input")
	ErrUnauthorized       = errs.New(errs.Authorization, "Unauthorized", "caller is not an authorized attestor")
	ErrNotOwner           = errs.New(errs.Authorization, "NotTokenOwner", "caller does not own the token")
	ErrAlreadyAttested    = errs.New(errs.State, "AlreadyAttested", "token already attested")
	ErrTokenAlreadyLocked = errs.New(errs.State, "TokenAlreadyLocked", "token already locked by a loan")
	ErrTokenNotLocked     = errs.New(errs.State, "TokenNotLocked", "token is not locked")
	ErrNotTransferable    = errs.New(errs.State, "NotTransferable", "token is not held by a defaulted loan")
	ErrAttestorExists     = errs.New(errs.State, "AttestorExists", "attestor already registered")
	ErrAttestorNotFound   = errs.New(errs.NotFound, "AttestorNotFound", "attestor not registered")
)

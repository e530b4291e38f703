package http

import (
	"net/http"

	"aura-lend/internal/domain/loan"
	"aura-lend/internal/usecase/protocol"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct{ svc *protocol.Service }

func NewLoanHandler(svc *protocol.Service) *LoanHandler { return &LoanHandler{svc: svc} }

type createLoanReq struct {
	TokenID         uint64 `json:"token_id"          validate:"required,gt=0"`
	Amount          uint64 `json:"amount"            validate:"required,gt=0"`
	InterestRateBps uint64 `json:"interest_rate_bps"`
	DurationSecs    int64  `json:"duration_secs"     validate:"required,gt=0"`
}

// CreateLoan opens a loan request for the caller against a token.
func (h *LoanHandler) CreateLoan(c echo.Context) error {
	borrower, ok := caller(c)
	if !ok {
		return missingCaller(c)
	}
	var req createLoanReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	return execute(c, h.svc, protocol.CreateRequest{
		Borrower:        borrower,
		TokenID:         req.TokenID,
		Amount:          req.Amount,
		InterestRateBps: req.InterestRateBps,
		DurationSecs:    req.DurationSecs,
	}, http.StatusCreated)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	loanID, ok := pathID(c, "loan_id")
	if !ok {
		return badRequest(c, "invalid loan_id")
	}
	l, err := h.svc.Loan(c.Request().Context(), loanID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

// ListLoans lists loans, optionally filtered by ?status=.
func (h *LoanHandler) ListLoans(c echo.Context) error {
	status := loan.Status(c.QueryParam("status"))
	if status != "" && !status.Valid() {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: []FieldError{{Field: "status", Message: "must be one of requested, funded, repaid, defaulted"}},
		})
	}
	list, err := h.svc.Loans(c.Request().Context(), status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"loans": nonNil(list)})
}

func (h *LoanHandler) ByBorrower(c echo.Context) error {
	list, err := h.svc.LoansByBorrower(c.Request().Context(), c.Param("borrower"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"loans": nonNil(list)})
}

func (h *LoanHandler) Fund(c echo.Context) error {
	return h.act(c, func(who string, id uint64) protocol.Command {
		return protocol.Fund{Lender: who, LoanID: id}
	})
}

func (h *LoanHandler) Repay(c echo.Context) error {
	return h.act(c, func(who string, id uint64) protocol.Command {
		return protocol.Repay{Payer: who, LoanID: id}
	})
}

func (h *LoanHandler) MarkDefault(c echo.Context) error {
	return h.act(c, func(who string, id uint64) protocol.Command {
		return protocol.MarkDefault{Caller: who, LoanID: id}
	})
}

func (h *LoanHandler) act(c echo.Context, build func(who string, loanID uint64) protocol.Command) error {
	who, ok := caller(c)
	if !ok {
		return missingCaller(c)
	}
	loanID, ok := pathID(c, "loan_id")
	if !ok {
		return badRequest(c, "invalid loan_id")
	}
	return execute(c, h.svc, build(who, loanID), http.StatusOK)
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}

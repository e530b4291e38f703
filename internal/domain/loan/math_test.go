package loan

import (
	"errors"
	"math"
	"testing"

	"aura-lend/internal/domain/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepaymentAmount(t *testing.T) {
	cases := []struct {
		name      string
		principal uint64
		rateBps   uint64
		want      uint64
	}{
		{"reference loan", 5_000_000_000, 850, 5_425_000_000},
		{"zero rate", 1_000, 0, 1_000},
		{"floors interest", 999, 1, 999},
		{"floors at boundary", 10_000, 1, 10_001},
		{"full principal", 1_234, 10_000, 2_468},
		{"wide product", math.MaxUint64 / 4, 20_000, math.MaxUint64/4 + (math.MaxUint64/4)*2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := RepaymentAmount(tc.principal, tc.rateBps)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRepaymentAmount_Overflow(t *testing.T) {
	_, err := RepaymentAmount(math.MaxUint64, 10_000)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidLoanTerms))
	assert.Equal(t, errs.Validation, errs.KindOf(err))

	_, err = RepaymentAmount(math.MaxUint64, math.MaxUint64)
	assert.True(t, errors.Is(err, errs.Validation))
}

func TestApplyBps(t *testing.T) {
	assert.Equal(t, uint64(5_425_000_000), ApplyBps(5_425_000_000, 10_000))
	assert.Equal(t, uint64(4_882_500_000), ApplyBps(5_425_000_000, 9_000))
	assert.Equal(t, uint64(math.MaxUint64), ApplyBps(math.MaxUint64, 20_000))
}

func TestStatus(t *testing.T) {
	assert.True(t, StatusRepaid.Terminal())
	assert.True(t, StatusDefaulted.Terminal())
	assert.False(t, StatusFunded.Terminal())
	assert.False(t, Status("closed").Valid())

	l := Loan{Status: StatusFunded, DueDate: 100}
	assert.False(t, l.Overdue(100))
	assert.True(t, l.Overdue(101))
}

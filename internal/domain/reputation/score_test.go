package reputation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	cases := []struct {
		repaid, defaulted uint64
		want              uint64
	}{
		{0, 0, 0},
		{1, 0, 1000},
		{0, 1, 0},
		{1, 1, 500},
		{2, 1, 666},
		{9, 1, 900},
		{1, 2, 333},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Score(tc.repaid, tc.defaulted), "repaid=%d defaulted=%d", tc.repaid, tc.defaulted)
	}
}

func TestScore_Monotonic(t *testing.T) {
	for d := uint64(0); d < 5; d++ {
		for r := uint64(0); r < 10; r++ {
			assert.GreaterOrEqual(t, Score(r+1, d), Score(r, d))
			assert.LessOrEqual(t, Score(r, d+1), Score(r, d))
		}
	}
}

func TestShouldBlacklist(t *testing.T) {
	assert.False(t, ShouldBlacklist(2, 2))
	assert.True(t, ShouldBlacklist(3, 2))
	assert.True(t, ShouldBlacklist(1, 0))
}

func TestProfile_Recompute(t *testing.T) {
	p := NewProfile("alice")
	assert.Equal(t, uint64(MaxScore), p.RepaymentScore)
	p.LoansRepaid, p.LoansDefaulted = 3, 1
	p.Recompute()
	assert.Equal(t, uint64(750), p.RepaymentScore)
}

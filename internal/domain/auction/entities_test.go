package auction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	cases := []struct {
		bid, debt        uint64
		lender, borrower uint64
	}{
		{bid: 1100, debt: 1000, lender: 1000, borrower: 100},
		{bid: 1000, debt: 1000, lender: 1000, borrower: 0},
		{bid: 700, debt: 1000, lender: 700, borrower: 0},
		{bid: 0, debt: 1000, lender: 0, borrower: 0},
	}
	for _, tc := range cases {
		l, b := Split(tc.bid, tc.debt)
		assert.Equal(t, tc.lender, l, "lender share for bid %d", tc.bid)
		assert.Equal(t, tc.borrower, b, "borrower share for bid %d", tc.bid)
		assert.Equal(t, tc.bid, l+b, "split must conserve the bid")
	}
}

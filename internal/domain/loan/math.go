package loan

import "math/bits"

const BasisPoints = 10_000

// RepaymentAmount returns principal + floor(principal*rateBps/10000). The
// product is taken in 128 bits so only a result that does not fit uint64 fails.
func RepaymentAmount(principal, rateBps uint64) (uint64, error) {
	hi, lo := bits.Mul64(principal, rateBps)
	if hi >= BasisPoints {
		return 0, ErrInvalidLoanTerms.Withf("interest on %d at %d bps overflows", principal, rateBps)
	}
	interest, _ := bits.Div64(hi, lo, BasisPoints)
	total, carry := bits.Add64(principal, interest, 0)
	if carry != 0 {
		return 0, ErrInvalidLoanTerms.Withf("repayment of %d at %d bps overflows", principal, rateBps)
	}
	return total, nil
}

// ApplyBps returns floor(amount*bps/10000), saturating at the uint64 max.
func ApplyBps(amount, bps uint64) uint64 {
	hi, lo := bits.Mul64(amount, bps)
	if hi >= BasisPoints {
		return ^uint64(0)
	}
	q, _ := bits.Div64(hi, lo, BasisPoints)
	return q
}

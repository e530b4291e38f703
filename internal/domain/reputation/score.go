package reputation

const MaxScore = 1000

// Score is 1000 * repaid / max(1, repaid+defaulted), floored. A borrower with
// no settled loans scores 0 from this formula; NewProfile starts at MaxScore
// until the first loan settles.
func Score(repaid, defaulted uint64) uint64 {
	settled := repaid + defaulted
	if settled == 0 {
		settled = 1
	}
	return MaxScore * repaid / settled
}

// ShouldBlacklist reports whether defaulted exceeds threshold. A zero
// threshold blacklists on the first default.
func ShouldBlacklist(defaulted, threshold uint64) bool { return defaulted > threshold }

// Recompute refreshes the derived score from the counters.
func (p *Profile) Recompute() { p.RepaymentScore = Score(p.LoansRepaid, p.LoansDefaulted) }

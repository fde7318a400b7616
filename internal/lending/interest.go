package lending

import "time"

const daysPerYear = 365

// AccruedInterest computes simple, non-compounding daily interest owed on
// a position as of the given time. Interest is derived on every query,
// never persisted as a running balance.
//
//	accrued = principal * annualRate * daysElapsed / 365
//
// Partial days do not accrue; elapsed time before the start date counts
// as zero.
func AccruedInterest(p *BorrowPosition, asOf time.Time) float64 {
	days := daysElapsed(p.StartAt, asOf)
	return p.PrincipalUSD * p.InterestRate * float64(days) / daysPerYear
}

// TotalOwed returns principal plus interest accrued as of the given time.
func TotalOwed(p *BorrowPosition, asOf time.Time) float64 {
	return p.PrincipalUSD + AccruedInterest(p, asOf)
}

func daysElapsed(start, asOf time.Time) int {
	if !asOf.After(start) {
		return 0
	}
	return int(asOf.Sub(start).Hours() / 24)
}

package lending

import (
	"errors"
	"fmt"
)

var (
	// ErrNoEligibleCollateral indicates the borrower has no tokenized,
	// uncommitted assets to borrow against.
	ErrNoEligibleCollateral = errors.New("no eligible collateral")

	// ErrAssetCollateralized indicates the asset already backs an active
	// position (stale read or concurrent borrow).
	ErrAssetCollateralized = errors.New("asset already collateralized")

	// ErrStoreUnavailable indicates the position or collateral store did
	// not respond. Read paths degrade; write paths abort.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrPositionNotFound indicates the requested position does not exist.
	ErrPositionNotFound = errors.New("position not found")

	// ErrPositionNotActive indicates a lifecycle operation was attempted
	// on a position that is already repaid, liquidated or defaulted.
	ErrPositionNotActive = errors.New("position not active")
)

// ValidationError reports malformed input caught before any write.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// LimitExceededError reports a borrow request above the asset class LTV
// ceiling. MaxBorrowable lets the caller retry with a valid amount.
type LimitExceededError struct {
	RequestedLTV  float64
	MaxLTV        float64
	MaxBorrowable float64
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("requested ltv %.4f exceeds maximum %.4f (max borrowable $%.2f)",
		e.RequestedLTV, e.MaxLTV, e.MaxBorrowable)
}

package assets

import (
	"context"
	"sort"

	"go.uber.org/zap"
)

// Selector returns the set of assets a wallet may pledge as collateral
type Selector struct {
	store  Store
	logger *zap.Logger
}

// NewSelector creates a new collateral selector
func NewSelector(store Store, logger *zap.Logger) *Selector {
	return &Selector{store: store, logger: logger}
}

// EligibleResult carries the eligible set plus a degraded-mode marker.
// When the asset store is unreachable the selector returns an empty set
// with Degraded set rather than failing the whole request, so portfolio
// and borrow views stay renderable.
type EligibleResult struct {
	Assets   []CollateralAsset `json:"assets"`
	Degraded bool              `json:"degraded"`
	Warning  string            `json:"warning,omitempty"`
}

// EligibleCollateral lists tokenized, uncommitted assets for a wallet,
// highest value first.
func (s *Selector) EligibleCollateral(ctx context.Context, walletID string) *EligibleResult {
	found, err := s.store.ListTokenizedUncommitted(ctx, walletID)
	if err != nil {
		s.logger.Warn("collateral store unavailable, returning degraded result",
			zap.String("wallet_id", walletID),
			zap.Error(err))
		return &EligibleResult{
			Assets:   []CollateralAsset{},
			Degraded: true,
			Warning:  "collateral store unavailable; eligible assets could not be loaded",
		}
	}

	// Ordering contract is descending value; not every Store orders its results.
	sort.Slice(found, func(i, j int) bool {
		return found[i].ValueUSD > found[j].ValueUSD
	})

	return &EligibleResult{Assets: found}
}

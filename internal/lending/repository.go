package lending

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Ledger is the position persistence contract the engine depends on.
// Create and Close are transactional: a position is never left active
// with its collateral marked available, or vice versa.
type Ledger interface {
	Create(ctx context.Context, p *BorrowPosition) error
	GetByID(ctx context.Context, id uuid.UUID) (*BorrowPosition, error)
	ListByBorrower(ctx context.Context, borrowerID string) ([]BorrowPosition, error)
	ListActive(ctx context.Context) ([]BorrowPosition, error)
	Close(ctx context.Context, id uuid.UUID, status PositionStatus, finalAmountUSD float64) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status PositionStatus, finalAmountUSD *float64) error
	SetCollateralFlag(ctx context.Context, assetID uuid.UUID, committed bool) error
}

// PostgresLedger implements Ledger using PostgreSQL
type PostgresLedger struct {
	db *sqlx.DB
}

// NewPostgresLedger creates a new PostgreSQL position ledger
func NewPostgresLedger(db *sqlx.DB) *PostgresLedger {
	return &PostgresLedger{db: db}
}

// Create inserts a position and commits its collateral in one
// transaction. The flag update is conditional on the asset being
// uncommitted, so a concurrent borrow that won the race surfaces as
// ErrAssetCollateralized instead of a double-borrow.
func (l *PostgresLedger) Create(ctx context.Context, p *BorrowPosition) error {
	tx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE collateral_assets
		SET is_collateralized = true, updated_at = NOW()
		WHERE id = $1 AND is_collateralized = false`,
		p.AssetID)
	if err != nil {
		return fmt.Errorf("failed to commit collateral: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to commit collateral: %w", err)
	}
	if rows == 0 {
		return ErrAssetCollateralized
	}

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO borrow_positions (
			id, borrower_id, asset_id, pool_id,
			collateral_value_usd, principal_usd, interest_rate,
			requested_ltv, liquidation_threshold, risk_tier,
			status, start_at, maturity_at, tx_reference,
			created_at, updated_at
		) VALUES (
			:id, :borrower_id, :asset_id, :pool_id,
			:collateral_value_usd, :principal_usd, :interest_rate,
			:requested_ltv, :liquidation_threshold, :risk_tier,
			:status, :start_at, :maturity_at, :tx_reference,
			:created_at, :updated_at
		)`, p)
	if err != nil {
		return fmt.Errorf("failed to create position: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit position: %w", err)
	}
	return nil
}

func (l *PostgresLedger) GetByID(ctx context.Context, id uuid.UUID) (*BorrowPosition, error) {
	var p BorrowPosition
	err := l.db.GetContext(ctx, &p,
		`SELECT * FROM borrow_positions WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPositionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get position: %w", err)
	}
	return &p, nil
}

func (l *PostgresLedger) ListByBorrower(ctx context.Context, borrowerID string) ([]BorrowPosition, error) {
	var out []BorrowPosition
	err := l.db.SelectContext(ctx, &out, `
		SELECT * FROM borrow_positions
		WHERE borrower_id = $1
		ORDER BY start_at DESC`, borrowerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	return out, nil
}

func (l *PostgresLedger) ListActive(ctx context.Context) ([]BorrowPosition, error) {
	var out []BorrowPosition
	err := l.db.SelectContext(ctx, &out, `
		SELECT * FROM borrow_positions
		WHERE status = $1
		ORDER BY start_at ASC`, PositionStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list active positions: %w", err)
	}
	return out, nil
}

// Close marks a position closed and releases its collateral in one
// transaction. Only active positions close; closing twice is a no-op
// surfaced as ErrPositionNotActive.
func (l *PostgresLedger) Close(ctx context.Context, id uuid.UUID, status PositionStatus, finalAmountUSD float64) error {
	tx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	var assetID uuid.UUID
	err = tx.GetContext(ctx, &assetID, `
		UPDATE borrow_positions
		SET status = $2, final_amount_usd = $3, last_payment_at = $4, updated_at = $4
		WHERE id = $1 AND status = 'active'
		RETURNING asset_id`,
		id, status, finalAmountUSD, time.Now().UTC())
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPositionNotActive
	}
	if err != nil {
		return fmt.Errorf("failed to close position: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE collateral_assets
		SET is_collateralized = false, updated_at = NOW()
		WHERE id = $1`, assetID)
	if err != nil {
		return fmt.Errorf("failed to release collateral: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit close: %w", err)
	}
	return nil
}

func (l *PostgresLedger) UpdateStatus(ctx context.Context, id uuid.UUID, status PositionStatus, finalAmountUSD *float64) error {
	res, err := l.db.ExecContext(ctx, `
		UPDATE borrow_positions
		SET status = $2, final_amount_usd = COALESCE($3, final_amount_usd), updated_at = NOW()
		WHERE id = $1`,
		id, status, finalAmountUSD)
	if err != nil {
		return fmt.Errorf("failed to update position status: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update position status: %w", err)
	}
	if rows == 0 {
		return ErrPositionNotFound
	}
	return nil
}

func (l *PostgresLedger) SetCollateralFlag(ctx context.Context, assetID uuid.UUID, committed bool) error {
	res, err := l.db.ExecContext(ctx, `
		UPDATE collateral_assets
		SET is_collateralized = $2, updated_at = NOW()
		WHERE id = $1`,
		assetID, committed)
	if err != nil {
		return fmt.Errorf("failed to set collateral flag: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to set collateral flag: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("asset %s not found", assetID)
	}
	return nil
}

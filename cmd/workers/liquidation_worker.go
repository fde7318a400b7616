package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"rwa-pledge/lending-portal/lending-portal-backend/internal/assets"
	"rwa-pledge/lending-portal/lending-portal-backend/internal/config"
	"rwa-pledge/lending-portal/lending-portal-backend/internal/lending"
	"rwa-pledge/lending-portal/lending-portal-backend/internal/notifications"
	"rwa-pledge/lending-portal/lending-portal-backend/internal/pools"
)

// LiquidationWorker periodically classifies every active position and
// publishes margin alerts for those needing attention. It only
// classifies; enforcement is an external action.
type LiquidationWorker struct {
	service *lending.Service
	hub     *notifications.Hub
	logger  *zap.Logger
}

// NewLiquidationWorker creates a new liquidation scan worker
func NewLiquidationWorker(service *lending.Service, hub *notifications.Hub, logger *zap.Logger) *LiquidationWorker {
	return &LiquidationWorker{service: service, hub: hub, logger: logger}
}

// Scan runs one classification pass over all active positions
func (w *LiquidationWorker) Scan(ctx context.Context) {
	flagged, err := w.service.ScanAllActive(ctx)
	if err != nil {
		w.logger.Error("Liquidation scan failed", zap.Error(err))
		return
	}

	if len(flagged) == 0 {
		w.logger.Debug("Liquidation scan clean")
		return
	}

	w.logger.Info("Liquidation scan flagged positions", zap.Int("count", len(flagged)))

	now := time.Now().UTC()
	for _, cl := range flagged {
		p := cl.Position
		w.logger.Warn("position needs attention",
			zap.String("position_id", p.ID.String()),
			zap.String("borrower_id", p.BorrowerID),
			zap.String("health", string(cl.Health)),
			zap.Float64("current_ltv", p.CurrentLTV()),
			zap.Float64("threshold", p.LiquidationThreshold))

		w.hub.Publish(notifications.MarginAlert{
			PositionID:  p.ID.String(),
			BorrowerID:  p.BorrowerID,
			Health:      string(cl.Health),
			CurrentLTV:  p.CurrentLTV(),
			Threshold:   p.LiquidationThreshold,
			Message:     alertMessage(cl),
			GeneratedAt: now,
		})
	}
}

func alertMessage(cl lending.Classification) string {
	switch cl.Health {
	case lending.HealthCritical:
		return "position has crossed its liquidation threshold"
	case lending.HealthAtRisk:
		return "position is approaching its liquidation threshold"
	default:
		return "position health is degrading"
	}
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	dbURL := cfg.Database.GetDatabaseURL()
	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	gormDB, err := gorm.Open(postgres.Open(dbURL), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to open gorm connection", zap.Error(err))
	}

	assetStore := assets.NewGormStore(gormDB)
	ledger := lending.NewPostgresLedger(db)
	catalog := pools.NewStaticCatalog()
	service := lending.NewService(ledger, assetStore, catalog, logger)
	hub := notifications.NewHub(logger)

	worker := NewLiquidationWorker(service, hub, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scheduler := cron.New()
	spec := cfg.Lending.ScanCronSpec
	if spec == "" {
		spec = "@every 5m"
	}
	if _, err := scheduler.AddFunc(spec, func() { worker.Scan(ctx) }); err != nil {
		logger.Fatal("Failed to schedule liquidation scan", zap.Error(err))
	}

	logger.Info("Starting liquidation worker", zap.String("schedule", spec))
	scheduler.Start()

	// First pass immediately rather than waiting a full interval
	worker.Scan(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Liquidation worker shutting down")
	stopCtx := scheduler.Stop()
	<-stopCtx.Done()
}

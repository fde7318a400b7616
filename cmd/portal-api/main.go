package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"rwa-pledge/lending-portal/lending-portal-backend/internal/assets"
	"rwa-pledge/lending-portal/lending-portal-backend/internal/auth"
	"rwa-pledge/lending-portal/lending-portal-backend/internal/config"
	"rwa-pledge/lending-portal/lending-portal-backend/internal/documents"
	"rwa-pledge/lending-portal/lending-portal-backend/internal/lending"
	"rwa-pledge/lending-portal/lending-portal-backend/internal/notifications"
	"rwa-pledge/lending-portal/lending-portal-backend/internal/pools"
	"rwa-pledge/lending-portal/lending-portal-backend/internal/reports"
	"rwa-pledge/lending-portal/lending-portal-backend/internal/tokenization"
	"rwa-pledge/lending-portal/lending-portal-backend/pkg/storage"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load .env before config so env overrides pick it up
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	dbURL := cfg.Database.GetDatabaseURL()
	logger.Info("Connecting to database",
		zap.String("host", cfg.Database.Host),
		zap.String("db", cfg.Database.DBName))

	// sqlx connection for the position ledger
	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxConnections)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	// gorm connection for the collateral asset store
	gormDB, err := gorm.Open(postgres.Open(dbURL), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to open gorm connection", zap.Error(err))
	}
	if err := gormDB.AutoMigrate(&assets.CollateralAsset{}, &documents.AssetDocument{}); err != nil {
		logger.Fatal("Failed to migrate schema", zap.Error(err))
	}

	// Wire the engine
	assetStore := assets.NewGormStore(gormDB)
	ledger := lending.NewPostgresLedger(db)
	catalog := pools.NewStaticCatalog()
	lendingService := lending.NewService(ledger, assetStore, catalog, logger)
	lendingHandler := lending.NewHandler(lendingService, logger)
	reportsHandler := reports.NewHandler(lendingService, logger)
	alertHub := notifications.NewHub(logger)

	stellarClient, err := tokenization.NewStellarClient(&tokenization.Config{
		HorizonURL:      cfg.Stellar.HorizonURL,
		IssuerSecretKey: cfg.Stellar.IssuerSecretKey,
		Network:         cfg.Stellar.Network,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize Stellar client", zap.Error(err))
	}
	assetsService := assets.NewService(assetStore, stellarClient, logger)
	assetsHandler := assets.NewHandler(assetsService, logger)

	ipfsClient := storage.NewIPFSClient(cfg.IPFS.APIURL)
	documentsService := documents.NewService(gormDB, ipfsClient, logger)
	documentsHandler := documents.NewHandler(documentsService, logger)

	// Setup Router
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	// CORS Middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Register Routes
	api := router.Group("/api/v1")
	api.Use(auth.Middleware(cfg.Security.JWTSecret))
	{
		assetsHandler.RegisterRoutes(api)
		lendingHandler.RegisterRoutes(api)
		reportsHandler.RegisterRoutes(api)
		documentsHandler.RegisterRoutes(api)

		api.GET("/alerts/ws", func(c *gin.Context) {
			walletID := c.GetString("wallet_id")
			if err := alertHub.HandleConnection(c.Writer, c.Request, walletID); err != nil {
				logger.Error("Failed to open alert session", zap.Error(err))
			}
		})
	}

	srv := &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("Starting portal API", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
}

package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/mintbay/nftauction/internal/auction/application"
	"github.com/mintbay/nftauction/internal/auction/domain"
	authttp "github.com/mintbay/nftauction/internal/auction/infra/http"
	"github.com/mintbay/nftauction/internal/auction/infra/repository/postgres"
	aucws "github.com/mintbay/nftauction/internal/auction/infra/websocket"
	"github.com/mintbay/nftauction/internal/settlement"
	"github.com/mintbay/nftauction/internal/shared/db"
	"github.com/mintbay/nftauction/internal/shared/db/migrations"
	"github.com/mintbay/nftauction/internal/shared/httpserver"
	"github.com/mintbay/nftauction/internal/shared/logger"
	"github.com/mintbay/nftauction/internal/shared/websocket"
	"go.uber.org/zap"
)

func main() {
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting NFT auction engine...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info("Running database migrations...")
	if err := migrations.RunMigrations(); err != nil {
		log.Fatal("Database migration failed", zap.Error(err))
	}

	pool, err := db.GetPostgresDBPool(ctx)
	if err != nil {
		log.Fatal("Database connection failed", zap.Error(err))
	}
	defer pool.Close()

	// shared hub for live auction updates
	hub := websocket.NewHub()
	go hub.Run(ctx)

	// outbound collaborators: demo chain confirms instantly, payouts are
	// drained in the background
	chain := settlement.NewDemoChain()
	payout := settlement.NewLogPayout()
	go payout.Run(ctx)
	notifier := aucws.NewHubNotifier(hub)

	auctionRepo := postgres.NewAuctionRepository(pool)
	bidRepo := postgres.NewBidRepository(pool)
	poolRepo := postgres.NewPoolRepository(pool)

	registry := application.NewRegistry()
	stateCfg := domain.StateConfig{
		SettleDelay: settleDelay(),
		Payout:      payout,
		Notifier:    notifier,
	}

	placeBidUC := application.NewPlaceBidUseCase(registry, chain, bidRepo, poolRepo, pool)
	withdrawUC := application.NewWithdrawUseCase(registry, payout, poolRepo)
	maxPainUC := application.NewMaxPainUseCase(registry)
	stateUC := application.NewGetAuctionStateUseCase(registry, nil)
	scheduleUC := application.NewGetScheduleUseCase(auctionRepo, nil)
	service := application.NewAuctionService(placeBidUC, withdrawUC, maxPainUC, stateUC, scheduleUC)

	// tick-driven scheduler: one sample per second
	runner := application.NewRunner(auctionRepo, registry, stateCfg, time.Second)
	go runner.Run(ctx)

	wsHandler := aucws.NewAuctionWSHandler(service, hub)
	go wsHandler.ListenForMessages(ctx)

	server := httpserver.NewServer()
	authttp.RegisterRoutes(server.App(), service)
	aucws.RegisterRoutes(server.App(), hub, ctx)

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":9000"
	}
	if err := server.Start(addr); err != nil {
		log.Fatal("HTTP server failed", zap.Error(err))
	}
}

// settleDelay reads the auto-bid settling delay from the environment,
// default 2s.
func settleDelay() time.Duration {
	ms, err := strconv.Atoi(os.Getenv("SETTLE_DELAY_MS"))
	if err != nil || ms <= 0 {
		return 0 // domain default applies
	}
	return time.Duration(ms) * time.Millisecond
}

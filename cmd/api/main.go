package main

import (
	"context"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	httpadp "aura-lend/internal/adapter/http"
	mw "aura-lend/internal/adapter/middleware"
	"aura-lend/internal/adapter/queue"
	"aura-lend/internal/adapter/repository/memory"
	"aura-lend/internal/adapter/repository/mysql"
	"aura-lend/internal/config"
	"aura-lend/internal/domain/event"
	"aura-lend/internal/domain/uow"
	"aura-lend/internal/infrastructure/cache"
	"aura-lend/internal/infrastructure/db"
	"aura-lend/internal/infrastructure/logging"
	"aura-lend/internal/infrastructure/metrics"
	"aura-lend/internal/usecase/auction"
	"aura-lend/internal/usecase/loan"
	"aura-lend/internal/usecase/protocol"
	"aura-lend/internal/usecase/reputation"
)

func main() {
	boot := logging.New("info", os.Stdout)
	cfg, err := config.Load()
	if err != nil {
		boot.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		boot.Fatal().Err(err).Msg("invalid config")
	}
	logger := logging.New(cfg.LogLevel, os.Stdout)

	policy, err := protocolPolicy(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("protocol policy")
	}

	store := openStore(cfg, logger)

	var emitter event.Emitter = event.NoopEmitter{}
	if cfg.AMQPURL != "" {
		pub, err := queue.Dial(cfg.AMQPURL, cfg.EventsExchange)
		if err != nil {
			logger.Fatal().Err(err).Msg("connect event broker")
		}
		defer pub.Close()
		emitter = pub
	}

	m := metrics.Protocol()
	svc := protocol.NewService(
		protocol.New(policy, protocol.NewAdminSet(cfg.AdminAddresses...)),
		store,
		protocol.WithClock(protocol.SystemClock{}),
		protocol.WithEmitter(emitter),
		protocol.WithMetrics(m),
		protocol.WithLogger(logger),
	)
	if len(cfg.AttestorAddresses) > 0 {
		if err := svc.SeedAttestors(context.Background(), cfg.AdminAddresses[0], cfg.AttestorAddresses); err != nil {
			logger.Fatal().Err(err).Msg("seed attestors")
		}
	}

	var mutating []echo.MiddlewareFunc
	if cfg.RedisAddr != "" {
		rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			logger.Fatal().Err(err).Msg("connect redis")
		}
		defer rdb.Close()
		ttl := time.Duration(cfg.IdempTTLSecs) * time.Second
		mutating = append(mutating, mw.IdempotencyMiddleware(rdb, ttl, m))
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger(), middleware.Recover())
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	httpadp.Register(e, svc, mutating...)

	addr := ":" + cfg.AppPort
	logger.Info().Str("addr", addr).Str("store", cfg.Store).Msg("listening")
	if err := e.Start(addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func openStore(cfg *config.Config, logger zerolog.Logger) uow.UnitOfWork {
	if cfg.Store == config.StoreMemory {
		logger.Warn().Msg("using in-memory store; state is lost on restart")
		return memory.New()
	}
	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("connect mysql")
	}
	if err := mysql.Migrate(gdb); err != nil {
		logger.Fatal().Err(err).Msg("migrate")
	}
	return mysql.NewGormUoW(gdb)
}

func protocolPolicy(cfg *config.Config) (protocol.Policy, error) {
	repay, err := loan.ParseRepayPolicy(cfg.RepayPolicy)
	if err != nil {
		return protocol.Policy{}, err
	}
	return protocol.Policy{
		Repay: repay,
		Auction: auction.Policy{
			DurationSecs:           cfg.AuctionDurationSecs,
			MinBidBps:              cfg.MinBidBps,
			AntiSnipeWindowSecs:    cfg.AntiSnipeWindowSecs,
			AntiSnipeExtensionSecs: cfg.AntiSnipeExtensionSecs,
			Escrow:                 cfg.EscrowAccount,
		},
		Reputation: reputation.Policy{BlacklistThreshold: cfg.BlacklistThreshold},
	}, nil
}

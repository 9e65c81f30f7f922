package application

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"coin_auction/internal/clock"
	"coin_auction/internal/config"
	"coin_auction/internal/domain/entity"
	"coin_auction/internal/domain/service/engine"
	"coin_auction/internal/infrastructure/events"
	"coin_auction/internal/infrastructure/notifier"
	"coin_auction/internal/infrastructure/persistence"
	"coin_auction/internal/server"
	"coin_auction/internal/worker"
	"coin_auction/pkg/application/connectors"
	"coin_auction/pkg/application/modules"
	"coin_auction/pkg/logx"
	"coin_auction/pkg/middlewarex"
)

const logFieldMaxLen = 4096

func Run(ctx context.Context, cfg config.Config) error {
	g, ctx := errgroup.WithContext(ctx)

	// 1. Коннекторы
	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	db := pg.Client(ctx)
	defer pg.Close(ctx)

	rd := &connectors.Redis{
		Address:            cfg.Redis.Address,
		Username:           cfg.Redis.Username,
		Password:           cfg.Redis.Password,
		DatabaseNumber:     cfg.Redis.DatabaseNumber,
		PoolSize:           cfg.Redis.PoolSize,
		MinIdleConnections: cfg.Redis.MinIdleConnections,
		MaxIdleConnections: cfg.Redis.MaxIdleConnections,
	}
	redisClient := rd.Client(ctx)
	defer rd.Close(ctx)

	// 2. Репозитории
	auctionRepo := persistence.NewAuctionRepository(db)
	lotRepo := persistence.NewLotRepository(db)
	bidRepo := persistence.NewBidRepository(db)
	eligibilityRepo := persistence.NewEligibilityRepository(db)

	// 3. Движок и его фоновые каналы
	journalCh := make(chan engine.JournalEntry, cfg.Engine.JournalBuffer)
	bidEventCh := make(chan entity.BidPlaced, cfg.Engine.BidEventBuffer)
	closureCh := make(chan entity.AuctionClosed, cfg.Engine.ClosureBuffer)

	eng := engine.New(clock.NewSystem()).
		WithJournal(journalCh).
		WithBidEvents(bidEventCh).
		WithClosures(closureCh).
		WithHistoryPage(cfg.Engine.HistoryPage)

	// 4. Восстановление состояния из базы до приёма трафика
	loader := persistence.NewLoader(auctionRepo, lotRepo, bidRepo, eligibilityRepo)
	if err := loader.Load(ctx, eng); err != nil {
		return fmt.Errorf("loader.Load: %w", err)
	}

	// 5. Фоновые воркеры
	journal := worker.NewJournal(journalCh, bidRepo, lotRepo, auctionRepo, eligibilityRepo)
	g.Go(func() error { return journal.Run(ctx) })

	enqueuer := events.NewAsynqEnqueuer(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Address,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DatabaseNumber,
	})
	defer enqueuer.Close() //nolint:errcheck

	dispatcher := worker.NewDispatcher(
		bidEventCh,
		closureCh,
		events.NewRedisBroadcaster(redisClient),
		enqueuer,
	)

	if cfg.Bot.Token != "" {
		alerts := make(chan entity.AuctionClosed, cfg.Engine.ClosureBuffer)
		dispatcher.WithOperatorAlerts(alerts)

		bot, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID)
		if err != nil {
			return fmt.Errorf("notifier.NewTelegramBot: %w", err)
		}

		g.Go(func() error { return bot.Run(ctx, alerts) })
	}

	g.Go(func() error { return dispatcher.Run(ctx) })

	auctionClock := worker.NewAuctionClock(eng, clock.NewSystem()).
		WithInterval(cfg.Engine.TickInterval)
	g.Go(func() error { return auctionClock.Run(ctx) })

	// 6. HTTP
	masker := logx.NewSensitiveDataMasker()

	router := chi.NewRouter()
	router.Use(
		middlewarex.Recovery,
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.RequestLogging(masker, logFieldMaxLen),
		middlewarex.ResponseLogging(masker, logFieldMaxLen),
	)

	srv := server.NewServer(
		server.NewLotServer(eng),
		server.NewAuctionServer(eng),
	)
	srv.RegisterRoutes(router)

	modules.HTTPServer{ShutdownTimeout: cfg.HTTP.ShutdownTimeout}.Run(ctx, g, &http.Server{
		Addr:              cfg.HTTP.ListenAddress,
		Handler:           router,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	})

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.App.ProbeAddress,
	}.Run(ctx, g)

	modules.MetricServer{ListenAddress: cfg.App.MetricAddress}.Run(ctx, g)

	// 7. Обработчик закрытий из очереди asynq
	closureHandler := worker.NewClosureHandler()

	modules.AsynqServer{
		RedisAddress:  cfg.Redis.Address,
		RedisUsername: cfg.Redis.Username,
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DatabaseNumber,
	}.Run(ctx, g,
		modules.AsynqQueues{events.QueueEvents: 1},
		modules.AsynqHandler{
			Pattern: events.TaskAuctionClosed,
			Handle:  closureHandler.HandleAuctionClosed,
		},
	)

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("g.Wait: %w", err)
	}

	return nil
}

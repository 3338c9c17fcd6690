package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/pdfnumber_bot/internal/app"
	"github.com/Freeeeeet/pdfnumber_bot/internal/config"
	"github.com/Freeeeeet/pdfnumber_bot/internal/controller"
	"github.com/Freeeeeet/pdfnumber_bot/internal/controller/handlers"
	"github.com/Freeeeeet/pdfnumber_bot/internal/numbering"
	"github.com/Freeeeeet/pdfnumber_bot/internal/repository"
	"github.com/Freeeeeet/pdfnumber_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	envFile := pflag.String("env-file", ".env", "path to .env file")
	migrateOnly := pflag.Bool("migrate-only", false, "apply database migrations and exit (postgres storage)")
	pflag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *migrateOnly, logger); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}
	logger.Info("Bot stopped")
}

func run(ctx context.Context, cfg *config.Config, migrateOnly bool, logger *zap.Logger) error {
	logger.Info("Starting pdf numbering bot",
		zap.String("environment", cfg.Environment),
		zap.String("storage", cfg.StorageDriver),
		zap.String("timezone", cfg.Location().String()),
		zap.Int64("super_admin_id", cfg.SuperAdminID))

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	if migrateOnly {
		return nil
	}

	accessService := service.NewAccessService(store, cfg.SuperAdminID, cfg.Location(), nil, logger)
	if err := accessService.LoadAdmins(ctx); err != nil {
		return err
	}

	numberer := numbering.New(numbering.Options{
		FontSize: cfg.StampFontSize,
		OffsetX:  cfg.StampOffsetX,
		OffsetY:  cfg.StampOffsetY,
	})

	botInstance, err := bot.New(cfg.TelegramToken,
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {}),
		bot.WithErrorsHandler(func(err error) {
			logger.Warn("Telegram API error", zap.Error(err))
		}),
	)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	messenger := controller.NewTelegramMessenger(botInstance, nil)
	cmdHandlers := handlers.NewHandlers(accessService, numberer, messenger, cfg.MaxDocumentSize, logger)
	botController := controller.NewBotController(botInstance, cmdHandlers, logger)

	if err := botController.RegisterHandlers(ctx); err != nil {
		// Меню команд не критично для работы
		logger.Warn("Bot commands menu not set", zap.Error(err))
	}

	notifier := service.NewExpiryNotifier(store, messenger, cfg.Location(), nil, logger)
	scheduler := app.NewScheduler(notifier, cfg.NotifyInterval, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		scheduler.Start(gctx)
		<-gctx.Done()
		scheduler.Stop()
		return nil
	})
	g.Go(func() error {
		return botController.Start(gctx)
	})

	return g.Wait()
}

// openStore создаёт хранилище доступа по STORAGE_DRIVER
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.AccessStore, func(), error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		pool, err := pgxpool.New(ctx, cfg.DBDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}

		store := repository.NewPostgresStore(pool)
		if err := store.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping database: %w", err)
		}

		migrator, err := app.NewMigrator(pool, logger)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		defer migrator.Close()

		if err := migrator.Run(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}

		return store, pool.Close, nil

	default:
		store := repository.NewFileStore(
			cfg.AdminsFile,
			cfg.SubscriptionsFile,
			repository.MalformedPolicy(cfg.MalformedPolicy),
			logger,
		)
		return store, func() {}, nil
	}
}

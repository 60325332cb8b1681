package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"fitmind/clients/ai"
	"fitmind/internal/bot"
	"fitmind/internal/coach"
	"fitmind/internal/config"
	"fitmind/internal/httpapi"
	"fitmind/internal/logger"
	"fitmind/internal/reminder"
	"fitmind/internal/repository"
	"fitmind/migrations"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	lg, err := logger.New(cfg.LogLevel, cfg.Development)
	if err != nil {
		log.Fatalf("Ошибка инициализации логгера: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("fitmind stopped", zap.Error(err))
	}
	lg.Info("fitmind stopped")
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return fmt.Errorf("ошибка подключения к БД: %w", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	err = db.PingContext(pingCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("БД недоступна: %w", err)
	}

	if cfg.AutoMigrate {
		version, err := migrations.Up(db)
		if err != nil {
			return err
		}
		lg.Info("migrations applied", zap.Uint("version", version))
	}

	repo := repository.New(db)

	persona, err := ai.LoadPersona(cfg.PersonaPath, lg.Named("persona"))
	if err != nil {
		return fmt.Errorf("ошибка загрузки персоны: %w", err)
	}
	if cfg.LLMAPIKey == "" {
		lg.Warn("GROQ_API_KEY is empty, generation requests will fail")
	}
	aiClient := ai.NewClient(ai.Options{
		APIKey:        cfg.LLMAPIKey,
		BaseURL:       cfg.LLMBaseURL,
		Model:         cfg.LLMModel,
		FallbackModel: cfg.LLMFallbackModel,
		Temperature:   cfg.LLMTemperature,
		MaxTokens:     cfg.LLMMaxTokens,
		Persona:       persona,
		Logger:        lg.Named("ai"),
	})

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return fmt.Errorf("ошибка авторизации бота: %w", err)
	}
	api.Debug = cfg.BotDebug

	// бот создаётся после планировщика, но задачи срабатывают только после Start
	var tgBot *bot.Bot
	scheduler := reminder.NewScheduler(cfg.Location, func(t reminder.Trigger) { tgBot.Notify(t) }, lg.Named("reminder"))

	svc := coach.New(coach.Deps{
		Profiles:          repo.Profile,
		Weights:           repo.Progress,
		Workouts:          repo.Workout,
		Generator:         aiClient,
		Reminders:         scheduler,
		Location:          cfg.Location,
		GenerationTimeout: cfg.LLMTimeout,
		Logger:            lg.Named("coach"),
	})
	tgBot = bot.New(api, svc, lg.Named("bot"))

	if _, err := svc.RestoreReminders(ctx); err != nil {
		lg.Error("failed to restore reminders", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return persona.Watch(gctx)
	})

	g.Go(func() error {
		u := tgbotapi.NewUpdate(0)
		u.Timeout = 30
		updates := api.GetUpdatesChan(u)
		go func() {
			<-gctx.Done()
			api.StopReceivingUpdates()
		}()
		return tgBot.Run(gctx, updates)
	})

	if cfg.HTTPAddr != "" {
		srv := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           httpapi.NewRouter(repo, lg.Named("http")),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			lg.Info("http probes listening", zap.String("addr", cfg.HTTPAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	lg.Info("fitmind started",
		zap.String("bot", api.Self.UserName),
		zap.String("timezone", cfg.Location.String()),
		zap.String("model", cfg.LLMModel))
	return g.Wait()
}

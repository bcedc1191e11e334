package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"usadba-bot/internal/analytics"
	"usadba-bot/internal/cache"
	"usadba-bot/internal/config"
	"usadba-bot/internal/docs"
	"usadba-bot/internal/history"
	"usadba-bot/internal/intent"
	"usadba-bot/internal/llm"
	"usadba-bot/internal/prompts"
	"usadba-bot/internal/scheduler"
	"usadba-bot/internal/session"
	"usadba-bot/internal/storage"
	"usadba-bot/internal/telegram"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	llmClient, err := llm.NewClient(cfg)
	if err != nil {
		log.Fatalf("failed to create llm client: %v", err)
	}

	respCache := cache.NewFileCache(cfg.CacheFile, cfg.MaxCacheSize)
	respCache.Initialize()
	defer respCache.Close()

	var rec storage.Recorder
	if cfg.EventLogPath != "" {
		fr, err := storage.NewFileRecorder(cfg.EventLogPath)
		if err != nil {
			log.Printf("failed to init event recorder: %v", err)
		} else {
			rec = fr
		}
	}

	engine := session.NewEngine(
		intent.NewClassifier(cfg.PromptsDir),
		prompts.NewResolver(cfg.PromptsDir),
		history.NewStore(cfg.HistoryDir),
		respCache,
		llmClient,
		rec,
		session.Options{
			MaxHistoryPairs: cfg.MaxHistoryPairs,
			RequestTimeout:  cfg.RequestTimeout,
			UseCache:        cfg.UseCache,
		},
	)

	docsSvc := docs.NewService(cfg.DocumentsDir, cfg.AllowedDocumentTypes)

	bot, err := telegram.New(cfg.TelegramBotToken, engine, docsSvc, cfg.AdminChatID)
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}

	if rec != nil && cfg.AdminChatID != 0 {
		sched := scheduler.New()
		sched.SetReportFunction(func(ctx context.Context) error {
			events, err := rec.LoadInteractions()
			if err != nil {
				return err
			}
			stats := analytics.AnalyzeDailyLogs(events, time.Now().UTC())
			return bot.SendAdminReport(stats.FormatReport())
		})
		if err := sched.Start(); err != nil {
			log.Printf("failed to start scheduler: %v", err)
		} else {
			defer sched.Stop()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Println("bot started, waiting for messages")
	bot.Start(ctx)
	log.Println("bot stopped")
}

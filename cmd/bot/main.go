package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"chat-relay/internal/config"
	"chat-relay/internal/credentials"
	"chat-relay/internal/feedback"
	"chat-relay/internal/history"
	"chat-relay/internal/instructions"
	"chat-relay/internal/llm"
	"chat-relay/internal/metrics"
	"chat-relay/internal/relay"
	"chat-relay/internal/scheduler"
	"chat-relay/internal/storage"
	"chat-relay/internal/telegram"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()
	log.Printf("Starting chat relay [bot_type=%s, client=%s, tenant=%s, provider=%s, model=%s]",
		cfg.BotType, cfg.ClientID, cfg.TenantID, cfg.LLMProvider, cfg.OpenAIModel)

	tokens, err := credentials.FromConfig(cfg)
	if err != nil {
		log.Fatalf("failed to resolve credentials: %v", err)
	}
	botToken, err := tokens.Token()
	if err != nil {
		log.Fatalf("failed to acquire bot token: %v", err)
	}

	llmClient, err := llm.NewFactory(cfg).CreateClient(string(cfg.LLMProvider), cfg.OpenAIModel)
	if err != nil {
		log.Fatalf("failed to create llm client: %v", err)
	}

	store := history.NewStore()
	m := metrics.New(store.Len)

	var rec storage.Recorder
	if cfg.LogFilePath != "" {
		fr, err := storage.NewFileRecorder(cfg.LogFilePath)
		if err != nil {
			log.Printf("failed to init file recorder: %v", err)
		} else {
			rec = fr
		}
	}

	bot, err := telegram.New(botToken, telegram.Options{
		Relay:        relay.New(llmClient, instructions.Load(cfg.InstructionsPath)),
		Store:        store,
		Feedback:     feedback.NewSink(rec, m),
		Recorder:     rec,
		Metrics:      m,
		EditInterval: cfg.StreamEditInterval,
		ClientID:     cfg.ClientID,
		TenantID:     cfg.TenantID,
		ReportChatID: cfg.ReportChatID,
	})
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := m.NewServer()
	addr := fmt.Sprintf(":%d", cfg.Port)
	go func() {
		log.Printf("Metrics listening on %s", addr)
		if err := srv.ListenAndServe(addr); err != nil {
			log.Printf("metrics server stopped: %v", err)
		}
	}()

	sched := scheduler.New(cfg.ReportSchedule)
	if cfg.ReportChatID != 0 {
		sched.SetReportFunction(bot.SendDailyReport)
	}
	if err := sched.Start(); err != nil {
		log.Printf("failed to start scheduler: %v", err)
	}

	bot.Start(ctx)

	sched.Stop()
	if err := srv.Shutdown(); err != nil {
		log.Printf("metrics server shutdown: %v", err)
	}
	log.Println("Bye")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diegoclair/team-assistant-bot/internal/ai"
	"github.com/diegoclair/team-assistant-bot/internal/config"
	"github.com/diegoclair/team-assistant-bot/internal/database"
	"github.com/diegoclair/team-assistant-bot/internal/domain/intent"
	"github.com/diegoclair/team-assistant-bot/internal/domain/service"
	"github.com/diegoclair/team-assistant-bot/internal/handlers"
	"github.com/diegoclair/team-assistant-bot/internal/notifier"
	"github.com/diegoclair/team-assistant-bot/migrator/sqlite"
	"github.com/joho/godotenv"
	"github.com/slack-go/slack"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := config.Load()
	loc := cfg.Location()

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Println("Running migrations...")
	if err := sqlite.Migrate(db.DB()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	var slackOpts []slack.Option
	if cfg.SlackAppToken != "" {
		slackOpts = append(slackOpts, slack.OptionAppLevelToken(cfg.SlackAppToken))
	}
	slackClient := slack.New(cfg.SlackBotToken, slackOpts...)

	completer := ai.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIModel)
	if !completer.IsConfigured() {
		log.Println("Warning: OPENAI_KEY not set, using keyword matching and rule based parsing")
	}

	svc := service.NewInstance(database.NewInstance(db), notifier.NewSlack(slackClient), completer, service.Options{
		MinLeadTime:       cfg.MinLeadTime,
		NotifyTimeout:     cfg.NotifyTimeout,
		DeliveryAttempts:  cfg.DeliveryAttempts,
		SweepInterval:     cfg.SweepInterval,
		RetentionInterval: cfg.RetentionInterval,
		RetentionDays:     cfg.RetentionDays,
		Location:          loc,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// the bot answers commands while the scheduler is still loading
	go func() {
		if err := svc.Scheduler.StartWithRetry(ctx, cfg.StartAttempts, time.Second); err != nil && ctx.Err() == nil {
			log.Printf("ERROR reminders will not fire until the store recovers: %v", err)
		}
	}()
	defer svc.Scheduler.Stop()

	handler := handlers.New(svc.Reminder, intent.NewParser(completer, loc), cfg.SlackSigningSecret, loc)

	if cfg.SlackAppToken != "" {
		go func() {
			if err := handlers.NewSocketRunner(slackClient, handler).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("Socket Mode stopped: %v", err)
			}
		}()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/slack/commands", handler.HandleSlashCommand)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK")
	})

	server := &http.Server{Addr: ":" + cfg.Port, Handler: mux}
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shut down server: %v", err)
	}
}

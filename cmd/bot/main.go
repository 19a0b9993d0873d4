// Long-polling entrypoint: runs the bot against the Telegram getUpdates API.
// Drafts live in process memory since a single poller owns all updates.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"hydrofit-bot/internal/bot"
	"hydrofit-bot/internal/config"
	"hydrofit-bot/internal/lookup"
	"hydrofit-bot/internal/store"
	"hydrofit-bot/internal/telegram"
)

func main() {
	log.SetPrefix("hydrofit-bot: ")
	log.SetFlags(0)

	cfg := config.Load()
	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := store.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer pool.Close()

	svc := bot.New(
		store.New(pool),
		store.NewMemoryDraftStore(time.Duration(cfg.DraftTTLMinutes)*time.Minute),
		lookup.NewWeatherClient(cfg.OpenWeatherToken, cfg.WeatherBaseURL),
		lookup.NewFoodClient(cfg.FoodBaseURL),
	)

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("telegram auth: %v", err)
	}
	log.Printf("authorized as @%s", api.Self.UserName)

	dispatcher := telegram.NewDispatcher(api, svc)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := api.GetUpdatesChan(u)

	log.Println("polling for updates")
	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			log.Println("shutting down")
			return
		case update := <-updates:
			dispatcher.HandleUpdate(ctx, update)
		}
	}
}

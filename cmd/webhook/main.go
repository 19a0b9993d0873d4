// Webhook entrypoint: serves Telegram updates over HTTP for serverless or
// reverse-proxy deployments. Drafts live in Postgres because consecutive
// updates may land on different instances.
package main

import (
	"context"
	"crypto/subtle"
	"log"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hydrofit-bot/internal/bot"
	"hydrofit-bot/internal/config"
	"hydrofit-bot/internal/lookup"
	"hydrofit-bot/internal/store"
	"hydrofit-bot/internal/telegram"
)

func main() {
	log.SetPrefix("hydrofit-webhook: ")
	log.SetFlags(0)

	cfg := config.Load()
	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}

	secret := cfg.WebhookSecret
	if secret == "" {
		secret = uuid.New().String()
		log.Printf("WEBHOOK_SECRET not set, generated one for this run: %s", secret)
	}

	ctx := context.Background()
	pool, err := store.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer pool.Close()

	pg := store.New(pool)
	svc := bot.New(
		pg,
		store.NewPGDraftStore(pg, time.Duration(cfg.DraftTTLMinutes)*time.Minute),
		lookup.NewWeatherClient(cfg.OpenWeatherToken, cfg.WeatherBaseURL),
		lookup.NewFoodClient(cfg.FoodBaseURL),
	)

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("telegram auth: %v", err)
	}
	log.Printf("authorized as @%s", api.Self.UserName)

	dispatcher := telegram.NewDispatcher(api, svc)
	router := newRouter(secret, cfg.DeployVersion, dispatcher.HandleUpdate)

	log.Printf("listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}

// newRouter builds the HTTP surface: a health route and the update endpoint
// guarded by Telegram's secret-token header.
func newRouter(secret, version string, handle func(context.Context, tgbotapi.Update)) *gin.Engine {
	router := gin.Default()
	router.SetTrustedProxies(nil)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version})
	})

	router.POST("/webhook", func(c *gin.Context) {
		got := c.GetHeader("X-Telegram-Bot-Api-Secret-Token")
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		var update tgbotapi.Update
		if err := c.BindJSON(&update); err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}

		handle(c.Request.Context(), update)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}

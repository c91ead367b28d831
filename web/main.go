package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"hadirin.app/hadirin/attendance/core"
	"hadirin.app/hadirin/infrastructure/communication"
	"hadirin.app/hadirin/infrastructure/devops"
	"hadirin.app/hadirin/infrastructure/filesystem"
	"hadirin.app/hadirin/report"
	"hadirin.app/hadirin/web/handlers"
	"hadirin.app/hadirin/web/middlewares"
)

func main() {
	godotenv.Load()

	ctx := context.Background()
	cfg, err := devops.LoadAppConfig(ctx)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := core.ConnectDB(cfg.DSN)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	store, err := filesystem.NewSelfieStore(ctx, cfg.SelfieBucket, cfg.AWSRegion)
	if err != nil {
		log.Fatalf("failed to init selfie store: %v", err)
	}

	var notifier core.Notifier
	if cfg.SlackToken != "" {
		notifier = communication.NewSlack(cfg.SlackToken, communication.SlackOption{
			ErrorChannelID: cfg.SlackChannel,
		})
	}

	repo := core.NewGormRepository(db)
	tracker := core.NewTracker(repo, store, notifier)
	exporter := report.NewExporter(repo)

	r := gin.Default()
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	protected := r.Group("/api")
	protected.Use(middlewares.Authentication([]byte(cfg.JWTSecret)))
	handlers.Register(protected, tracker, exporter)

	r.Run(":8090")
}

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"userlens-bot/internal/api"
	"userlens-bot/internal/bot"
	"userlens-bot/internal/redis"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file loaded", "error", err)
	}

	if err := initConfig(); err != nil {
		slog.Error("init config err", "error", err)
		os.Exit(1)
	}

	if err := bot.InitAvatarCache(); err != nil {
		slog.Error("Failed to init avatar cache", "error", err)
		os.Exit(1)
	}

	ctx, cacheCancel := context.WithCancel(context.Background())
	defer cacheCancel()
	go bot.ClearAvatarCachePeriodically(ctx, viper.GetDuration("avatar.cache.ttl"))

	redisClient, err := redis.NewRedisClient(viper.GetString("redis.address"), viper.GetDuration("redis.ttl"))
	if err != nil {
		slog.Error("failed to create Redis client", "error", err)
		os.Exit(1)
	}

	githubAPI := api.NewGitHubAPI(viper.GetString("GitHubToken"))
	tgBot, err := bot.NewBot(viper.GetString("TelegramToken"), redisClient, githubAPI)
	if err != nil {
		slog.Error("failed to create bot", slog.String("error", err.Error()))
		os.Exit(1)
	}

	go tgBot.Start()

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	<-stopChan
	slog.Info("Shutting down gracefully...")
	tgBot.Stop()
	cacheCancel()
	slog.Info("Application shutdown complete")
}

func initConfig() error {
	viper.AddConfigPath("configs")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	if err := viper.BindEnv("TelegramToken", "TELEGRAM_TOKEN"); err != nil {
		slog.Error("failed to bind telegram token", "error", err)
	}
	if err := viper.BindEnv("GitHubToken", "GITHUB_TOKEN"); err != nil {
		slog.Error("failed to bind github token", "error", err)
	}
	return viper.ReadInConfig()
}

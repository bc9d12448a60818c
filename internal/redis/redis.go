package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"userlens-bot/internal/model"
)

type RedisClient struct {
	client     *redis.Client
	sessionTTL time.Duration
}

func NewRedisClient(addr string, sessionTTL time.Duration) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	return &RedisClient{client: client, sessionTTL: sessionTTL}, nil
}

func (r *RedisClient) SaveSession(chatID int64, session model.Session) error {
	ctx := context.Background()
	key := strconv.FormatInt(chatID, 10)
	data, err := json.Marshal(session)
	if err != nil {
		slog.Error("Error marshaling session", "error", err)
		return err
	}
	return r.client.Set(ctx, key, data, r.sessionTTL).Err()
}

func (r *RedisClient) GetSession(chatID int64) (*model.Session, error) {
	ctx := context.Background()
	key := strconv.FormatInt(chatID, 10)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		slog.Error("Error getting session", "error", err)
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		slog.Error("Error unmarshaling session", "error", err)
		return nil, err
	}
	return &session, nil
}

func (r *RedisClient) DeleteSession(chatID int64) error {
	ctx := context.Background()
	key := strconv.FormatInt(chatID, 10)
	return r.client.Del(ctx, key).Err()
}

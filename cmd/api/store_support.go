package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"

	"github.com/yourusername/kv-session-auth/internal/config"
	"github.com/yourusername/kv-session-auth/internal/storage"
)

// setupStore は REDIS_URL から Redis クライアントとセッションストアを作成します。
func setupStore(cfg *config.Config) (*storage.Store, *redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}

	redisClient := redis.NewClient(opt)
	return storage.NewStore(redisClient), redisClient, nil
}

// healthHandler はヘルスチェックエンドポイントのハンドラーです。
func healthHandler(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		storeStatus := "ok"
		if err := store.Ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			storeStatus = "unavailable"
		}

		c.JSON(status, gin.H{
			"status":  storeStatus,
			"service": "kv-session-auth",
			"version": "0.1.0",
		})
	}
}

// Package main はAPIサーバーのエントリーポイントです。
package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/kv-session-auth/internal/auth"
	"github.com/yourusername/kv-session-auth/internal/config"
	"github.com/yourusername/kv-session-auth/internal/logging"
	"github.com/yourusername/kv-session-auth/internal/storage"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)

	store, redisClient, err := setupStore(cfg)
	if err != nil {
		logger.Error("failed to set up session store", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// Ginのモードを設定
	gin.SetMode(cfg.GinMode)

	router := newRouter(cfg, store, logger)

	// サーバーの起動
	addr := ":" + cfg.Port
	logger.Info("starting API server", "addr", addr, "mode", cfg.GinMode)
	if err := router.Run(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// newRouter はミドルウェアとルーティングを設定したルーターを返します。
func newRouter(cfg *config.Config, store *storage.Store, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), logging.RequestLogger(logger))

	// CORSミドルウェアの設定
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.CORSAllowedOrigins, ",")
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Type",
		"Accept",
		logging.RequestIDHeader,
	}
	corsConfig.ExposeHeaders = []string{logging.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	setupRoutes(router, cfg, store, logger)
	return router
}

// setupRoutes は API グループと認証周りの配線を行います。
func setupRoutes(router *gin.Engine, cfg *config.Config, store *storage.Store, logger *slog.Logger) {
	router.GET("/health", healthHandler(store))

	manager := auth.NewManager(store, auth.WithSessionTTL(cfg.SessionTTL()))
	handler := auth.NewHandler(manager, logger)

	api := router.Group("/api")
	handler.RegisterRoutes(api)
}

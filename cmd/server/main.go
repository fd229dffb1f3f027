package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/watergate-game/watergate-server-go/internal/config"
	"github.com/watergate-game/watergate-server-go/internal/game"
	"github.com/watergate-game/watergate-server-go/internal/game/deck"
	"github.com/watergate-game/watergate-server-go/internal/server"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting Watergate server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Card catalog
	deckService, closeDeck, err := newDeckService(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to initialize card catalog", zap.Error(err))
	}
	defer closeDeck()

	gameCfg, err := game.ConfigFromSettings(cfg.Game)
	if err != nil {
		logger.Fatal("invalid game configuration", zap.Error(err))
	}
	gameMgr := game.NewManager(deckService, gameCfg, logger)
	logger.Info("game manager initialized",
		zap.Bool("auto_progress", gameCfg.AutoProgress),
		zap.Int("power_tokens", gameCfg.PowerTokens),
		zap.Int("evidence_tokens", len(gameCfg.Evidence)),
	)

	if cfg.DevTools.Enabled {
		logger.Warn("dev tools enabled; skip_turn is accepted with a valid token")
	}

	hub := server.NewHub(gameMgr, server.HubOptions{
		StepInterval: cfg.Game.StepInterval,
		DevTools:     server.NewDevTools(cfg.DevTools),
	}, logger)
	go hub.Run()

	wsServer := server.NewWebSocketServer(cfg.Server.WebSocket, hub, logger)
	grpcServer := server.NewGRPCServer(cfg.Server.GRPC, logger)

	wsLis, err := net.Listen("tcp", cfg.Server.WebSocket.Address)
	if err != nil {
		logger.Fatal("failed to listen", zap.String("address", cfg.Server.WebSocket.Address), zap.Error(err))
	}
	grpcLis, err := net.Listen("tcp", cfg.Server.GRPC.Address)
	if err != nil {
		logger.Fatal("failed to listen", zap.String("address", cfg.Server.GRPC.Address), zap.Error(err))
	}

	// Start gRPC server
	go func() {
		logger.Info("starting gRPC server", zap.String("address", cfg.Server.GRPC.Address))
		if serveErr := grpcServer.Serve(grpcLis); serveErr != nil {
			logger.Error("gRPC server error", zap.Error(serveErr))
		}
	}()

	// Start WebSocket server
	go func() {
		logger.Info("starting WebSocket server", zap.String("address", cfg.Server.WebSocket.Address))
		if wsErr := wsServer.Serve(wsLis); wsErr != nil {
			logger.Error("WebSocket server error", zap.Error(wsErr))
		}
	}()

	grpcServer.SetServing(true)
	logger.Info("Watergate server initialized",
		zap.String("version", version),
		zap.String("grpc_address", cfg.Server.GRPC.Address),
		zap.String("websocket_address", cfg.Server.WebSocket.Address),
	)

	// Wait for termination signal
	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	logger.Info("shutting down gracefully...")
	grpcServer.SetServing(false)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := wsServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("WebSocket shutdown incomplete", zap.Error(err))
	}
	hub.Close()
	grpcServer.Stop()

	logger.Info("Watergate server stopped", zap.Int("games", gameMgr.Count()))
}

// newDeckService picks the catalog backend. The built-in decks are used
// unless a database is enabled.
func newDeckService(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (deck.Service, func(), error) {
	if !cfg.Enabled {
		logger.Info("using built-in card decks")
		return deck.NewStaticService(uint64(time.Now().UnixNano()), logger), func() {}, nil
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	stats := pool.Stat()
	logger.Info("database connection pool initialized",
		zap.Int32("total_conns", stats.TotalConns()),
		zap.Int32("max_conns", stats.MaxConns()),
	)
	return deck.NewPostgresService(pool, logger), pool.Close, nil
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

// Package main provides the messageboard server executable with HTTP API
// and background activation engine.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/coregx/messageboard"
	"github.com/coregx/messageboard/cmd/messageboard-server/internal/api"
	"github.com/coregx/messageboard/cmd/messageboard-server/internal/config"

	fileadapter "github.com/coregx/messageboard/adapters/file"
	"github.com/coregx/messageboard/adapters/relica"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// ZerologAdapter implements messageboard.Logger on top of zerolog.
type ZerologAdapter struct {
	log zerolog.Logger
}

func (l *ZerologAdapter) Debugf(format string, args ...interface{}) {
	l.log.Debug().Msgf(format, args...)
}
func (l *ZerologAdapter) Infof(format string, args ...interface{}) {
	l.log.Info().Msgf(format, args...)
}
func (l *ZerologAdapter) Warnf(format string, args ...interface{}) {
	l.log.Warn().Msgf(format, args...)
}
func (l *ZerologAdapter) Errorf(format string, args ...interface{}) {
	l.log.Error().Msgf(format, args...)
}
func (l *ZerologAdapter) Info(message string) {
	l.log.Info().Msg(message)
}

func main() {
	configPath := flag.String("config", config.DefaultFileName, "path to yaml config file")
	flag.Parse()

	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		zl.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if level, parseErr := zerolog.ParseLevel(cfg.Board.LogLevel); parseErr == nil {
		zl = zl.Level(level)
	} else {
		zl.Warn().Str("level", cfg.Board.LogLevel).Msg("Unknown log level, keeping default")
	}
	logger := &ZerologAdapter{log: zl}

	zl.Info().Msg("🚀 Starting Messageboard Server v0.1.0...")
	zl.Info().
		Str("addr", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)).
		Str("storage", cfg.Storage.Driver).
		Msg("📝 Configuration loaded")

	msgRepo, cfgRepo, closeStorage, err := openStorage(cfg.Storage, logger)
	if err != nil {
		zl.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer closeStorage()
	zl.Info().Msg("✅ Storage initialized")

	hub := messageboard.NewHub(logger)

	store, err := messageboard.NewMessageStore(
		messageboard.WithStoreRepository(msgRepo),
		messageboard.WithStoreLogger(logger),
	)
	if err != nil {
		zl.Fatal().Err(err).Msg("Failed to create message store")
	}

	configService, err := messageboard.NewConfigService(
		messageboard.WithConfigRepository(cfgRepo),
		messageboard.WithConfigHub(hub),
		messageboard.WithConfigLogger(logger),
	)
	if err != nil {
		zl.Fatal().Err(err).Msg("Failed to create config service")
	}

	engineOpts := []messageboard.EngineOption{
		messageboard.WithEngineStore(store),
		messageboard.WithEngineConfig(configService),
		messageboard.WithEngineHub(hub),
		messageboard.WithEngineLogger(logger),
	}
	if cfg.Board.TickMillis > 0 {
		engineOpts = append(engineOpts,
			messageboard.WithEngineTickInterval(time.Duration(cfg.Board.TickMillis)*time.Millisecond))
	}
	engine, err := messageboard.NewEngine(engineOpts...)
	if err != nil {
		zl.Fatal().Err(err).Msg("Failed to create activation engine")
	}

	board, err := messageboard.NewBoard(
		messageboard.WithBoardStore(store),
		messageboard.WithBoardConfig(configService),
		messageboard.WithBoardEngine(engine),
		messageboard.WithBoardLogger(logger),
	)
	if err != nil {
		zl.Fatal().Err(err).Msg("Failed to create board")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := board.Start(ctx); err != nil {
		zl.Fatal().Err(err).Msg("Failed to start board")
	}
	zl.Info().Int("messages", store.Len()).Msg("✅ Board started")

	go engine.Run(ctx)

	if cfg.Board.LogNotifications {
		go messageboard.RunLoggingSubscriber(ctx, hub, logger)
	}

	gateway, err := messageboard.NewGateway(board, logger)
	if err != nil {
		zl.Fatal().Err(err).Msg("Failed to create command gateway")
	}
	handler := api.NewHandler(gateway, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/command", handler.HandleCommand)
	mux.HandleFunc("/api/v1/messages", handler.HandleMessages)
	mux.HandleFunc("/api/v1/messages/", handler.HandleMessageByUUID)
	mux.HandleFunc("/api/v1/configuration", handler.HandleConfiguration)
	mux.HandleFunc("/api/v1/board", handler.HandleBoard)
	mux.HandleFunc("/api/v1/board/on", handler.HandleBoardOn)
	mux.HandleFunc("/api/v1/board/off", handler.HandleBoardOff)
	mux.HandleFunc("/api/v1/health", handler.HandleHealth)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      loggingMiddleware(mux, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zl.Info().Str("addr", addr).Msg("🌐 HTTP server listening")
		zl.Info().Msg("📡 API Endpoints:")
		zl.Info().Msg("   POST   /api/v1/command")
		zl.Info().Msg("   GET    /api/v1/messages")
		zl.Info().Msg("   POST   /api/v1/messages")
		zl.Info().Msg("   PUT    /api/v1/messages/:uuid")
		zl.Info().Msg("   DELETE /api/v1/messages/:uuid")
		zl.Info().Msg("   PUT    /api/v1/configuration")
		zl.Info().Msg("   GET    /api/v1/board")
		zl.Info().Msg("   POST   /api/v1/board/on")
		zl.Info().Msg("   POST   /api/v1/board/off")
		zl.Info().Msg("   GET    /api/v1/health")
		zl.Info().Msg("✅ Messageboard Server is ready!")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info().Msg("🛑 Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Error().Err(err).Msg("Server forced to shutdown")
	}

	cancel() // stop engine and subscribers
	zl.Info().Msg("✅ Server stopped gracefully")
}

// openStorage wires the repository pair for the configured backend and
// returns a close func for whatever resources it opened.
func openStorage(cfg config.StorageConfig, logger messageboard.Logger) (messageboard.MessageRepository, messageboard.ConfigRepository, func(), error) {
	switch cfg.Driver {
	case "file":
		repos, err := fileadapter.NewRepositories(cfg.Path)
		if err != nil {
			return nil, nil, nil, err
		}
		return repos.Message, repos.Config, func() {}, nil

	case "sqlite3":
		db, err := sql.Open("sqlite3", cfg.Path)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := db.Ping(); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
		if err := messageboard.ApplyMigrations(db); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
		repos := relica.NewRepositories(db, "sqlite3")
		return repos.Message, repos.Config, closeDB(db, logger), nil

	case "mysql", "postgres":
		// Schema is expected to be managed externally for network databases.
		db, err := sql.Open(cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := db.Ping(); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
		repos := relica.NewRepositories(db, cfg.Driver)
		return repos.Message, repos.Config, closeDB(db, logger), nil

	default:
		return nil, nil, nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

func closeDB(db *sql.DB, logger messageboard.Logger) func() {
	return func() {
		if err := db.Close(); err != nil {
			logger.Errorf("Failed to close database: %v", err)
		}
	}
}

// loggingMiddleware logs HTTP requests.
func loggingMiddleware(next http.Handler, logger messageboard.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger.Infof("%s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
		logger.Debugf("%s %s - %v", r.Method, r.URL.Path, time.Since(start))
	})
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/NuZard84/go-socket-typerace/internal/config"
	"github.com/NuZard84/go-socket-typerace/internal/db"
	"github.com/NuZard84/go-socket-typerace/internal/handlers"
	"github.com/NuZard84/go-socket-typerace/internal/manager"
)

// enableCORS wraps the plain HTTP helpers; the websocket endpoint does
// its own origin check in the upgrader.
func enableCORS(origin string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		handler(w, r)
	}
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	var texts handlers.TextProvider
	if cfg.MongoURI != "" {
		store, err := db.Connect(context.Background(), cfg.MongoURI)
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to MongoDB")
		}
		defer store.Disconnect(context.Background())
		texts = store
		log.Info().Msg("race texts served from MongoDB")
	} else {
		texts = db.NewFallbackSource(time.Now().UnixNano())
		log.Info().Msg("no MONGO_URI set, race texts served from built-in corpus")
	}

	rooms := manager.NewRoomManager(cfg.MaxRooms, cfg.Limits(), cfg.IdleGracePeriod, cfg.FinishedRetention)
	gateway := handlers.NewGateway(rooms, texts, cfg.Limits(), cfg.MaxTextWords, cfg.AllowedOrigin)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/room", gateway.HandleWebSocket)
	mux.HandleFunc("/api/check-room", enableCORS(cfg.AllowedOrigin, gateway.HandleCheckRoom))
	mux.HandleFunc("/api/health", enableCORS(cfg.AllowedOrigin, gateway.HandleHealth))

	server := &http.Server{Addr: cfg.Addr, Handler: mux}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-stop
		log.Info().Msg("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Info().Str("addr", cfg.Addr).Msg("server starting")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

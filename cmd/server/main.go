package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"minimax-chess/engine"
	"minimax-chess/server"
)

func main() {
	addr := flag.String("addr", ":3000", "listen address")
	depth := flag.Int("depth", engine.DefaultConfig().MaxDepth, "engine search depth in plies")
	workers := flag.Int("workers", engine.DefaultConfig().Workers, "parallel root workers per search")
	origins := flag.String("origins", "http://localhost:5173", "comma separated CORS origins")
	debug := flag.Bool("debug", false, "log every request")
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	cfg := engine.DefaultConfig()
	cfg.MaxDepth = *depth
	cfg.Workers = *workers

	games := server.NewGameManager(cfg, log.Logger)
	app := server.NewApp(server.NewGameController(games, log.Logger), cors.New(cors.Config{
		AllowOrigins: *origins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("addr", *addr).Int("depth", cfg.MaxDepth).Int("workers", cfg.Workers).Msg("listening")
	if err := app.Listen(*addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

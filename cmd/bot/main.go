package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	airunner "github.com/domino14/pentaswap/ai/runner"
	"github.com/domino14/pentaswap/bot"
	"github.com/domino14/pentaswap/config"
)

func main() {
	cfg := config.DefaultConfig()
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("bad-arguments")
	}
	log.Info().Msgf("Loaded config: %v", cfg.SanitizedSettings())

	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eng, err := airunner.NewEngine(ctx, cfg, "")
	if err != nil {
		log.Fatal().Err(err).Msg("could-not-build-engine")
	}
	defer airunner.CloseEngine(eng)

	b := bot.NewBot(eng)
	if err := bot.Main(ctx, cfg.GetString(config.ConfigNatsURL), cfg.GetString(config.ConfigNatsChannel), b); err != nil {
		log.Error().Err(err).Msg("bot-exited")
		return
	}
	log.Info().Msg("server gracefully shutting down")
}

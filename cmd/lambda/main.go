package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/nats-io/nats.go"
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

	ctx := context.Background()
	// Replies over NATS are optional; without a connection the handler
	// only returns the move to the invoker.
	var nc *nats.Conn
	if cfg.GetBool(config.ConfigLambdaReplies) {
		var err error
		nc, err = bot.Connect(ctx, cfg.GetString(config.ConfigNatsURL))
		if err != nil {
			log.Fatal().AnErr("natsConnectErr", err).Msg(":(")
		}
		defer nc.Close()
	}

	handler := bot.NewLambdaHandler(airunner.Factory(ctx, cfg), nc)
	lambda.Start(handler.Handle)
}

// Package bot exposes decision engines over the network and talks to
// engines hosted elsewhere: a bot listening on NATS, or an AWS Lambda
// function.
package bot

import (
	"context"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/pentaswap/engine"
	"github.com/domino14/pentaswap/tinymove"
)

// Bot answers move requests with a single engine. Requests are served one
// at a time, since engines keep per-search state.
type Bot struct {
	mu  sync.Mutex
	eng engine.DecisionEngine
}

func NewBot(eng engine.DecisionEngine) *Bot {
	return &Bot{eng: eng}
}

// handle turns a request payload into a reply payload. Malformed requests
// get InvalidTinyMove back.
func (bot *Bot) handle(data []byte) []byte {
	mover, opponent, err := DecodeRequest(data)
	if err != nil {
		log.Err(err).Msg("could-not-parse-request")
		return EncodeReply(uint64(tinymove.InvalidTinyMove))
	}
	bot.mu.Lock()
	m := bot.eng.ChooseMove(mover, opponent)
	bot.mu.Unlock()
	log.Info().Uint64("mover", mover).Uint64("opponent", opponent).
		Str("move", tinymove.TinyMove(m).String()).Msg("generated-move")
	return EncodeReply(m)
}

// Serve subscribes the bot to channel on nc.
func (bot *Bot) Serve(nc *nats.Conn, channel string) (*nats.Subscription, error) {
	sub, err := nc.Subscribe(channel, func(m *nats.Msg) {
		log.Debug().Msgf("RECV: %d bytes", len(m.Data))
		if err := m.Respond(bot.handle(m.Data)); err != nil {
			log.Err(err).Msg("respond-failed")
		}
	})
	if err != nil {
		return nil, err
	}
	if err = nc.Flush(); err != nil {
		return nil, err
	}
	if err = nc.LastError(); err != nil {
		return nil, err
	}
	return sub, nil
}

// Main connects to NATS and serves until ctx is done.
func Main(ctx context.Context, url, channel string, bot *Bot) error {
	nc, err := Connect(ctx, url)
	if err != nil {
		return err
	}
	defer nc.Close()
	sub, err := bot.Serve(nc, channel)
	if err != nil {
		return err
	}
	log.Info().Msgf("Listening on [%s]", channel)
	<-ctx.Done()
	log.Info().Msg("bot-shutting-down")
	return sub.Drain()
}

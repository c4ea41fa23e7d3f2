package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/pentaswap/engine"
	"github.com/domino14/pentaswap/tinymove"
)

const connectAttempts = 5

// Connect dials NATS, retrying with backoff. Failing to connect at all
// means the engine behind it is unavailable.
func Connect(ctx context.Context, url string) (*nats.Conn, error) {
	var nc *nats.Conn
	err := retry.Do(
		func() error {
			var err error
			nc, err = nats.Connect(url)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(connectAttempts),
		retry.Delay(200*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Err(err).Uint("n", n).Str("url", url).Msg("nats-connect-failed-trying-again")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: nats at %s: %v", engine.ErrEngineUnavailable, url, err)
	}
	return nc, nil
}

// Client is a DecisionEngine that sends every position to a bot listening
// on a NATS subject and waits for its reply.
type Client struct {
	nc      *nats.Conn
	channel string
	timeout time.Duration
	ownConn bool
}

// Dial connects to NATS and returns a client for channel.
func Dial(ctx context.Context, url, channel string, timeout time.Duration) (*Client, error) {
	nc, err := Connect(ctx, url)
	if err != nil {
		return nil, err
	}
	c := NewClient(nc, channel, timeout)
	c.ownConn = true
	return c, nil
}

// NewClient uses an existing connection.
func NewClient(nc *nats.Conn, channel string, timeout time.Duration) *Client {
	return &Client{nc: nc, channel: channel, timeout: timeout}
}

// ChooseMove returns InvalidTinyMove when the bot cannot be reached in
// time; the runner treats that like any other illegal answer.
func (c *Client) ChooseMove(mover, opponent uint64) uint64 {
	res, err := c.nc.Request(c.channel, EncodeRequest(mover, opponent), c.timeout)
	if err != nil {
		if c.nc.LastError() != nil {
			log.Error().Msgf("%v for request", c.nc.LastError())
		}
		log.Err(err).Str("channel", c.channel).Msg("bot-request-failed")
		return uint64(tinymove.InvalidTinyMove)
	}
	m, err := DecodeReply(res.Data)
	if err != nil {
		log.Err(err).Msg("bad-bot-reply")
		return uint64(tinymove.InvalidTinyMove)
	}
	log.Debug().Uint64("move", m).Msg("bot-replied")
	return m
}

func (c *Client) Close() {
	if c.ownConn {
		c.nc.Close()
	}
}

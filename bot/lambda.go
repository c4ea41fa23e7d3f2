package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/pentaswap/engine"
	"github.com/domino14/pentaswap/tinymove"
)

// Invoker is the part of the Lambda client the engine needs.
type Invoker interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// LambdaEngine is a DecisionEngine that invokes an AWS Lambda function for
// every move.
type LambdaEngine struct {
	client       Invoker
	functionName string
	timeout      time.Duration
}

// NewLambdaEngine loads the default AWS configuration (environment, shared
// config files) and returns an engine invoking functionName.
func NewLambdaEngine(ctx context.Context, functionName string, timeout time.Duration) (*LambdaEngine, error) {
	if functionName == "" {
		return nil, fmt.Errorf("%w: no lambda function configured", engine.ErrEngineUnavailable)
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", engine.ErrEngineUnavailable, err)
	}
	return NewLambdaEngineWithClient(lambda.NewFromConfig(cfg), functionName, timeout), nil
}

func NewLambdaEngineWithClient(client Invoker, functionName string, timeout time.Duration) *LambdaEngine {
	return &LambdaEngine{client: client, functionName: functionName, timeout: timeout}
}

func (l *LambdaEngine) ChooseMove(mover, opponent uint64) uint64 {
	m, err := l.invoke(mover, opponent)
	if err != nil {
		log.Err(err).Str("function", l.functionName).Msg("lambda-invoke-failed")
		return uint64(tinymove.InvalidTinyMove)
	}
	return m
}

func (l *LambdaEngine) invoke(mover, opponent uint64) (uint64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()
	payload, err := json.Marshal(LambdaEvent{Mover: mover, Opponent: opponent})
	if err != nil {
		return 0, err
	}
	out, err := l.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName: aws.String(l.functionName),
		Payload:      payload,
	})
	if err != nil {
		return 0, err
	}
	if out.FunctionError != nil {
		return 0, fmt.Errorf("function error %s: %s", aws.ToString(out.FunctionError), out.Payload)
	}
	var resp LambdaResponse
	if err = json.Unmarshal(out.Payload, &resp); err != nil {
		return 0, err
	}
	if resp.Error != "" {
		return 0, fmt.Errorf("engine error: %s", resp.Error)
	}
	return resp.Move, nil
}

// EngineFactory builds an engine of the given kind. An empty kind means
// the default one; a zero searchTime means the default budget.
type EngineFactory func(kind string, searchTime time.Duration) (engine.DecisionEngine, error)

// LambdaHandler is the body of the Lambda function: it answers a
// LambdaEvent with a fresh engine and, if asked to, also publishes the
// reply on NATS.
type LambdaHandler struct {
	factory EngineFactory
	nc      *nats.Conn
}

// NewLambdaHandler returns a handler; nc may be nil if replies are never
// sent over NATS.
func NewLambdaHandler(factory EngineFactory, nc *nats.Conn) *LambdaHandler {
	return &LambdaHandler{factory: factory, nc: nc}
}

func (h *LambdaHandler) Handle(ctx context.Context, evt LambdaEvent) (LambdaResponse, error) {
	logger := log.With().Str("gameID", evt.GameID).Logger()

	eng, err := h.factory(evt.Engine, time.Duration(evt.SearchMillis)*time.Millisecond)
	if err != nil {
		return LambdaResponse{}, err
	}
	if c, ok := eng.(interface{ Close() }); ok {
		defer c.Close()
	}
	m := eng.ChooseMove(evt.Mover, evt.Opponent)
	resp := LambdaResponse{Move: m}
	if tinymove.TinyMove(m) == tinymove.InvalidTinyMove {
		resp.Error = "engine returned no move"
	}
	logger.Info().Uint64("mover", evt.Mover).Uint64("opponent", evt.Opponent).
		Str("move", tinymove.TinyMove(m).String()).Msg("lambda-move")

	if evt.ReplyChannel == "" {
		return resp, nil
	}
	if h.nc == nil {
		return resp, fmt.Errorf("%w: reply channel %s requested but no NATS connection",
			engine.ErrEngineUnavailable, evt.ReplyChannel)
	}
	logger.Info().Msg("move-success-sending-via-nats")
	err = retry.Do(
		func() error {
			// Only the acknowledgement matters, not its contents.
			_, err := h.nc.Request(evt.ReplyChannel, EncodeReply(m), 3*time.Second)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(connectAttempts),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			logger.Err(err).Uint("n", n).Msg("did-not-receive-ack-trying-again")
			return retry.BackOffDelay(n, err, config)
		}),
	)
	return resp, err
}

package bot

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Wire format on NATS. A request is the mover's mask followed by the
// opponent's, 8 bytes each, little-endian. A reply is the encoded move,
// 8 bytes little-endian.
const (
	RequestSize = 16
	ReplySize   = 8
)

var ErrBadPayload = errors.New("bad payload size")

func EncodeRequest(mover, opponent uint64) []byte {
	buf := make([]byte, RequestSize)
	binary.LittleEndian.PutUint64(buf[:8], mover)
	binary.LittleEndian.PutUint64(buf[8:], opponent)
	return buf
}

func DecodeRequest(data []byte) (mover, opponent uint64, err error) {
	if len(data) != RequestSize {
		return 0, 0, fmt.Errorf("%w: request has %d bytes", ErrBadPayload, len(data))
	}
	return binary.LittleEndian.Uint64(data[:8]), binary.LittleEndian.Uint64(data[8:]), nil
}

func EncodeReply(encoded uint64) []byte {
	return binary.LittleEndian.AppendUint64(make([]byte, 0, ReplySize), encoded)
}

func DecodeReply(data []byte) (uint64, error) {
	if len(data) != ReplySize {
		return 0, fmt.Errorf("%w: reply has %d bytes", ErrBadPayload, len(data))
	}
	return binary.LittleEndian.Uint64(data), nil
}

// LambdaEvent is the payload a Lambda-hosted engine is invoked with.
type LambdaEvent struct {
	Mover    uint64 `json:"mover"`
	Opponent uint64 `json:"opponent"`
	// Engine optionally selects the engine kind; empty means the
	// function's configured default.
	Engine string `json:"engine,omitempty"`
	// SearchMillis optionally overrides the search time.
	SearchMillis int    `json:"search_ms,omitempty"`
	GameID       string `json:"game_id,omitempty"`
	// ReplyChannel, when set, also receives the reply over NATS.
	ReplyChannel string `json:"reply_channel,omitempty"`
}

// LambdaResponse is what the function returns.
type LambdaResponse struct {
	Move  uint64 `json:"move"`
	Error string `json:"error,omitempty"`
}

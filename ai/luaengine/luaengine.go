// Package luaengine runs a decision engine written in Lua. The script must
// define a global function choose_move(mover, opponent) returning an
// encoded move. A few helpers are exposed to it:
//
//	legal_moves(mover, opponent)   -> table of encoded moves
//	winning_move(mover, opponent)  -> encoded move, or nil
//	encode(row, col, qa, qb, player) -> encoded move
//	decode(encoded) -> row, col, qa, qb, player
//	apply(mover, opponent, encoded) -> mover, opponent after the move
//
// Masks fit in 36 bits and encoded moves in 40, so Lua numbers hold them
// exactly.
package luaengine

import (
	"bufio"
	"fmt"
	"math"
	"os"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"

	"github.com/domino14/pentaswap/board"
	"github.com/domino14/pentaswap/cache"
	"github.com/domino14/pentaswap/engine"
	"github.com/domino14/pentaswap/move"
	"github.com/domino14/pentaswap/movegen"
	"github.com/domino14/pentaswap/tinymove"
)

const entryPoint = "choose_move"

// Engine is not safe for concurrent use; a Lua state is single-threaded.
type Engine struct {
	L  *lua.LState
	fn *lua.LFunction
}

// NewEngine loads a script from a file. The compiled script is cached, so
// building many engines from one file parses it only once.
func NewEngine(path string) (*Engine, error) {
	obj, err := cache.Load("lua:"+path, func(string) (interface{}, error) {
		return compileFile(path)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", engine.ErrEngineUnavailable, err)
	}
	proto := obj.(*lua.FunctionProto)
	return newEngine(func(L *lua.LState) error {
		L.Push(L.NewFunctionFromProto(proto))
		return L.PCall(0, lua.MultRet, nil)
	})
}

func compileFile(path string) (*lua.FunctionProto, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	chunk, err := parse.Parse(bufio.NewReader(f), path)
	if err != nil {
		return nil, err
	}
	return lua.Compile(chunk, path)
}

// NewEngineFromString loads a script from source.
func NewEngineFromString(src string) (*Engine, error) {
	return newEngine(func(L *lua.LState) error { return L.DoString(src) })
}

func newEngine(load func(*lua.LState) error) (*Engine, error) {
	L := lua.NewState()
	registerHelpers(L)
	if err := load(L); err != nil {
		L.Close()
		return nil, fmt.Errorf("%w: %v", engine.ErrEngineUnavailable, err)
	}
	fn, ok := L.GetGlobal(entryPoint).(*lua.LFunction)
	if !ok {
		L.Close()
		return nil, fmt.Errorf("%w: script does not define %s", engine.ErrEngineUnavailable, entryPoint)
	}
	return &Engine{L: L, fn: fn}, nil
}

func (e *Engine) Close() {
	e.L.Close()
}

func (e *Engine) ChooseMove(mover, opponent uint64) uint64 {
	err := e.L.CallByParam(lua.P{
		Fn:      e.fn,
		NRet:    1,
		Protect: true,
	}, lua.LNumber(mover), lua.LNumber(opponent))
	if err != nil {
		log.Err(err).Msg("error-executing-choose-move")
		return uint64(tinymove.InvalidTinyMove)
	}
	ret := e.L.Get(-1)
	e.L.Pop(1)
	n, ok := ret.(lua.LNumber)
	if !ok {
		log.Error().Str("returned", ret.String()).Msg("choose-move-not-a-number")
		return uint64(tinymove.InvalidTinyMove)
	}
	// Lua numbers are floats; anything that is not an exact encoding must
	// reach the runner as invalid rather than be truncated into a move.
	f := float64(n)
	if f < 0 || f >= 1<<64 || f != math.Trunc(f) {
		log.Error().Str("returned", ret.String()).Msg("choose-move-not-an-encoding")
		return uint64(tinymove.InvalidTinyMove)
	}
	return uint64(f)
}

func registerHelpers(L *lua.LState) {
	L.SetGlobal("legal_moves", L.NewFunction(legalMoves))
	L.SetGlobal("winning_move", L.NewFunction(winningMove))
	L.SetGlobal("encode", L.NewFunction(encode))
	L.SetGlobal("decode", L.NewFunction(decode))
	L.SetGlobal("apply", L.NewFunction(apply))
}

func position(L *lua.LState) (board.BitBoard, board.Player) {
	mover := uint64(L.CheckNumber(1))
	opponent := uint64(L.CheckNumber(2))
	b, p, err := engine.Position(mover, opponent)
	if err != nil {
		L.RaiseError("%v", err)
	}
	return b, p
}

func legalMoves(L *lua.LState) int {
	b, p := position(L)
	tbl := L.NewTable()
	for m := range movegen.Moves(b, p) {
		tbl.Append(lua.LNumber(tinymove.Encode(m)))
	}
	L.Push(tbl)
	return 1
}

func winningMove(L *lua.LState) int {
	b, p := position(L)
	m, _, ok := movegen.WinningMove(b, p)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(tinymove.Encode(m)))
	return 1
}

func encode(L *lua.LState) int {
	m, err := move.NewMove(L.CheckInt(1), L.CheckInt(2),
		board.Quadrant(L.CheckInt(3)), board.Quadrant(L.CheckInt(4)), board.Player(L.CheckInt(5)))
	if err != nil {
		L.RaiseError("%v", err)
	}
	L.Push(lua.LNumber(tinymove.Encode(m)))
	return 1
}

func decode(L *lua.LState) int {
	m, err := tinymove.Decode(tinymove.TinyMove(L.CheckNumber(1)))
	if err != nil {
		L.RaiseError("%v", err)
	}
	L.Push(lua.LNumber(m.Row()))
	L.Push(lua.LNumber(m.Col()))
	L.Push(lua.LNumber(m.QuadrantA()))
	L.Push(lua.LNumber(m.QuadrantB()))
	L.Push(lua.LNumber(m.Player()))
	return 5
}

func apply(L *lua.LState) int {
	b, p := position(L)
	m, err := tinymove.Decode(tinymove.TinyMove(L.CheckNumber(3)))
	if err != nil {
		L.RaiseError("%v", err)
	}
	if m.Player() != p {
		L.RaiseError("move is for player %v, %v to move", m.Player(), p)
	}
	nb, err := m.Apply(b)
	if err != nil {
		L.RaiseError("%v", err)
	}
	mover, opponent := engine.MasksFor(nb, p)
	L.Push(lua.LNumber(mover))
	L.Push(lua.LNumber(opponent))
	return 2
}

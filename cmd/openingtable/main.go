package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/pentaswap/ai/hasty"
	"github.com/domino14/pentaswap/board"
	"github.com/domino14/pentaswap/config"
	"github.com/domino14/pentaswap/game"
	"github.com/domino14/pentaswap/openingtable"
)

const usage = `usage: openingtable <command> [args] [--flags]

commands:
    init            create an empty table holding only the root
    generate [n]    run n expansions (default: until interrupted)
    stats           print the number of nodes and the root's record
    main-line       print the best line known to the table
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	cmd := os.Args[1]
	args := os.Args[2:]
	n := 0
	if cmd == "generate" && len(args) > 0 {
		if v, err := strconv.Atoi(args[0]); err == nil {
			n = v
			args = args[1:]
		}
	}

	cfg := config.DefaultConfig()
	if err := cfg.Load(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tbl, err := openingtable.Open(cfg.GetString(config.ConfigOpeningDB), hasty.NewEngine())
	if err != nil {
		log.Fatal().Err(err).Msg("could-not-open-table")
	}
	defer tbl.Close()

	if err := run(ctx, tbl, cmd, n); err != nil {
		log.Error().Err(err).Str("command", cmd).Msg("failed")
		tbl.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, tbl *openingtable.Table, cmd string, n int) error {
	switch cmd {
	case "init":
		return tbl.Init(ctx)

	case "generate":
		err := tbl.Generate(ctx, n)
		if errors.Is(err, context.Canceled) {
			log.Info().Msg("generation interrupted")
			return nil
		}
		return err

	case "stats":
		count, err := tbl.Count(ctx)
		if err != nil {
			return err
		}
		root, err := tbl.Get(ctx, board.BitBoard{})
		if err != nil {
			return err
		}
		fmt.Printf("nodes: %d\n", count)
		fmt.Printf("games: %d\n", root.GamesPlayed)
		fmt.Printf("wins A: %d (%.3f)\n", root.WinsA, root.WinRate(board.PlayerA))
		fmt.Printf("wins B: %d (%.3f)\n", root.WinsB, root.WinRate(board.PlayerB))
		return nil

	case "main-line":
		line, err := tbl.MainLine(ctx)
		if err != nil {
			return err
		}
		for i, node := range line {
			mover := game.SideToMove(node.Board).Opponent()
			fmt.Printf("ply %d: %d games, %.3f for %v\n", i, node.GamesPlayed, node.WinRate(mover), mover)
			fmt.Print(node.Board.ToDisplayText())
		}
		return nil
	}
	fmt.Fprint(os.Stderr, usage)
	return fmt.Errorf("unknown command %q", cmd)
}

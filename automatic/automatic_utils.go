package automatic

// Engine-vs-engine autoplay, with a turn log and summary statistics.

import (
	"context"
	"errors"
	"expvar"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/pentaswap/engine"
)

var (
	CVCCounter *expvar.Int
	IsPlaying  *expvar.Int
)

func init() {
	CVCCounter = expvar.NewInt("cvcCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

var ErrAlreadyPlaying = errors.New("games are already being played, please wait till complete")

// EnginePairFunc builds a fresh pair of engines. It is called once per
// thread, as engines are not safe for concurrent use.
type EnginePairFunc func() ([2]engine.DecisionEngine, error)

type Options struct {
	NumGames       int
	Threads        int
	OutputFilename string
	Names          [2]string
	NewEngines     EnginePairFunc
}

// StartCompVComp plays opts.NumGames games, alternating which engine moves
// first, and returns the summary once all games are over. If ctx is
// cancelled, no new games are started and the summary covers the games
// played so far.
func StartCompVComp(ctx context.Context, opts Options) (*Summary, error) {
	if IsPlaying.Value() > 0 {
		return nil, ErrAlreadyPlaying
	}
	threads := max(1, opts.Threads)

	runners := make([]*GameRunner, 0, threads)
	closeRunners := func() {
		for _, r := range runners {
			r.Close()
		}
	}
	logChan := make(chan string, 100)
	for range threads {
		engines, err := opts.NewEngines()
		if err != nil {
			closeRunners()
			return nil, err
		}
		runners = append(runners, NewGameRunner(logChan, opts.Names, engines))
	}

	logfile, err := os.Create(opts.OutputFilename)
	if err != nil {
		closeRunners()
		return nil, err
	}
	log.Debug().Msgf("Starting %v games, %v threads", opts.NumGames, threads)

	CVCCounter.Set(0)
	jobs := make(chan int, 100)
	summary := NewSummary(opts.Names)
	var mu sync.Mutex

	var logWG sync.WaitGroup
	logWG.Add(1)
	go func() {
		defer logWG.Done()
		logfile.WriteString(LogHeader)
		for msg := range logChan {
			logfile.WriteString(msg)
		}
		logfile.Close()
		log.Debug().Msg("Exiting turn logger goroutine!")
	}()

	g, gctx := errgroup.WithContext(ctx)
	for _, r := range runners {
		g.Go(func() error {
			IsPlaying.Add(1)
			defer IsPlaying.Add(-1)
			for i := range jobs {
				res, err := r.PlayGame(gctx, i%2 == 1)
				if err != nil {
					return err
				}
				mu.Lock()
				summary.Add(res)
				mu.Unlock()
				CVCCounter.Add(1)
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(jobs)
		for i := range opts.NumGames {
			select {
			case jobs <- i:
			case <-gctx.Done():
				log.Info().Msg("Got stop signal, exiting soon...")
				return nil
			}
			if (i+1)%1000 == 0 {
				log.Info().Msgf("Queued %v jobs", i+1)
			}
		}
		log.Debug().Msg("Finished queueing all jobs.")
		return nil
	})

	err = g.Wait()
	closeRunners()
	close(logChan)
	logWG.Wait()
	log.Info().Int("games", summary.Games()).Msg("All games finished.")
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return summary, err
}

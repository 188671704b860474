package simulation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"sync"

	"audienceLab/domain"
	"audienceLab/pkg/logger"
)

// Runner fans a persona population out over a worker pool and joins the
// resulting sessions. Workers share only read-only inputs, so no coordination
// happens during simulation; the join is the single synchronization point.
type Runner struct {
	sim     *SimulatorService
	workers int
}

func NewRunner(sim *SimulatorService, workers int) *Runner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Runner{sim: sim, workers: workers}
}

// RunBatch simulates one session per persona. Results land in an
// index-addressed slice so output order is independent of scheduling, which
// keeps downstream aggregation deterministic for a fixed seed.
//
// Cancellation stops spawning new sessions and discards all partial results:
// a partially aggregated batch would silently break the minimum-sample-size
// guarantee.
func (r *Runner) RunBatch(
	ctx context.Context,
	personas []domain.PersonaProfile,
	segments []domain.ContentSegment,
) ([]domain.ViewingSession, error) {
	if len(segments) == 0 {
		return nil, errors.New("no segments to simulate against")
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	sessions := make([]domain.ViewingSession, len(personas))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				persona := personas[i]
				rng := rand.New(rand.NewSource(persona.Seed))

				session, err := r.sim.Simulate(persona, segments, rng)
				if err != nil {
					// a timed-out session still counts; only this
					// persona is affected
					var timeout *domain.SimulationTimeoutError
					if errors.As(err, &timeout) {
						logger.Warn("session hit tick ceiling",
							"persona_id", timeout.PersonaID,
							"category", persona.Category,
							"ticks", timeout.Ticks,
						)
					}
				}
				sessions[i] = session
				SessionsSimulatedTotal.WithLabelValues(string(session.Outcome)).Inc()
			}
		}()
	}

	for i := range personas {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, fmt.Errorf("batch cancelled: %w", ctx.Err())
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("batch cancelled: %w", err)
	}

	return sessions, nil
}

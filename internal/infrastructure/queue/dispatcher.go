package queue

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/sitepulse/site-presence/internal/api/metrics"
	"github.com/sitepulse/site-presence/internal/core/domain"
	"github.com/sitepulse/site-presence/internal/core/ports"
	"github.com/sitepulse/site-presence/internal/infrastructure/geolocation"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

var (
	// ErrQueueFull is returned when the project's shard has no free slot.
	ErrQueueFull = errors.New("observation queue full")
	// ErrStopped is returned once the workers have shut down.
	ErrStopped = errors.New("observation dispatcher stopped")
)

// Dispatcher replays offline check-in observations on a fixed set of workers
// using consistent hashing on the project id, so observations of one project
// are applied in upload order and never race each other for the day.
type Dispatcher struct {
	workers      []chan ports.ObservationInput
	service      ports.PresenceService
	maxAccuracyM float64
	log          zerolog.Logger
	stopped      chan struct{}
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used. maxAccuracyM is forwarded to
// every reported fix.
func NewDispatcher(numWorkers int, service ports.PresenceService, maxAccuracyM float64, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:      make([]chan ports.ObservationInput, numWorkers),
		service:      service,
		maxAccuracyM: maxAccuracyM,
		log:          log,
		stopped:      make(chan struct{}),
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ObservationInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
	go func() {
		<-ctx.Done()
		close(d.stopped)
	}()
}

// Enqueue hands an observation to the worker responsible for its project.
// It never blocks: a full shard yields ErrQueueFull and a stopped dispatcher
// yields ErrStopped.
func (d *Dispatcher) Enqueue(ctx context.Context, obs ports.ObservationInput) error {
	select {
	case <-d.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	idx := d.shardIndex(obs.ProjectID)
	select {
	case d.workers[idx] <- obs:
	default:
		metrics.ObservationsRejectedTotal.Inc()
		return ErrQueueFull
	}
	metrics.ObservationsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	return nil
}

// EnqueueBatch enqueues observations in order and stops at the first one that
// cannot be queued. It returns how many were accepted.
func (d *Dispatcher) EnqueueBatch(ctx context.Context, observations []ports.ObservationInput) (int, error) {
	for i, o := range observations {
		if err := d.Enqueue(ctx, o); err != nil {
			return i, fmt.Errorf("enqueue observation %d: %w", i, err)
		}
	}
	return len(observations), nil
}

// shardIndex maps a project id deterministically to a worker index.
func (d *Dispatcher) shardIndex(projectID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(projectID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ObservationInput) {
	depth := metrics.ObservationsQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case obs, ok := <-ch:
			if !ok {
				return
			}
			depth.Set(float64(len(ch)))
			d.apply(ctx, id, obs)
		}
	}
}

func (d *Dispatcher) apply(ctx context.Context, workerID int, obs ports.ObservationInput) {
	coord := obs.Coordinate
	res, err := d.service.CheckIn(ctx, ports.CheckInInput{
		ProjectID: obs.ProjectID,
		Actor:     obs.Actor,
		Locator: geolocation.Reported{
			Coordinate:   &coord,
			AccuracyM:    obs.AccuracyM,
			MaxAccuracyM: d.maxAccuracyM,
		},
		ObservedAt: obs.ObservedAt,
	})

	log := d.log.With().
		Str("batch_id", obs.BatchID).
		Str("project_id", obs.ProjectID).
		Int("worker_id", workerID).
		Logger()

	switch {
	case errors.Is(err, domain.ErrAlreadyCheckedIn), errors.Is(err, domain.ErrCheckInInProgress):
		log.Debug().Err(err).Msg("offline observation superseded")
	case err != nil:
		log.Error().Err(err).Msg("offline observation failed")
	case res.AlreadyVerified:
		log.Debug().Str("day", res.Day).Msg("offline observation superseded")
	default:
		log.Info().
			Str("day", res.Day).
			Str("status", string(res.Result.Status)).
			Msg("offline observation applied")
	}
}

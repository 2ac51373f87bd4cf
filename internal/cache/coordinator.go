package cache

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/roach88/tabular/internal/table"
)

// Handle is the externally visible reference to a running coordinator.
// Readers and writers hold only the name; the table reference stays
// exclusive to the coordinator.
type Handle struct {
	Name string
	Ref  string
}

// Option configures a coordinator at start.
type Option func(*settings)

type settings struct {
	logger *slog.Logger
}

// WithLogger sets the coordinator's logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// Coordinator is a single-consumer process over a state S fed by messages
// of type M. All mutations of S happen in the run loop goroutine; external
// callers only enqueue.
type Coordinator[S, M any] struct {
	name  string
	ref   string
	state S
	apply func(S, M) error
	// onStop runs in the consumer goroutine after the queue drains.
	onStop func(S)
	// unregister releases the coordinator's name claim; nil when the owned
	// state holds the registration itself (the table-owning path).
	unregister func()

	queue   *queue[M]
	logger  *slog.Logger
	metrics *Metrics

	done     chan struct{}
	stopOnce sync.Once
}

// StartCustom starts a coordinator with a caller-supplied state constructor
// and per-message reducer, reusing the start/registration/failure machinery
// of the table-owning coordinator. The name is claimed in the registry for
// the coordinator's lifetime with its Handle as the ref, so two coordinators
// can never share a name; the claim is released when the consumer exits.
// Blocks until init returns; on any failure nothing is running or registered
// and the error is wrapped in *StartError.
func StartCustom[S, M any](
	ctx context.Context,
	reg table.NameRegistry,
	name string,
	init func() (S, error),
	apply func(S, M) error,
	opts ...Option,
) (*Coordinator[S, M], error) {
	return startCustom(ctx, reg, name, init, apply, nil, opts...)
}

func startCustom[S, M any](
	ctx context.Context,
	reg table.NameRegistry,
	name string,
	init func() (S, error),
	apply func(S, M) error,
	onStop func(S),
	opts ...Option,
) (*Coordinator[S, M], error) {
	normalized, err := table.CheckName(name)
	if err != nil {
		return nil, &StartError{Name: name, Err: err}
	}

	s := settings{logger: slog.Default()}
	for _, opt := range opts {
		opt(&s)
	}

	ref := uuid.Must(uuid.NewV7()).String()

	// Claim the name before running init so a conflict fails fast with no
	// side effects. The table-owning path passes a nil registry because its
	// table claims the name itself during init.
	var unregister func()
	if reg != nil {
		if err := reg.Register(normalized, Handle{Name: normalized, Ref: ref}); err != nil {
			return nil, &StartError{Name: normalized, Err: err}
		}
		unregister = func() { reg.Unregister(normalized) }
	}

	state, err := init()
	if err != nil {
		if unregister != nil {
			unregister()
		}
		return nil, &StartError{Name: normalized, Err: err}
	}

	c := &Coordinator[S, M]{
		name:       normalized,
		ref:        ref,
		state:      state,
		apply:      apply,
		onStop:     onStop,
		unregister: unregister,
		queue:      newQueue[M](),
		logger:     s.logger,
		metrics:    &Metrics{},
		done:       make(chan struct{}),
	}

	go c.run(ctx)

	return c, nil
}

// Send enqueues a message without waiting for it to be applied. Returns
// false once the coordinator has stopped; an accepted message is applied
// in send order relative to other accepted messages.
func (c *Coordinator[S, M]) Send(msg M) bool {
	if !c.queue.Enqueue(msg) {
		return false
	}
	c.metrics.enqueued.Add(1)
	return true
}

// Stop closes the queue, waits for the consumer to drain and apply the
// remaining messages, and releases the owned state. Idempotent.
func (c *Coordinator[S, M]) Stop() {
	c.stopOnce.Do(func() {
		c.queue.Close()
	})
	<-c.done
}

// Handle returns the coordinator's external reference.
func (c *Coordinator[S, M]) Handle() Handle {
	return Handle{Name: c.name, Ref: c.ref}
}

// Name returns the coordinator's registered name.
func (c *Coordinator[S, M]) Name() string {
	return c.name
}

// Pending returns the number of messages waiting to be applied.
func (c *Coordinator[S, M]) Pending() int {
	return c.queue.Len()
}

// Metrics returns a snapshot of the message counters.
func (c *Coordinator[S, M]) Metrics() MetricsSnapshot {
	return c.metrics.Snapshot()
}

// Done is closed when the consumer goroutine has exited.
func (c *Coordinator[S, M]) Done() <-chan struct{} {
	return c.done
}

// run is the single-consumer loop. All state mutations happen here; apply
// failures are logged and processing continues, so one bad message never
// kills the coordinator.
func (c *Coordinator[S, M]) run(ctx context.Context) {
	defer close(c.done)

	c.logger.Debug("coordinator starting", "name", c.name, "ref", c.ref)

	for {
		msg, ok := c.queue.TryDequeue()
		if ok {
			if err := c.apply(c.state, msg); err != nil {
				c.metrics.rejected.Add(1)
				c.logger.Error("message apply failed",
					"name", c.name,
					"error", err,
				)
				continue
			}
			c.metrics.applied.Add(1)
			continue
		}

		select {
		case <-ctx.Done():
			// Cancellation closes intake and exits at the first empty
			// check; a message that raced in since that check is not
			// applied. Only Stop guarantees a drain.
			c.queue.Close()
			c.finalize("context cancelled")
			return

		case <-c.queue.Wait():
			// The signal channel closes when the queue closes, so this
			// case fires immediately once stopped. Drain first, then exit.
			if c.queue.Closed() && c.queue.Len() == 0 {
				c.finalize("queue closed")
				return
			}
		}
	}
}

func (c *Coordinator[S, M]) finalize(reason string) {
	if c.onStop != nil {
		c.onStop(c.state)
	}
	if c.unregister != nil {
		c.unregister()
	}
	c.logger.Debug("coordinator stopped",
		"name", c.name,
		"ref", c.ref,
		"reason", reason,
		"applied", c.metrics.applied.Load(),
	)
}

package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"food-storefront/internal/cart"
	"food-storefront/internal/models"
	"food-storefront/internal/pricing"

	"go.uber.org/zap"
)

var (
	ErrSubmissionInFlight = errors.New("an order submission is already in progress")
	ErrSubmissionFailed   = errors.New("order submission failed")
)

// OrderSubmitter is the order half of the remote gateway.
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, itemIDs []string) (string, error)
}

type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// OrderRequest is the list of item identifiers taken from the cart at the
// moment of submission.
type OrderRequest struct {
	ItemIDs []string `json:"item_ids"`
}

// Outcome describes one finished submission attempt.
type Outcome struct {
	State      State
	Request    OrderRequest
	Totals     pricing.PriceBreakdown
	Message    string
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

type Option func(*Workflow)

// WithSubmitTimeout bounds the gateway call. Zero means no deadline.
func WithSubmitTimeout(timeout time.Duration) Option {
	return func(w *Workflow) {
		w.submitTimeout = timeout
	}
}

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(w *Workflow) {
		w.logger = logger
	}
}

// Workflow submits the contents of one cart. On success the cart is cleared;
// on failure it is left exactly as it was.
type Workflow struct {
	store         *cart.Store
	submitter     OrderSubmitter
	submitTimeout time.Duration
	logger        *zap.SugaredLogger

	mu       sync.Mutex
	state    State
	inFlight bool
}

func NewWorkflow(store *cart.Store, submitter OrderSubmitter, opts ...Option) *Workflow {
	w := &Workflow{
		store:     store,
		submitter: submitter,
		logger:    zap.NewNop().Sugar(),
		state:     StateIdle,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// State reports the state of the most recent submission.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Submit sends whatever is currently in the cart. An empty cart is forwarded
// as an order with no items. A second call while one is outstanding returns
// ErrSubmissionInFlight without contacting the gateway.
func (w *Workflow) Submit(ctx context.Context) (*Outcome, error) {
	if !w.begin() {
		return nil, ErrSubmissionInFlight
	}
	final := StateFailed
	defer func() { w.finish(final) }()

	items := w.store.List()
	outcome := &Outcome{
		Request:   OrderRequest{ItemIDs: models.ItemIDs(items)},
		Totals:    pricing.ComputeTotals(items),
		StartedAt: time.Now(),
	}

	w.logger.Infow("submitting order",
		"items", len(outcome.Request.ItemIDs),
		"grand_total", outcome.Totals.GrandTotal.StringFixed(2),
	)

	callCtx := ctx
	if w.submitTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, w.submitTimeout)
		defer cancel()
	}

	message, err := w.submitter.SubmitOrder(callCtx, outcome.Request.ItemIDs)
	outcome.FinishedAt = time.Now()

	if err != nil {
		outcome.State = StateFailed
		outcome.Err = err
		w.logger.Warnw("order submission failed", "items", len(outcome.Request.ItemIDs), "error", err)
		return outcome, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	w.store.Clear()
	outcome.State = StateCompleted
	outcome.Message = message
	final = StateCompleted
	w.logger.Infow("order submitted", "items", len(outcome.Request.ItemIDs), "message", message)

	return outcome, nil
}

func (w *Workflow) begin() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.inFlight {
		return false
	}
	w.inFlight = true
	w.state = StateSubmitting
	return true
}

func (w *Workflow) finish(state State) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.inFlight = false
	w.state = state
}

package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"food-storefront/internal/cart"
	"food-storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSubmitter struct {
	mock.Mock
}

func (m *mockSubmitter) SubmitOrder(ctx context.Context, itemIDs []string) (string, error) {
	args := m.Called(ctx, itemIDs)
	return args.String(0), args.Error(1)
}

// blockingSubmitter holds each call until release is closed.
type blockingSubmitter struct {
	entered chan struct{}
	release chan struct{}
	calls   int
}

func (b *blockingSubmitter) SubmitOrder(ctx context.Context, itemIDs []string) (string, error) {
	b.calls++
	close(b.entered)
	<-b.release
	return "ok", nil
}

type panickingSubmitter struct{}

func (panickingSubmitter) SubmitOrder(ctx context.Context, itemIDs []string) (string, error) {
	panic("gateway client bug")
}

func filledStore(ids ...string) *cart.Store {
	store := cart.NewStore()
	for _, id := range ids {
		store.Add(models.NewItem(id, "Dish "+id, "", "100.00", "4"))
	}
	return store
}

func TestSubmit_SuccessClearsCart(t *testing.T) {
	store := filledStore("a", "b")
	submitter := new(mockSubmitter)
	submitter.On("SubmitOrder", mock.Anything, []string{"a", "b"}).Return("Order placed successfully", nil)

	wf := NewWorkflow(store, submitter)
	outcome, err := wf.Submit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, StateCompleted, outcome.State)
	assert.Equal(t, "Order placed successfully", outcome.Message)
	assert.Equal(t, []string{"a", "b"}, outcome.Request.ItemIDs)
	assert.Equal(t, "210.00", outcome.Totals.GrandTotal.StringFixed(2))
	assert.Empty(t, store.List())
	assert.Equal(t, StateCompleted, wf.State())
	submitter.AssertExpectations(t)
}

func TestSubmit_FailureLeavesCartUntouched(t *testing.T) {
	store := filledStore("a", "b", "a")
	before := store.List()
	gatewayErr := errors.New("connection refused")
	submitter := new(mockSubmitter)
	submitter.On("SubmitOrder", mock.Anything, []string{"a", "b", "a"}).Return("", gatewayErr).Once()

	wf := NewWorkflow(store, submitter)
	outcome, err := wf.Submit(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSubmissionFailed)
	assert.ErrorIs(t, err, gatewayErr)
	require.NotNil(t, outcome)
	assert.Equal(t, StateFailed, outcome.State)
	assert.Equal(t, gatewayErr, outcome.Err)
	assert.Equal(t, before, store.List())
	assert.Equal(t, StateFailed, wf.State())
	submitter.AssertNumberOfCalls(t, "SubmitOrder", 1)
}

func TestSubmit_EmptyCartIsForwarded(t *testing.T) {
	store := cart.NewStore()
	submitter := new(mockSubmitter)
	submitter.On("SubmitOrder", mock.Anything, []string{}).Return("ok", nil)

	outcome, err := NewWorkflow(store, submitter).Submit(context.Background())

	require.NoError(t, err)
	assert.Empty(t, outcome.Request.ItemIDs)
	assert.True(t, outcome.Totals.GrandTotal.IsZero())
	submitter.AssertExpectations(t)
}

func TestSubmit_RejectsConcurrentSubmission(t *testing.T) {
	store := filledStore("a")
	submitter := &blockingSubmitter{entered: make(chan struct{}), release: make(chan struct{})}
	wf := NewWorkflow(store, submitter)

	done := make(chan error, 1)
	go func() {
		_, err := wf.Submit(context.Background())
		done <- err
	}()

	<-submitter.entered
	assert.Equal(t, StateSubmitting, wf.State())

	_, err := wf.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(submitter.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, submitter.calls)
	assert.Empty(t, store.List())
}

func TestSubmit_AddDuringSubmissionIsSerializedWithClear(t *testing.T) {
	store := filledStore("a")
	submitter := &blockingSubmitter{entered: make(chan struct{}), release: make(chan struct{})}
	wf := NewWorkflow(store, submitter)

	done := make(chan *Outcome, 1)
	go func() {
		outcome, _ := wf.Submit(context.Background())
		done <- outcome
	}()

	<-submitter.entered
	store.Add(models.NewItem("late", "Late", "", "1", "1"))
	close(submitter.release)

	outcome := <-done
	assert.Equal(t, []string{"a"}, outcome.Request.ItemIDs, "request holds the snapshot taken before the add")
	assert.Empty(t, store.List(), "clear runs after the add completed")
}

func TestSubmit_PanicReleasesSubmission(t *testing.T) {
	store := filledStore("a")
	wf := NewWorkflow(store, panickingSubmitter{})

	assert.Panics(t, func() { _, _ = wf.Submit(context.Background()) })
	assert.Equal(t, StateFailed, wf.State())
	assert.Len(t, store.List(), 1, "cart survives a panicking submitter")

	submitter := new(mockSubmitter)
	submitter.On("SubmitOrder", mock.Anything, []string{"a"}).Return("ok", nil).Once()
	wf.submitter = submitter

	outcome, err := wf.Submit(context.Background())
	require.NoError(t, err, "a later submission is not reported as in flight")
	assert.Equal(t, StateCompleted, outcome.State)
	submitter.AssertExpectations(t)
}

func TestSubmit_TimeoutIsApplied(t *testing.T) {
	store := filledStore("a")
	submitter := new(mockSubmitter)
	submitter.On("SubmitOrder", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), []string{"a"}).Return("", context.DeadlineExceeded)

	wf := NewWorkflow(store, submitter, WithSubmitTimeout(50*time.Millisecond))
	_, err := wf.Submit(context.Background())

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, store.List(), 1)
	submitter.AssertExpectations(t)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "submitting", StateSubmitting.String())
	assert.Equal(t, "completed", StateCompleted.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestNewWorkflow_StartsIdle(t *testing.T) {
	wf := NewWorkflow(cart.NewStore(), new(mockSubmitter))
	assert.Equal(t, StateIdle, wf.State())
}

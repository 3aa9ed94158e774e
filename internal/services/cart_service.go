package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"food-storefront/internal/cart"
	"food-storefront/internal/checkout"
	"food-storefront/internal/models"
	"food-storefront/internal/pricing"
	"food-storefront/internal/repositories"
	"food-storefront/pkg/auth"
	"food-storefront/pkg/messaging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ItemResolver looks up a catalog item by id.
type ItemResolver interface {
	FindItem(ctx context.Context, itemID string) (*models.Item, error)
}

type CartOptions struct {
	Topic         string
	SubmitTimeout time.Duration
	AuditTimeout  time.Duration // bounds the receipt write and event publish
	SweepInterval time.Duration // how often RunSweeper drops expired sessions
}

// session owns one cart and the workflow that submits it.
type session struct {
	store     *cart.Store
	workflow  *checkout.Workflow
	expiresAt time.Time
}

type CartService struct {
	items      ItemResolver
	submitter  checkout.OrderSubmitter
	receipts   repositories.OrderReceiptRepository // nil disables receipts
	publisher  messaging.Publisher
	jwtManager *auth.JWTManager
	opts       CartOptions
	logger     *zap.SugaredLogger

	mu       sync.RWMutex
	sessions map[string]*session
}

func NewCartService(
	items ItemResolver,
	submitter checkout.OrderSubmitter,
	receipts repositories.OrderReceiptRepository,
	publisher messaging.Publisher,
	jwtManager *auth.JWTManager,
	opts CartOptions,
	logger *zap.SugaredLogger,
) *CartService {
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	if opts.Topic == "" {
		opts.Topic = messaging.TopicOrderEvents
	}
	if opts.AuditTimeout <= 0 {
		opts.AuditTimeout = 5 * time.Second
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &CartService{
		items:      items,
		submitter:  submitter,
		receipts:   receipts,
		publisher:  publisher,
		jwtManager: jwtManager,
		opts:       opts,
		logger:     logger,
		sessions:   make(map[string]*session),
	}
}

type SessionResponse struct {
	SessionID string    `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AddItemRequest struct {
	ItemID string `json:"item_id" binding:"required"`
}

type CartResponse struct {
	SessionID string                `json:"session_id"`
	Items     []models.Item         `json:"items"`
	Count     int                   `json:"count"`
	Totals    pricing.DisplayTotals `json:"totals"`
}

type CheckoutResponse struct {
	OrderID string                `json:"order_id"`
	Status  string                `json:"status"`
	Message string                `json:"message"`
	ItemIDs []string              `json:"item_ids"`
	Totals  pricing.DisplayTotals `json:"totals"`
}

// StartSession creates an empty cart and returns a token bound to it.
func (s *CartService) StartSession(ctx context.Context) (*SessionResponse, error) {
	sessionID := uuid.New().String()

	token, expiresAt, err := s.jwtManager.GenerateToken(sessionID)
	if err != nil {
		return nil, err
	}

	store := cart.NewStore()
	workflow := checkout.NewWorkflow(store, s.submitter,
		checkout.WithSubmitTimeout(s.opts.SubmitTimeout),
		checkout.WithLogger(s.logger.With("session_id", sessionID)),
	)

	s.mu.Lock()
	s.sessions[sessionID] = &session{store: store, workflow: workflow, expiresAt: expiresAt}
	s.mu.Unlock()

	s.logger.Infow("session started", "session_id", sessionID, "expires_at", expiresAt)
	return &SessionResponse{SessionID: sessionID, Token: token, ExpiresAt: expiresAt}, nil
}

// EndSession discards the session and its cart.
func (s *CartService) EndSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)

	s.logger.Infow("session ended", "session_id", sessionID)
	return nil
}

// SweepExpired drops every session whose token has expired and returns how
// many were removed.
func (s *CartService) SweepExpired() int {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.expired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// RunSweeper calls SweepExpired every SweepInterval until ctx is done.
func (s *CartService) RunSweeper(ctx context.Context) {
	ticker := time.NewTicker(s.opts.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.SweepExpired(); removed > 0 {
				s.logger.Infow("expired sessions swept", "removed", removed)
			}
		}
	}
}

func (sess *session) expired(now time.Time) bool {
	return !sess.expiresAt.IsZero() && now.After(sess.expiresAt)
}

func (s *CartService) session(sessionID string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.expired(time.Now()) {
		s.mu.Lock()
		delete(s.sessions, sessionID)
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *CartService) GetCart(ctx context.Context, sessionID string) (*CartResponse, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return buildCartResponse(sessionID, sess.store.List()), nil
}

// AddItem resolves itemID from the catalog and appends it. Duplicates are
// separate lines.
func (s *CartService) AddItem(ctx context.Context, sessionID string, req *AddItemRequest) (*CartResponse, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	item, err := s.items.FindItem(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	sess.store.Add(*item)
	return buildCartResponse(sessionID, sess.store.List()), nil
}

// RemoveItem drops the first line with itemID. Removing an absent item is a
// no-op.
func (s *CartService) RemoveItem(ctx context.Context, sessionID, itemID string) (*CartResponse, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	if !sess.store.RemoveByID(itemID) {
		s.logger.Debugw("remove of absent item ignored", "session_id", sessionID, "item_id", itemID)
	}
	return buildCartResponse(sessionID, sess.store.List()), nil
}

func (s *CartService) ClearCart(ctx context.Context, sessionID string) error {
	sess, err := s.session(sessionID)
	if err != nil {
		return err
	}
	sess.store.Clear()
	return nil
}

func (s *CartService) Totals(ctx context.Context, sessionID string) (*pricing.PriceBreakdown, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	totals := pricing.ComputeTotals(sess.store.List())
	return &totals, nil
}

// Checkout submits the session's cart. Every finished attempt is recorded as a
// receipt and published as an order event; failures of either are logged only.
func (s *CartService) Checkout(ctx context.Context, sessionID string) (*CheckoutResponse, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	outcome, err := sess.workflow.Submit(ctx)
	if errors.Is(err, checkout.ErrSubmissionInFlight) {
		return nil, err
	}

	orderID := uuid.New()
	response := &CheckoutResponse{
		OrderID: orderID.String(),
		Status:  outcome.State.String(),
		Message: outcome.Message,
		ItemIDs: outcome.Request.ItemIDs,
		Totals:  outcome.Totals.Display(),
	}
	if outcome.Err != nil {
		response.Message = outcome.Err.Error()
	}

	// The request may already be cancelled; the audit trail is still written.
	auditCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.AuditTimeout)
	defer cancel()
	s.recordReceipt(auditCtx, orderID, sessionID, outcome)
	s.publishEvent(auditCtx, orderID, sessionID, outcome)

	return response, err
}

func (s *CartService) ListOrders(ctx context.Context, sessionID string, limit, offset int) ([]models.OrderReceipt, error) {
	if _, err := s.session(sessionID); err != nil {
		return nil, err
	}
	if s.receipts == nil {
		return []models.OrderReceipt{}, nil
	}
	return s.receipts.ListBySession(ctx, sessionID, limit, offset)
}

func (s *CartService) recordReceipt(ctx context.Context, orderID uuid.UUID, sessionID string, outcome *checkout.Outcome) {
	if s.receipts == nil {
		return
	}

	receipt := &models.OrderReceipt{
		ID:         orderID,
		SessionID:  sessionID,
		ItemIDs:    models.StringArray(outcome.Request.ItemIDs),
		Subtotal:   outcome.Totals.Subtotal,
		CGST:       outcome.Totals.CGST,
		SGST:       outcome.Totals.SGST,
		GrandTotal: outcome.Totals.GrandTotal,
		Status:     models.ReceiptStatusCompleted,
		Message:    outcome.Message,
		CreatedAt:  outcome.FinishedAt,
	}
	if outcome.State == checkout.StateFailed {
		receipt.Status = models.ReceiptStatusFailed
		receipt.Message = outcome.Err.Error()
	}

	if err := s.receipts.Create(ctx, receipt); err != nil {
		s.logger.Errorw("failed to record order receipt", "order_id", orderID, "session_id", sessionID, "error", err)
	}
}

func (s *CartService) publishEvent(ctx context.Context, orderID uuid.UUID, sessionID string, outcome *checkout.Outcome) {
	event := messaging.OrderEvent{
		Type:       messaging.EventOrderPlaced,
		OrderID:    orderID.String(),
		SessionID:  sessionID,
		ItemIDs:    outcome.Request.ItemIDs,
		GrandTotal: outcome.Totals.GrandTotal.StringFixed(2),
		Message:    outcome.Message,
		OccurredAt: outcome.FinishedAt,
	}
	if outcome.State == checkout.StateFailed {
		event.Type = messaging.EventOrderFailed
		event.Message = outcome.Err.Error()
	}

	if err := s.publisher.Publish(ctx, s.opts.Topic, orderID.String(), event); err != nil {
		s.logger.Errorw("failed to publish order event", "order_id", orderID, "type", event.Type, "error", err)
	}
}

func buildCartResponse(sessionID string, items []models.Item) *CartResponse {
	if items == nil {
		items = []models.Item{}
	}
	return &CartResponse{
		SessionID: sessionID,
		Items:     items,
		Count:     len(items),
		Totals:    pricing.ComputeTotals(items).Display(),
	}
}

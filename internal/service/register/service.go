package register

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"coffeeshop-pos/internal/domain"
	"coffeeshop-pos/internal/metrics"
)

type catalog interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type committer interface {
	Commit(ctx context.Context, snapshot domain.OrderSnapshot) error
}

// Config carries the pricing settings every register shares.
type Config struct {
	TaxRateBP int64 // sales tax in basis points, 800 = 8%
	Currency  string
}

// Service owns one live order per terminal. Operations on the same
// terminal are serialized by a per-session lock; distinct terminals never
// block each other except inside the storage commit.
type Service struct {
	catalog catalog
	orders  committer
	cfg     Config
	metrics *metrics.Metrics
	logger  *log.Entry

	mu       sync.Mutex
	sessions map[string]*session
}

// session is a single register's live order. Not safe for concurrent use
// on its own; Service serializes access through the session lock.
type session struct {
	mu    sync.Mutex
	order domain.Order
}

func New(catalog catalog, orders committer, cfg Config, m *metrics.Metrics, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.WithField("component", "register")
	}
	if cfg.TaxRateBP < 0 {
		cfg.TaxRateBP = 0
	}
	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}
	return &Service{
		catalog:  catalog,
		orders:   orders,
		cfg:      cfg,
		metrics:  m,
		logger:   logger,
		sessions: make(map[string]*session),
	}
}

func (s *Service) session(terminal string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[terminal]
	if !ok {
		sess = &session{order: domain.Order{Status: domain.StatusOpen}}
		s.sessions[terminal] = sess
	}
	return sess
}

// AddItemInput describes one add: which product, how many, and the chosen
// option values (option name to choice label).
type AddItemInput struct {
	ProductID  string            `json:"productId"`
	Quantity   int               `json:"quantity"`
	Selections map[string]string `json:"selections,omitempty"`
}

// AddItem prices the product with its selections and puts it on the
// terminal's live order. An add matching an existing line's product and
// selections bumps that line's quantity instead of appending.
func (s *Service) AddItem(ctx context.Context, terminal string, in AddItemInput) (*domain.Order, error) {
	if in.Quantity < 1 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidQuantity, in.Quantity)
	}

	product, err := s.catalog.GetByID(ctx, in.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidProduct, in.ProductID)
		}
		return nil, err
	}
	if !product.Available {
		return nil, fmt.Errorf("%w: %q is unavailable", domain.ErrInvalidProduct, product.Name)
	}

	unitPrice, err := product.UnitPriceCents(in.Selections)
	if err != nil {
		return nil, err
	}

	sess := s.session(terminal)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.order.Status != domain.StatusOpen {
		return nil, domain.ErrOrderFinalized
	}

	merged := false
	for i := range sess.order.Lines {
		if sess.order.Lines[i].SameItem(in.ProductID, in.Selections) {
			sess.order.Lines[i].Quantity += in.Quantity
			merged = true
			break
		}
	}
	if !merged {
		sess.order.Lines = append(sess.order.Lines, domain.LineItem{
			ProductID:      product.ID,
			ProductName:    product.Name,
			Quantity:       in.Quantity,
			UnitPriceCents: unitPrice,
			Selections:     cloneSelections(in.Selections),
		})
	}
	sess.recompute(s.cfg.TaxRateBP)
	return sess.view(), nil
}

// SetQuantity replaces a line's quantity. Zero removes the line.
func (s *Service) SetQuantity(ctx context.Context, terminal string, line, quantity int) (*domain.Order, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidQuantity, quantity)
	}

	sess := s.session(terminal)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.order.Status != domain.StatusOpen {
		return nil, domain.ErrOrderFinalized
	}
	if line < 0 || line >= len(sess.order.Lines) {
		return nil, fmt.Errorf("%w: %d", domain.ErrLineOutOfRange, line)
	}

	if quantity == 0 {
		sess.order.Lines = append(sess.order.Lines[:line], sess.order.Lines[line+1:]...)
	} else {
		sess.order.Lines[line].Quantity = quantity
	}
	sess.recompute(s.cfg.TaxRateBP)
	return sess.view(), nil
}

// RemoveLine drops one line; the remaining lines keep their order.
func (s *Service) RemoveLine(ctx context.Context, terminal string, line int) (*domain.Order, error) {
	sess := s.session(terminal)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.order.Status != domain.StatusOpen {
		return nil, domain.ErrOrderFinalized
	}
	if line < 0 || line >= len(sess.order.Lines) {
		return nil, fmt.Errorf("%w: %d", domain.ErrLineOutOfRange, line)
	}

	sess.order.Lines = append(sess.order.Lines[:line], sess.order.Lines[line+1:]...)
	sess.recompute(s.cfg.TaxRateBP)
	return sess.view(), nil
}

// Clear discards every line of the terminal's live order.
func (s *Service) Clear(ctx context.Context, terminal string) (*domain.Order, error) {
	sess := s.session(terminal)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.order.Status != domain.StatusOpen {
		return nil, domain.ErrOrderFinalized
	}

	sess.order.Lines = nil
	sess.recompute(s.cfg.TaxRateBP)
	return sess.view(), nil
}

// Order returns a copy of the terminal's live order.
func (s *Service) Order(ctx context.Context, terminal string) *domain.Order {
	sess := s.session(terminal)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.view()
}

// CheckoutInput finalizes the live order.
type CheckoutInput struct {
	PaymentMethod string `json:"paymentMethod"`
	CashierName   string `json:"cashierName,omitempty"`
}

// Checkout freezes the live order into an immutable snapshot, commits it,
// and resets the terminal to a fresh empty order. If the commit fails the
// live order is left untouched so the cashier can retry without re-ringing
// anything.
func (s *Service) Checkout(ctx context.Context, terminal string, in CheckoutInput) (*domain.OrderSnapshot, error) {
	pay, err := domain.ParsePaymentMethod(in.PaymentMethod)
	if err != nil {
		return nil, err
	}

	sess := s.session(terminal)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.order.Status != domain.StatusOpen {
		return nil, domain.ErrOrderFinalized
	}
	if len(sess.order.Lines) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	now := time.Now().UTC()
	id := uuid.NewString()
	snap := domain.OrderSnapshot{
		ID:            id,
		Number:        orderNumber(now, id),
		Lines:         cloneLines(sess.order.Lines),
		SubtotalCents: sess.order.SubtotalCents,
		TaxCents:      sess.order.TaxCents,
		TotalCents:    sess.order.TotalCents,
		Currency:      s.cfg.Currency,
		PaymentMethod: pay,
		CashierName:   strings.TrimSpace(in.CashierName),
		Status:        domain.StatusFinalized,
		PlacedAt:      now,
	}

	start := time.Now()
	err = s.orders.Commit(ctx, snap)
	s.metrics.RecordCheckoutDuration(time.Since(start))
	if err != nil {
		s.metrics.RecordCommitFailure()
		s.logger.WithError(err).WithFields(log.Fields{"terminal": terminal, "number": snap.Number}).Error("checkout commit failed")
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	sess.order = domain.Order{Status: domain.StatusOpen}
	s.metrics.RecordOrderCommitted(snap.TotalCents)
	s.logger.WithFields(log.Fields{
		"terminal":    terminal,
		"number":      snap.Number,
		"total_cents": snap.TotalCents,
	}).Info("order checked out")
	return &snap, nil
}

// recompute rederives the money fields from the lines. Tax applies to the
// subtotal once, never per line, so line rounding cannot drift the total.
func (sess *session) recompute(taxRateBP int64) {
	var subtotal int64
	for _, l := range sess.order.Lines {
		subtotal += l.TotalCents()
	}
	sess.order.SubtotalCents = subtotal
	sess.order.TaxCents = domain.TaxCents(subtotal, taxRateBP)
	sess.order.TotalCents = subtotal + sess.order.TaxCents
}

// view copies the live order so callers can never reach mutable state.
func (sess *session) view() *domain.Order {
	o := sess.order
	o.Lines = cloneLines(sess.order.Lines)
	return &o
}

// orderNumber builds the human order number, e.g. ORD-20250825-4f9d1c.
func orderNumber(now time.Time, id string) string {
	suffix := strings.ReplaceAll(id, "-", "")
	if len(suffix) > 6 {
		suffix = suffix[:6]
	}
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

func cloneLines(lines []domain.LineItem) []domain.LineItem {
	if lines == nil {
		return nil
	}
	out := make([]domain.LineItem, len(lines))
	copy(out, lines)
	for i := range out {
		out[i].Selections = cloneSelections(out[i].Selections)
	}
	return out
}

func cloneSelections(sel map[string]string) map[string]string {
	if len(sel) == 0 {
		return nil
	}
	out := make(map[string]string, len(sel))
	for k, v := range sel {
		out[k] = v
	}
	return out
}

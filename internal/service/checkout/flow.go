package checkout

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"zizi-storefront/internal/domain"
	"zizi-storefront/internal/payment"
)

// GenericFailure is shown when a failure carries no message of its own.
const GenericFailure = "Checkout failed. Please try again."

// ErrInProgress is returned when Pay is called while a payment is pending.
var ErrInProgress = errors.New("checkout already in progress")

type cartStore interface {
	Items() []domain.CartItem
	Clear(ctx context.Context)
}

type sessionCreator interface {
	CreateSession(ctx context.Context, items []domain.CartItem, origin string) (*payment.Session, error)
}

// FlowState is what the checkout page renders.
type FlowState struct {
	Processing  bool   `json:"processing"`
	Error       string `json:"error,omitempty"`
	RedirectURL string `json:"redirectUrl,omitempty"`
}

// Flow drives one visitor's checkout: paying hands off to the processor,
// and reaching the thank-you page empties the cart.
type Flow struct {
	mu       sync.Mutex
	cart     cartStore
	sessions sessionCreator
	origin   string
	state    FlowState
	logger   *zap.Logger
}

func NewFlow(cart cartStore, sessions sessionCreator, origin string, logger *zap.Logger) *Flow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Flow{cart: cart, sessions: sessions, origin: origin, logger: logger}
}

// Pay requests a session for the current cart and returns its redirect URL.
// On failure the message is kept for display and the cart is untouched, so
// the buyer can retry.
func (f *Flow) Pay(ctx context.Context) (string, error) {
	f.mu.Lock()
	if f.state.Processing {
		f.mu.Unlock()
		return "", ErrInProgress
	}
	f.state = FlowState{Processing: true}
	f.mu.Unlock()

	session, err := f.sessions.CreateSession(ctx, f.cart.Items(), f.origin)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = FlowState{Error: failureMessage(err)}
		f.logger.Warn("checkout: payment not started", zap.Error(err))
		return "", err
	}
	f.state = FlowState{RedirectURL: session.URL}
	return session.URL, nil
}

// Complete finishes checkout after the processor redirects back.
func (f *Flow) Complete(ctx context.Context) {
	f.cart.Clear(ctx)
	f.mu.Lock()
	f.state = FlowState{}
	f.mu.Unlock()
	f.logger.Info("checkout: completed")
}

func (f *Flow) State() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func failureMessage(err error) string {
	var cerr *Error
	switch {
	case errors.As(err, &cerr) && cerr.Message != "":
		return cerr.Message
	case errors.Is(err, ErrEmptyCart):
		return "No items in cart"
	default:
		return GenericFailure
	}
}

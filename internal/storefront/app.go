package storefront

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"zizi-storefront/internal/domain"
	"zizi-storefront/internal/payment"
	"zizi-storefront/internal/repository/kv"
	"zizi-storefront/internal/service/auth"
	"zizi-storefront/internal/service/cart"
	"zizi-storefront/internal/service/checkout"
	"zizi-storefront/internal/service/navigation"
)

type productFinder interface {
	Get(ctx context.Context, slug string) (*domain.Product, error)
}

type sessionCreator interface {
	CreateSession(ctx context.Context, items []domain.CartItem, origin string) (*payment.Session, error)
}

// Deps are shared by every visitor's App.
type Deps struct {
	Storage    kv.Repository
	Products   productFinder
	Checkout   sessionCreator
	Origin     string
	LoginDelay time.Duration
	Themes     navigation.ThemeObserver
	Logger     *zap.Logger
}

// Event is pushed to subscribers whenever part of the app state changes.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

const (
	EventCart    = "cart"
	EventView    = "view"
	EventSession = "session"
)

// App is one visitor's storefront: a cart, a session, a navigation
// controller and a checkout flow over the visitor's local storage.
type App struct {
	VisitorID string
	Cart      *cart.Store
	Auth      *auth.Service
	Nav       *navigation.Controller
	History   *navigation.MemoryHistory
	Checkout  *checkout.Flow

	products productFinder
	logger   *zap.Logger

	mu       sync.Mutex
	lastSeen time.Time
	lastView navigation.View
	subs     map[int]func(Event)
	nextSub  int
	stops    []func()
}

// NewApp builds the app for visitorID and opens it at initialPath.
func NewApp(ctx context.Context, visitorID, initialPath string, deps Deps) *App {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("visitor_id", visitorID))
	storage := kv.Scope(deps.Storage, visitorID)

	a := &App{
		VisitorID: visitorID,
		products:  deps.Products,
		logger:    logger,
		lastSeen:  time.Now(),
		subs:      make(map[int]func(Event)),
	}
	a.Cart = cart.New(ctx, storage, logger.Named("cart"))
	a.Auth = auth.New(ctx, storage, deps.LoginDelay, logger.Named("auth"))
	a.History = navigation.NewMemoryHistory(initialPath)

	opts := []navigation.Option{
		navigation.WithGuard(a.allowed),
		navigation.WithLogger(logger.Named("navigation")),
	}
	if deps.Themes != nil {
		opts = append(opts, navigation.WithThemes(deps.Themes))
	}
	a.Nav = navigation.NewController(a.History, opts...)
	a.Checkout = checkout.NewFlow(a.Cart, deps.Checkout, deps.Origin, logger.Named("checkout"))

	a.lastView = a.Nav.State().View
	if a.lastView == navigation.ThankYou {
		a.Checkout.Complete(ctx)
	}

	a.stops = append(a.stops,
		a.Cart.Subscribe(func(items []domain.CartItem) {
			a.emit(Event{Type: EventCart, Data: Summarize(items)})
		}),
		a.Auth.Subscribe(func(u *domain.UserSession) {
			a.emit(Event{Type: EventSession, Data: u})
			if u == nil || u.IsGuest {
				a.Nav.Recheck()
			}
		}),
		a.Nav.Subscribe(a.onNavigate),
	)
	return a
}

func (a *App) allowed(view navigation.View) bool {
	return !view.IsAccount() || a.Auth.IsAuthenticated()
}

func (a *App) onNavigate(state navigation.State) {
	a.mu.Lock()
	entered := state.View == navigation.ThankYou && a.lastView != navigation.ThankYou
	a.lastView = state.View
	a.mu.Unlock()

	if entered {
		a.Checkout.Complete(context.Background())
	}
	a.emit(Event{Type: EventView, Data: state})
}

// AddProduct adds one unit of the product with slug to the cart and opens
// the cart page.
func (a *App) AddProduct(ctx context.Context, slug string) (*domain.Product, error) {
	p, err := a.products.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	a.Cart.AddItem(ctx, p.CartItem(1))
	a.Nav.NavigateTo(navigation.Cart)
	return p, nil
}

// Page is everything needed to render the current view.
type Page struct {
	State    navigation.State    `json:"state"`
	Product  *domain.Product     `json:"product,omitempty"`
	NotFound bool                `json:"notFound,omitempty"`
	Session  *domain.UserSession `json:"session"`
	Cart     Summary             `json:"cart"`
	Checkout checkout.FlowState  `json:"checkout"`
}

// Page resolves the current view. A product slug that matches nothing
// yields a not-found page rather than an error.
func (a *App) Page(ctx context.Context) (Page, error) {
	page := Page{
		State:    a.Nav.State(),
		Session:  a.Auth.Current(),
		Cart:     Summarize(a.Cart.Items()),
		Checkout: a.Checkout.State(),
	}
	if page.State.View != navigation.ProductDetail {
		return page, nil
	}
	p, err := a.products.Get(ctx, page.State.ProductSlug)
	switch {
	case err == nil:
		page.Product = p
	case errors.Is(err, domain.ErrNotFound):
		page.NotFound = true
	default:
		return Page{}, err
	}
	return page, nil
}

// Summary is the cart as shown in the navbar and cart page.
type Summary struct {
	Items    []domain.CartItem `json:"items"`
	Count    int               `json:"count"`
	Subtotal float64           `json:"subtotal"`
}

func Summarize(items []domain.CartItem) Summary {
	if items == nil {
		items = []domain.CartItem{}
	}
	count := 0
	for _, it := range items {
		count += it.Quantity
	}
	return Summary{Items: items, Count: count, Subtotal: cart.Subtotal(items)}
}

// Subscribe registers fn for cart, view and session events.
func (a *App) Subscribe(fn func(Event)) func() {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.nextSub
	a.nextSub++
	a.subs[id] = fn
	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.subs, id)
	}
}

func (a *App) emit(ev Event) {
	a.mu.Lock()
	subs := make([]func(Event), 0, len(a.subs))
	for _, fn := range a.subs {
		subs = append(subs, fn)
	}
	a.mu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}

func (a *App) touch(now time.Time) {
	a.mu.Lock()
	a.lastSeen = now
	a.mu.Unlock()
}

func (a *App) idleSince() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastSeen
}

// Close detaches the app's internal subscriptions.
func (a *App) Close() {
	for _, stop := range a.stops {
		stop()
	}
	a.Nav.Close()
}

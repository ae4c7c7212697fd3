package navigation

import (
	"sync"

	"go.uber.org/zap"
)

// MobileBreakpoint is the viewport width below which the narrow docking
// threshold applies.
const MobileBreakpoint = 768

const (
	narrowThreshold = 0.6
	wideThreshold   = 0.4
)

// State is the view state consumed by rendering.
type State struct {
	View           View    `json:"view"`
	ProductSlug    string  `json:"productSlug,omitempty"`
	Path           string  `json:"path"`
	ScrollProgress float64 `json:"scrollProgress"`
	Theme          Theme   `json:"theme"`
	Docked         bool    `json:"docked"`
}

// Guard decides whether view may be shown. A rejected view sends the
// visitor home.
type Guard func(view View) bool

type Option func(*Controller)

func WithScroller(s Scroller) Option {
	return func(c *Controller) { c.scroller = s }
}

func WithThemes(o ThemeObserver) Option {
	return func(c *Controller) { c.themes = o }
}

func WithGuard(g Guard) Option {
	return func(c *Controller) { c.guard = g }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// Controller keeps the current view and the history location in sync and
// derives scroll progress, theme and docking for the home page.
type Controller struct {
	mu       sync.Mutex
	history  History
	scroller Scroller
	themes   ThemeObserver
	guard    Guard
	logger   *zap.Logger

	view     View
	slug     string
	progress float64
	theme    Theme
	width    float64
	height   float64

	subs    map[int]func(State)
	nextSub int
	stopPop func()
}

// NewController derives the initial view from history's location. When
// history implements PopNotifier the controller follows back/forward moves.
func NewController(history History, opts ...Option) *Controller {
	c := &Controller{
		history: history,
		themes:  DefaultSectionThemes(),
		logger:  zap.NewNop(),
		width:   1280,
		height:  800,
		subs:    make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.mu.Lock()
	c.applyLocked(Resolve(history.Location()))
	c.mu.Unlock()
	c.enforceGuard()

	if p, ok := history.(PopNotifier); ok {
		c.stopPop = p.OnPop(c.HandleLocationChange)
	}
	return c
}

// Close stops following history.
func (c *Controller) Close() {
	if c.stopPop != nil {
		c.stopPop()
	}
}

// NavigateTo pushes the address of view and scrolls to top. Product detail
// needs a slug, so it is routed to the collection here.
func (c *Controller) NavigateTo(view View) {
	if view == ProductDetail {
		view = Collection
	}
	if _, ok := viewPaths[view]; !ok {
		view = Home
	}
	c.navigate(view, "")
}

// NavigateToProduct pushes the product address for slug and scrolls to top.
func (c *Controller) NavigateToProduct(slug string) {
	c.navigate(ProductDetail, slug)
}

func (c *Controller) navigate(view View, slug string) {
	if c.guard != nil && !c.guard(view) {
		c.logger.Debug("navigation: view rejected", zap.String("view", string(view)))
		view, slug = Home, ""
	}
	path := PathFor(view, slug)
	view, slug = Resolve(path)

	c.mu.Lock()
	c.history.Push(path)
	c.applyLocked(view, slug)
	state := c.stateLocked()
	c.mu.Unlock()

	if c.scroller != nil {
		c.scroller.ScrollToTop()
	}
	c.logger.Debug("navigation: navigated", zap.String("view", string(view)), zap.String("path", path))
	c.publish(state)
}

// HandleLocationChange re-derives the view from an address that changed
// outside the controller, such as back/forward or direct entry.
func (c *Controller) HandleLocationChange(path string) {
	view, slug := Resolve(path)
	if c.guard != nil && !c.guard(view) {
		c.navigate(Home, "")
		return
	}
	c.mu.Lock()
	c.applyLocked(view, slug)
	state := c.stateLocked()
	c.mu.Unlock()
	c.publish(state)
}

// SetViewport records the viewport size used for the docking threshold.
func (c *Controller) SetViewport(width, height float64) {
	c.mu.Lock()
	if width > 0 {
		c.width = width
	}
	if height > 0 {
		c.height = height
	}
	state := c.stateLocked()
	c.mu.Unlock()
	c.publish(state)
}

// UpdateScroll converts a vertical scroll offset into docking progress.
// Offsets are ignored away from the home page.
func (c *Controller) UpdateScroll(offset float64) {
	c.mu.Lock()
	if c.view != Home {
		c.mu.Unlock()
		return
	}
	c.progress = scrollProgress(offset, c.thresholdLocked())
	state := c.stateLocked()
	c.mu.Unlock()
	c.publish(state)
}

// ObserveSection sets the theme from the section centred in the viewport.
// It has no effect away from the home page or for unknown sections.
func (c *Controller) ObserveSection(sectionID string) {
	c.mu.Lock()
	if c.view != Home || c.themes == nil {
		c.mu.Unlock()
		return
	}
	theme, ok := c.themes.Observe(sectionID)
	if !ok {
		c.mu.Unlock()
		return
	}
	c.theme = theme
	state := c.stateLocked()
	c.mu.Unlock()
	c.publish(state)
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Subscribe registers fn to receive every state change.
func (c *Controller) Subscribe(fn func(State)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// enforceGuard sends the visitor home when the current view is no longer
// allowed, e.g. after signing out on an account page.
func (c *Controller) enforceGuard() {
	if c.guard == nil {
		return
	}
	c.mu.Lock()
	view := c.view
	c.mu.Unlock()
	if !c.guard(view) {
		c.navigate(Home, "")
	}
}

// Recheck re-applies the guard to the current view.
func (c *Controller) Recheck() {
	c.enforceGuard()
}

func (c *Controller) applyLocked(view View, slug string) {
	if view != ProductDetail {
		slug = ""
	}
	enteringHome := view == Home && c.view != Home
	c.view = view
	c.slug = slug
	c.progress = 0
	switch {
	case view != Home:
		c.theme = Light
	case enteringHome || c.theme == "":
		c.theme = Light
		if c.themes != nil {
			if t, ok := c.themes.Observe(FirstSection); ok {
				c.theme = t
			}
		}
	}
}

func (c *Controller) thresholdLocked() float64 {
	if c.width < MobileBreakpoint {
		return c.height * narrowThreshold
	}
	return c.height * wideThreshold
}

func (c *Controller) stateLocked() State {
	return State{
		View:           c.view,
		ProductSlug:    c.slug,
		Path:           c.history.Location(),
		ScrollProgress: c.progress,
		Theme:          c.theme,
		Docked:         c.progress == 1 || c.view != Home,
	}
}

func (c *Controller) publish(state State) {
	c.mu.Lock()
	subs := make([]func(State), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()
	for _, fn := range subs {
		fn(state)
	}
}

func scrollProgress(offset, threshold float64) float64 {
	if threshold <= 0 {
		if offset > 0 {
			return 1
		}
		return 0
	}
	p := offset / threshold
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}

package navigation

import "sync"

// History is the address bar and session history the controller writes to.
type History interface {
	Push(path string)
	Location() string
}

// PopNotifier is implemented by histories that report back/forward moves.
type PopNotifier interface {
	OnPop(fn func(path string)) (unsubscribe func())
}

// Scroller moves the viewport.
type Scroller interface {
	ScrollToTop()
}

// MemoryHistory is a History kept in memory, with back and forward.
type MemoryHistory struct {
	mu      sync.Mutex
	entries []string
	index   int

	listeners map[int]func(string)
	nextID    int
}

func NewMemoryHistory(initial string) *MemoryHistory {
	if initial == "" {
		initial = "/"
	}
	return &MemoryHistory{
		entries:   []string{initial},
		listeners: make(map[int]func(string)),
	}
}

// Push adds path after the current entry, dropping any forward entries.
func (h *MemoryHistory) Push(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries[:h.index+1], path)
	h.index = len(h.entries) - 1
}

func (h *MemoryHistory) Location() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index]
}

// Back moves one entry back and notifies listeners. It reports false at
// the first entry.
func (h *MemoryHistory) Back() bool {
	return h.move(-1)
}

// Forward moves one entry forward and notifies listeners. It reports false
// at the last entry.
func (h *MemoryHistory) Forward() bool {
	return h.move(1)
}

// Len is the number of entries.
func (h *MemoryHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

func (h *MemoryHistory) OnPop(fn func(path string)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners, id)
	}
}

func (h *MemoryHistory) move(delta int) bool {
	h.mu.Lock()
	next := h.index + delta
	if next < 0 || next >= len(h.entries) {
		h.mu.Unlock()
		return false
	}
	h.index = next
	path := h.entries[next]
	listeners := make([]func(string), 0, len(h.listeners))
	for _, fn := range h.listeners {
		listeners = append(listeners, fn)
	}
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(path)
	}
	return true
}

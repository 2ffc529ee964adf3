package booking

import (
	"sync"
	"time"
)

const defaultToastTTL = 3500 * time.Millisecond

// Toast is one transient feedback message.
type Toast struct {
	Kind    string
	Message string
}

// Toaster shows fire-and-forget feedback with auto-dismiss. A new toast
// replaces the current one and restarts the dismiss timer; toasts never
// stack.
type Toaster struct {
	ttl time.Duration

	mu      sync.Mutex
	current *Toast
	timer   *time.Timer
}

func NewToaster(ttl time.Duration) *Toaster {
	if ttl <= 0 {
		ttl = defaultToastTTL
	}
	return &Toaster{ttl: ttl}
}

// Notify implements domain.Notifier.
func (t *Toaster) Notify(kind, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	toast := &Toast{Kind: kind, Message: message}
	t.current = toast
	t.timer = time.AfterFunc(t.ttl, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		// Only dismiss if no newer toast replaced this one.
		if t.current == toast {
			t.current = nil
			t.timer = nil
		}
	})
}

// Current returns the visible toast, or nil after dismissal.
func (t *Toaster) Current() *Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

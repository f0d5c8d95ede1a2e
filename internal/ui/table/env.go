package table

import (
	"sync"

	"github.com/atotto/clipboard"
)

// systemClipboard writes through to the OS clipboard.
type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// resizeNotifier fans a debounced terminal resize out to subscribers.
type resizeNotifier struct {
	mu   sync.Mutex
	next int
	subs map[int]func()
}

func newResizeNotifier() *resizeNotifier {
	return &resizeNotifier{subs: make(map[int]func())}
}

// Subscribe registers fn and returns its cancel function. Cancel may be
// called more than once.
func (r *resizeNotifier) Subscribe(fn func()) (cancel func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.next
	r.next++
	r.subs[id] = fn
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subs, id)
	}
}

// Notify calls every subscriber.
func (r *resizeNotifier) Notify() {
	r.mu.Lock()
	fns := make([]func(), 0, len(r.subs))
	for _, fn := range r.subs {
		fns = append(fns, fn)
	}
	r.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Len returns the number of live subscriptions.
func (r *resizeNotifier) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

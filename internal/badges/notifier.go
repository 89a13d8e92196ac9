package badges

import "sync"

// NewlyEarned is a pending toast: one tier awarded by one award pass,
// consumed exactly once by Drain.
type NewlyEarned struct {
	BadgeID    ID          `json:"badge_id"`
	Tier       Tier        `json:"tier"`
	Definition *Definition `json:"definition"`
}

// Notifier owns the in-memory toast queue and the modal suppression counter.
// It is created once by the composition root and injected into whatever drives
// notification display; there is no package-level instance. State lives for
// the process only and resets on restart.
type Notifier struct {
	mu         sync.Mutex
	pending    []NewlyEarned
	modalDepth int
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

// enqueue appends newly earned tiers in award order.
func (n *Notifier) enqueue(earned ...NewlyEarned) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending = append(n.pending, earned...)
}

// Drain atomically returns the pending toasts and empties the queue. An
// immediate second call returns nil.
func (n *Notifier) Drain() []NewlyEarned {
	n.mu.Lock()
	defer n.mu.Unlock()
	pending := n.pending
	n.pending = nil
	return pending
}

// Pending reports the queue length without consuming it.
func (n *Notifier) Pending() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.pending)
}

// PushModal records that a full-screen overlay became active. Modals nest:
// N pushes need N pops.
func (n *Notifier) PushModal() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.modalDepth++
}

// PopModal records that a full-screen overlay was dismissed. Pops without a
// matching push are silently ignored; the depth never goes negative.
func (n *Notifier) PopModal() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.modalDepth > 0 {
		n.modalDepth--
	}
}

// ModalActive reports whether any overlay is still on screen, meaning toast
// display should be deferred.
func (n *Notifier) ModalActive() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.modalDepth > 0
}

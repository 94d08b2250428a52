package spell

import (
	"sync"

	"github.com/google/uuid"
)

// LanguageChangedFunc is called after the checker switched language and
// rechecked the document.
type LanguageChangedFunc func(code string)

// EnabledChangedFunc is called after checking was switched on or off.
type EnabledChangedFunc func(enabled bool)

// Subscription identifies a registered callback.
type Subscription struct {
	id     uuid.UUID
	cancel func()
}

// ID returns the unique subscription identifier.
func (s Subscription) ID() uuid.UUID {
	return s.id
}

// Cancel removes the callback. Cancelling twice is harmless.
func (s Subscription) Cancel() {
	if s.cancel != nil {
		s.cancel()
	}
}

type observer[F any] struct {
	id uuid.UUID
	fn F
}

// observers is an ordered callback list. Callbacks run in registration
// order on the goroutine that changed the state.
type observers[F any] struct {
	mu   sync.Mutex
	list []observer[F]
}

func (o *observers[F]) add(fn F) Subscription {
	id := uuid.New()
	o.mu.Lock()
	o.list = append(o.list, observer[F]{id: id, fn: fn})
	o.mu.Unlock()
	return Subscription{id: id, cancel: func() { o.remove(id) }}
}

func (o *observers[F]) remove(id uuid.UUID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, ob := range o.list {
		if ob.id == id {
			o.list = append(o.list[:i:i], o.list[i+1:]...)
			return
		}
	}
}

func (o *observers[F]) each(call func(F)) {
	o.mu.Lock()
	list := make([]observer[F], len(o.list))
	copy(list, o.list)
	o.mu.Unlock()
	for _, ob := range list {
		call(ob.fn)
	}
}

// OnLanguageChanged registers fn to run after every language switch.
func (c *Checker) OnLanguageChanged(fn LanguageChangedFunc) Subscription {
	return c.languageObservers.add(fn)
}

// OnEnabledChanged registers fn to run after checking is switched on or
// off.
func (c *Checker) OnEnabledChanged(fn EnabledChangedFunc) Subscription {
	return c.enabledObservers.add(fn)
}

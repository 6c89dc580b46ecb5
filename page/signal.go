package page

import "sync"

// Signal is the refresh signal shared by sibling views. Only changes of its
// value carry meaning.
type Signal struct {
	mu     sync.Mutex
	value  uint64
	nextID int
	subs   []subscriber
}

type subscriber struct {
	id int
	fn func(uint64)
}

// Value returns the current counter.
func (s *Signal) Value() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Subscribe registers fn to be called after every Bump, in subscription
// order, on the goroutine that bumped. The returned func unsubscribes.
func (s *Signal) Subscribe(fn func(uint64)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Bump increments the counter and notifies subscribers with the new value.
func (s *Signal) Bump() uint64 {
	s.mu.Lock()
	s.value++
	v := s.value
	subs := append([]subscriber(nil), s.subs...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(v)
	}
	return v
}

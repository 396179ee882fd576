package exporter

import (
	"sync"
)

// Subscription is an ordered stream of emitted states.
// Emission never blocks: states queue until the reader takes them.
type Subscription struct {
	out     chan State
	mu      sync.Mutex
	queue   []State
	wake    chan struct{}
	stop    chan struct{}
	stopped sync.Once
	onClose func(*Subscription)
}

func newSubscription(initial State, onClose func(*Subscription)) *Subscription {
	s := &Subscription{
		out:     make(chan State),
		queue:   []State{initial},
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		onClose: onClose,
	}

	go s.pump()

	return s
}

// C returns the channel states are delivered on. It is closed after Close.
func (s *Subscription) C() <-chan State {
	return s.out
}

// Close stops delivery. Queued states that were not read are dropped.
func (s *Subscription) Close() {
	s.stopped.Do(func() {
		close(s.stop)

		if s.onClose != nil {
			s.onClose(s)
		}
	})
}

func (s *Subscription) push(state State) {
	s.mu.Lock()
	s.queue = append(s.queue, state)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Subscription) pump() {
	defer close(s.out)

	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()

			select {
			case <-s.wake:
				continue
			case <-s.stop:
				return
			}
		}

		next := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- next:
		case <-s.stop:
			return
		}
	}
}

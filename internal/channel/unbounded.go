package channel

import (
	"sync"

	"github.com/Rheadawn/stars/internal/queue"
)

// Unbounded is a channel with no capacity limit. Sends never block; a
// pump goroutine drains the backing queue into the receive side. The
// loader stage uses it so file decoding is never throttled by the raw
// buffer.
type Unbounded[T any] struct {
	q      *queue.Queue[T]
	out    chan T
	wake   chan struct{}
	closed chan struct{}
	once   sync.Once
}

// NewUnbounded creates a new unbounded channel and starts its pump.
func NewUnbounded[T any]() *Unbounded[T] {
	u := &Unbounded[T]{
		q:      queue.New[T](),
		out:    make(chan T),
		wake:   make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
	go u.pump()
	return u
}

// Send enqueues a value without blocking.
func (u *Unbounded[T]) Send(v T) {
	u.q.Push(v)
	select {
	case u.wake <- struct{}{}:
	default:
	}
}

// Receive returns the receive-only channel.
func (u *Unbounded[T]) Receive() <-chan T {
	return u.out
}

// Len returns the number of items waiting in the backing queue.
func (u *Unbounded[T]) Len() int {
	return u.q.Len()
}

// Close stops the pump after the queue drains and closes the receive
// side.
func (u *Unbounded[T]) Close() {
	u.once.Do(func() {
		close(u.closed)
		select {
		case u.wake <- struct{}{}:
		default:
		}
	})
}

func (u *Unbounded[T]) pump() {
	defer close(u.out)
	for {
		item, ok := u.q.PopOK()
		if !ok {
			select {
			case <-u.wake:
				continue
			case <-u.closed:
				// Drain whatever arrived before the close.
				for {
					item, ok := u.q.PopOK()
					if !ok {
						return
					}
					u.out <- item
				}
			}
		}
		u.out <- item
	}
}

// Package roundtrip implements a bounded request/reply exchange over a channel.
//
// A Sender enqueues a request paired with a single-use reply slot; the task
// owning the Receiver pulls requests in FIFO order and answers each of them
// exactly once. Both the enqueue and the wait for the reply are bounded, so a
// caller never blocks on a busy or dead serving task for longer than
// SendTimeout + ReplyTimeout.
package roundtrip

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const (
	// SendTimeout is how long Roundtrip waits for room in a full queue
	SendTimeout = 100 * time.Millisecond

	// ReplyTimeout is how long Roundtrip waits for the serving task to reply
	ReplyTimeout = 500 * time.Millisecond
)

var (
	ErrSendFailed  = errors.New("request sending failed")
	ErrReplyFailed = errors.New("reply receiving failed")
)

// Request is a single roundtrip request as seen by the serving task
type Request[S, R any] struct {
	Payload S

	reply chan R
	once  sync.Once
}

// Reply delivers the result to the waiting caller. Only the first call to
// Reply or Drop has an effect.
func (r *Request[S, R]) Reply(result R) {
	r.once.Do(func() {
		r.reply <- result
		close(r.reply)
	})
}

// Drop releases the reply slot without a result; the caller gets ErrReplyFailed
func (r *Request[S, R]) Drop() {
	r.once.Do(func() {
		close(r.reply)
	})
}

// Sender is the calling side of a roundtrip channel. It is safe for
// concurrent use.
type Sender[S, R any] struct {
	queue chan *Request[S, R]
	done  chan struct{}

	sendTimeout  time.Duration
	replyTimeout time.Duration

	// mu guards closed and the send into queue
	mu     sync.RWMutex
	closed bool
}

// Receiver is the serving side of a roundtrip channel
type Receiver[S, R any] struct {
	queue chan *Request[S, R]
	done  chan struct{}

	closeOnce sync.Once
}

// New opens a roundtrip channel whose queue holds up to capacity pending requests
func New[S, R any](capacity int) (*Sender[S, R], *Receiver[S, R]) {
	queue := make(chan *Request[S, R], capacity)
	done := make(chan struct{})

	return &Sender[S, R]{
			queue:        queue,
			done:         done,
			sendTimeout:  SendTimeout,
			replyTimeout: ReplyTimeout,
		}, &Receiver[S, R]{
			queue: queue,
			done:  done,
		}
}

// Roundtrip sends request to the serving task and waits for its reply.
//
// A single attempt is made: ErrSendFailed is returned when the queue stays
// full for SendTimeout or the receiver is gone, ErrReplyFailed when no reply
// arrives within ReplyTimeout or the request was dropped unanswered.
func (s *Sender[S, R]) Roundtrip(ctx context.Context, request S) (R, error) {
	var zero R

	req := &Request[S, R]{
		Payload: request,
		reply:   make(chan R, 1),
	}

	// Receiver side has been abandoned; don't bother queueing
	select {
	case <-s.done:
		return zero, ErrSendFailed
	default:
	}

	if err := s.send(ctx, req); err != nil {
		return zero, err
	}

	replyTimer := time.NewTimer(s.replyTimeout)
	defer replyTimer.Stop()

	select {
	case result, ok := <-req.reply:
		if !ok {
			return zero, errors.Wrap(ErrReplyFailed, "request dropped without reply")
		}

		return result, nil
	case <-replyTimer.C:
		return zero, errors.Wrap(ErrReplyFailed, "timed out")
	case <-ctx.Done():
		return zero, errors.Wrap(ErrReplyFailed, ctx.Err().Error())
	}
}

func (s *Sender[S, R]) send(ctx context.Context, req *Request[S, R]) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return errors.Wrap(ErrSendFailed, "sender closed")
	}

	sendTimer := time.NewTimer(s.sendTimeout)
	defer sendTimer.Stop()

	select {
	case s.queue <- req:
		return nil
	case <-s.done:
		return ErrSendFailed
	case <-sendTimer.C:
		return errors.Wrap(ErrSendFailed, "queue full")
	case <-ctx.Done():
		return errors.Wrap(ErrSendFailed, ctx.Err().Error())
	}
}

// Close signals the serving task that no more requests will be sent.
// Roundtrips started afterwards fail with ErrSendFailed; Close waits for
// sends already in progress.
func (s *Sender[S, R]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.closed = true
	close(s.queue)
}

// Requests returns the FIFO stream of pending requests. The stream ends when
// the Sender is closed.
func (r *Receiver[S, R]) Requests() <-chan *Request[S, R] {
	return r.queue
}

// Close abandons the queue. New roundtrips fail with ErrSendFailed and every
// request still queued is dropped.
func (r *Receiver[S, R]) Close() {
	r.closeOnce.Do(func() {
		close(r.done)

		for {
			select {
			case req, ok := <-r.queue:
				if !ok {
					return
				}

				req.Drop()
			default:
				return
			}
		}
	})
}

// Offer is a bounded fire-and-forget send: it waits up to timeout for room
// in ch and returns ErrSendFailed if none frees up.
func Offer[T any](ctx context.Context, ch chan<- T, v T, timeout time.Duration) error {
	select {
	case ch <- v:
		return nil
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ch <- v:
		return nil
	case <-timer.C:
		return ErrSendFailed
	case <-ctx.Done():
		return ctx.Err()
	}
}

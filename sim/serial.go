package sim

import (
	"errors"
	"io"
	"sync"
	"time"
)

// ErrNoData is returned by Serial.ReadByte when nothing is buffered
var ErrNoData = errors.New("no data available")

// Serial is a UART receive buffer. Bytes are added with Write (or Feed) and consumed with ReadByte,
// which never blocks for longer than PollInterval.
type Serial struct {
	// PollInterval is how long ReadByte waits for data before returning ErrNoData. It keeps a
	// host simulation from spinning.
	PollInterval time.Duration

	mtx    sync.Mutex
	buf    []byte
	notify chan struct{}
	done   chan struct{}
	once   sync.Once
}

func NewSerial() *Serial {
	return &Serial{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Write appends bytes to the receive buffer
func (s *Serial) Write(p []byte) (int, error) {
	s.mtx.Lock()
	s.buf = append(s.buf, p...)
	s.mtx.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
	return len(p), nil
}

// Feed copies r into the receive buffer in the background. Done is closed once r is exhausted.
func (s *Serial) Feed(r io.Reader) {
	go func() {
		defer s.close()
		_, _ = io.Copy(s, r)
	}()
}

// Done is closed after a Feed source reaches EOF
func (s *Serial) Done() <-chan struct{} {
	return s.done
}

// Buffered returns the number of unread bytes
func (s *Serial) Buffered() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return len(s.buf)
}

func (s *Serial) ReadByte() (byte, error) {
	b, ok := s.pop()
	if ok {
		return b, nil
	}
	if s.PollInterval <= 0 {
		return 0, ErrNoData
	}

	select {
	case <-s.notify:
	case <-time.After(s.PollInterval):
	}

	b, ok = s.pop()
	if !ok {
		return 0, ErrNoData
	}
	return b, nil
}

func (s *Serial) pop() (byte, bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if len(s.buf) == 0 {
		return 0, false
	}
	b := s.buf[0]
	s.buf = s.buf[1:]
	return b, true
}

func (s *Serial) close() {
	s.once.Do(func() { close(s.done) })
}

package commands

import (
	"time"

	"github.com/bigfootbot/bigfootbot"
)

const (
	// DefaultLineTimeout matches the serial stream timeout the firmware has always used
	DefaultLineTimeout = time.Second

	// MaxLineLength bounds the input buffer. No command is longer than 2 bytes, so longer lines
	// are dropped.
	MaxLineLength = 64
)

// LineReader accumulates bytes into newline terminated lines
type LineReader struct {
	Timeout time.Duration

	buf        []byte
	lastByte   time.Time
	discarding bool
}

// Add appends a byte. It returns the completed line, without the terminator, when b ends one.
func (lr *LineReader) Add(b byte, now time.Time) (string, bool) {
	lr.lastByte = now

	if b == bigfootbot.LineTerminator {
		if lr.discarding {
			lr.discarding = false
			return "", false
		}
		line := string(lr.buf)
		lr.buf = lr.buf[:0]
		return line, true
	}

	if lr.discarding {
		return "", false
	}
	if len(lr.buf) >= MaxLineLength {
		lr.buf = lr.buf[:0]
		lr.discarding = true
		return "", false
	}

	lr.buf = append(lr.buf, b)
	return "", false
}

// Expire returns the buffered partial line if no byte arrived within Timeout
func (lr *LineReader) Expire(now time.Time) (string, bool) {
	if lr.Timeout <= 0 {
		return "", false
	}
	if len(lr.buf) == 0 && !lr.discarding {
		return "", false
	}
	if now.Sub(lr.lastByte) < lr.Timeout {
		return "", false
	}

	if lr.discarding {
		lr.discarding = false
		return "", false
	}
	line := string(lr.buf)
	lr.buf = lr.buf[:0]
	return line, true
}

// Pending returns the number of buffered bytes
func (lr *LineReader) Pending() int {
	return len(lr.buf)
}

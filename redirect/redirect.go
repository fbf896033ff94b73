package redirect

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nodemobile/bridge/errors"
)

// DefaultTag is the tag attached to forwarded stream lines.
const DefaultTag = "engine"

// chunkSize is the fixed read size per forwarded line. Writes larger than
// this arrive as multiple log lines.
const chunkSize = 2048

// Redirector replaces the process's stdout/stderr descriptors with pipes
// whose readers forward each chunk to the sink.
type Redirector struct {
	sink Sink
	tag  string
}

// New creates a redirector forwarding to sink under DefaultTag.
func New(sink Sink) *Redirector {
	return NewWithTag(sink, DefaultTag)
}

// NewWithTag creates a redirector with a custom tag.
func NewWithTag(sink Sink, tag string) *Redirector {
	return &Redirector{sink: sink, tag: tag}
}

// Start redirects stdout and stderr. Not guarded against repeat calls: a
// second Start silently re-overwrites the descriptors.
//
// Failure to create a pipe or duplicate a descriptor disables redirection
// for the affected stream; the caller logs and continues without it.
func (r *Redirector) Start() error {
	if err := r.redirectFD(int(os.Stdout.Fd()), zapcore.InfoLevel); err != nil {
		return err
	}
	return r.redirectFD(int(os.Stderr.Fd()), zapcore.ErrorLevel)
}

func (r *Redirector) redirectFD(fd int, level zapcore.Level) error {
	// os streams are unbuffered in Go, so no setvbuf equivalent is needed
	// before swapping the descriptor.
	rp, wp, err := os.Pipe()
	if err != nil {
		return errors.IO(errors.PhaseRedirect, "create pipe", err)
	}

	if err := dupFD(int(wp.Fd()), fd); err != nil {
		rp.Close()
		wp.Close()
		return errors.IO(errors.PhaseRedirect, "duplicate descriptor", err)
	}

	// Fire-and-forget: terminates when the write end closes at process exit.
	go r.forward(rp, level)

	return nil
}

// forward reads fixed-size chunks until EOF and hands each to the sink with
// a single trailing newline stripped.
func (r *Redirector) forward(rp *os.File, level zapcore.Level) {
	buf := make([]byte, chunkSize)
	for {
		n, err := rp.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			if chunk[len(chunk)-1] == '\n' {
				chunk = chunk[:len(chunk)-1]
			}
			r.sink.Log(level, r.tag, string(chunk))
		}
		if err != nil {
			if cerr := rp.Close(); cerr != nil {
				Logger().Debug("close read end", zap.Error(cerr))
			}
			return
		}
	}
}

package testutil

import (
	"bytes"
	"errors"
	"io"
	"os"
	"testing"
)

// ErrWriteFailed is returned by FailingWriter once its budget is spent.
var ErrWriteFailed = errors.New("write failed")

// CaptureStdout runs fn with os.Stdout redirected to a pipe and returns
// everything fn wrote to it.
func CaptureStdout(t testing.TB, fn func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	old := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = old }()

	done := make(chan []byte)
	go func() {
		data, _ := io.ReadAll(r)
		done <- data
	}()

	fn()

	if err := w.Close(); err != nil {
		t.Fatalf("failed to close pipe: %v", err)
	}
	out := <-done
	_ = r.Close()
	return string(out)
}

// FailingWriter accepts a fixed number of writes and fails every write after that.
type FailingWriter struct {
	remaining int
	buf       bytes.Buffer
}

// NewFailingWriter returns a writer that succeeds n times, then returns ErrWriteFailed.
func NewFailingWriter(n int) *FailingWriter {
	return &FailingWriter{remaining: n}
}

func (w *FailingWriter) Write(p []byte) (int, error) {
	if w.remaining <= 0 {
		return 0, ErrWriteFailed
	}
	w.remaining--
	return w.buf.Write(p)
}

// String returns what was written before the first failure.
func (w *FailingWriter) String() string {
	return w.buf.String()
}

// CountingWriter records the number of Write calls along with the bytes.
type CountingWriter struct {
	Writes int
	buf    bytes.Buffer
}

func (w *CountingWriter) Write(p []byte) (int, error) {
	w.Writes++
	return w.buf.Write(p)
}

func (w *CountingWriter) String() string {
	return w.buf.String()
}

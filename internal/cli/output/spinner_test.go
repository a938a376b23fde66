package output

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a bytes.Buffer shared with the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinner_StartStop(t *testing.T) {
	var buf syncBuffer
	s := NewSpinner(&buf, "soaking")
	s.interval = time.Millisecond

	s.Start()
	time.Sleep(20 * time.Millisecond)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "soaking (") {
		t.Errorf("spinner frame missing: %q", out)
	}
	if !strings.HasSuffix(out, "\r\033[K") {
		t.Errorf("Stop should clear the line: %q", out)
	}

	// Nothing is written after Stop returns.
	before := buf.String()
	time.Sleep(10 * time.Millisecond)
	if buf.String() != before {
		t.Error("spinner kept writing after Stop")
	}
}

func TestSpinner_SuccessAndFail(t *testing.T) {
	var buf syncBuffer
	s := NewSpinner(&buf, "run")
	s.Start()
	s.Success("finished")
	if !strings.HasSuffix(buf.String(), "ok finished\n") {
		t.Errorf("unexpected success output: %q", buf.String())
	}

	var buf2 syncBuffer
	f := NewSpinner(&buf2, "run")
	f.Start()
	f.Fail("boom")
	if !strings.HasSuffix(buf2.String(), "failed boom\n") {
		t.Errorf("unexpected fail output: %q", buf2.String())
	}
}

func TestSpinner_StopIsIdempotent(t *testing.T) {
	var buf syncBuffer
	s := NewSpinner(&buf, "x")
	s.Stop()
	s.Start()
	s.Stop()
	s.Success("ignored")
	if strings.Contains(buf.String(), "ignored") {
		t.Errorf("second stop had an effect: %q", buf.String())
	}
}

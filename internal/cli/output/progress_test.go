package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestProgress_Steps(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, "ci", 4)

	p.Step("locks")
	if !strings.Contains(buf.String(), "1/4 locks") {
		t.Errorf("first step not rendered: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "[#######") {
		t.Errorf("bar not filled: %q", buf.String())
	}

	p.Step("maps")
	p.Finish()
	out := buf.String()
	if !strings.Contains(out, "4/4 done") {
		t.Errorf("finish not rendered: %q", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("Finish should end the line")
	}
}

func TestProgress_Overshoot(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, "x", 1)
	p.Step("a")
	p.Step("b")
	if !strings.Contains(buf.String(), "1/1 b") {
		t.Errorf("progress should clamp to total: %q", buf.String())
	}
}

func TestProgress_UnknownTotal(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, "soak", 0)
	p.Step("tick")
	if !strings.Contains(buf.String(), "soak 1 tick") {
		t.Errorf("unexpected render: %q", buf.String())
	}
}

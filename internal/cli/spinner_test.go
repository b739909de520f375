package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerDrawsAndClears(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Working")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Working") {
		t.Errorf("output %q does not contain the message", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("output %q should end by returning to column 0", out)
	}
	if s.Cancelled() {
		t.Error("Stop should not mark the spinner as cancelled")
	}
}

func TestSpinnerSetMessage(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "first")
	s.SetMessage("second")
	if got := s.Message(); got != "second" {
		t.Errorf("Message() = %q, want second", got)
	}
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()
	if !strings.Contains(buf.String(), "second") {
		t.Errorf("output %q does not contain the updated message", buf.String())
	}
}

func TestSpinnerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, &bytes.Buffer{}, "cancel me")
	s.Start()
	cancel()
	time.Sleep(50 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should report cancellation of its context")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), &bytes.Buffer{}, "stop twice")
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerNilContext(t *testing.T) {
	s := newSpinner(nil, &bytes.Buffer{}, "nil ctx")
	s.Start()
	s.Stop()
	if s.Cancelled() {
		t.Error("spinner with nil context should not be cancelled")
	}
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "never started")
	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked on a spinner that was never started")
	}
	if buf.Len() != 0 {
		t.Errorf("output %q, want nothing", buf.String())
	}
}

func TestSpinnerStartTwice(t *testing.T) {
	s := newSpinner(context.Background(), &bytes.Buffer{}, "start twice")
	s.Start()
	s.Start()
	s.Stop()
}

package simulation

import (
	"context"
	"errors"
	"testing"
	"time"
)

type saveRecorder struct {
	payloads []interface{}
	err      error
}

func (r *saveRecorder) save(_ context.Context, payload interface{}) error {
	if r.err != nil {
		return r.err
	}
	r.payloads = append(r.payloads, payload)
	return nil
}

func TestAutosaveCoalescesRapidEdits(t *testing.T) {
	clock := newFakeClock()
	rec := &saveRecorder{}
	a := NewAutosave(clock, DefaultAutosaveDelay, rec.save, nil)

	a.Schedule("v1")
	clock.Advance(500 * time.Millisecond)
	a.Schedule("v2")
	clock.Advance(500 * time.Millisecond)
	a.Schedule("v3")
	if len(rec.payloads) != 0 {
		t.Fatalf("saved before quiescence: %v", rec.payloads)
	}

	clock.Advance(DefaultAutosaveDelay)
	if len(rec.payloads) != 1 || rec.payloads[0] != "v3" {
		t.Fatalf("expected one save of the last payload, got %v", rec.payloads)
	}
	if a.Pending() {
		t.Error("payload should be consumed after save")
	}
}

func TestAutosaveFlushBypassesDebounce(t *testing.T) {
	clock := newFakeClock()
	rec := &saveRecorder{}
	a := NewAutosave(clock, DefaultAutosaveDelay, rec.save, nil)

	a.Schedule("v1")
	if err := a.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(rec.payloads) != 1 || rec.payloads[0] != "v1" {
		t.Fatalf("flush did not write immediately: %v", rec.payloads)
	}

	// The cancelled window must not write a second time.
	clock.Advance(2 * DefaultAutosaveDelay)
	if len(rec.payloads) != 1 {
		t.Fatalf("debounced write fired after flush: %v", rec.payloads)
	}
}

func TestAutosaveFlushWithNothingPending(t *testing.T) {
	rec := &saveRecorder{}
	a := NewAutosave(newFakeClock(), 0, rec.save, nil)
	if err := a.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(rec.payloads) != 0 {
		t.Fatalf("empty flush wrote: %v", rec.payloads)
	}
}

func TestAutosaveKeepsPayloadOnFailure(t *testing.T) {
	clock := newFakeClock()
	rec := &saveRecorder{err: errors.New("store down")}
	var notified error
	a := NewAutosave(clock, DefaultAutosaveDelay, rec.save, func(err error) { notified = err })

	a.Schedule("v1")
	clock.Advance(DefaultAutosaveDelay)
	if notified == nil {
		t.Fatal("delayed-write failure not reported")
	}
	if !a.Pending() {
		t.Fatal("failed payload should stay pending for retry")
	}

	// Store recovers: the retained payload flushes cleanly.
	rec.err = nil
	if err := a.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(rec.payloads) != 1 || rec.payloads[0] != "v1" {
		t.Fatalf("retry did not write the retained payload: %v", rec.payloads)
	}
}

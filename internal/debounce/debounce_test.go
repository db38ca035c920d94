package debounce

import (
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu   sync.Mutex
	got  []string
	wake chan struct{}
}

func newRecorder() *recorder {
	return &recorder{wake: make(chan struct{}, 16)}
}

func (r *recorder) emit(v string) {
	r.mu.Lock()
	r.got = append(r.got, v)
	r.mu.Unlock()
	r.wake <- struct{}{}
}

func (r *recorder) values() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.got...)
}

func TestDebouncer_BurstEmitsOnlyLastValue(t *testing.T) {
	t.Parallel()
	rec := newRecorder()
	d := New(100*time.Millisecond, 3, rec.emit)
	defer d.Stop()

	// "a", "av", "ava" in quick succession: only "ava" may fire.
	d.Update("a")
	time.Sleep(10 * time.Millisecond)
	d.Update("av")
	time.Sleep(10 * time.Millisecond)
	d.Update("ava")

	select {
	case <-rec.wake:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced emit never fired")
	}
	// Quiet period long enough to catch any extra emits.
	time.Sleep(250 * time.Millisecond)

	if got := rec.values(); len(got) != 1 || got[0] != "ava" {
		t.Fatalf("emitted %v, want exactly [ava]", got)
	}
}

func TestDebouncer_ShortInputNeverFires(t *testing.T) {
	t.Parallel()
	rec := newRecorder()
	d := New(50*time.Millisecond, 3, rec.emit)
	defer d.Stop()

	d.Update("a")
	d.Update("av")
	time.Sleep(200 * time.Millisecond)

	if got := rec.values(); len(got) != 0 {
		t.Fatalf("short inputs emitted %v", got)
	}
}

func TestDebouncer_ShorteningCancelsPending(t *testing.T) {
	t.Parallel()
	rec := newRecorder()
	d := New(100*time.Millisecond, 3, rec.emit)
	defer d.Stop()

	d.Update("avatar")
	// Deleting back below the minimum before the timer fires cancels it.
	time.Sleep(20 * time.Millisecond)
	d.Update("av")
	time.Sleep(300 * time.Millisecond)

	if got := rec.values(); len(got) != 0 {
		t.Fatalf("cancelled burst emitted %v", got)
	}
}

func TestDebouncer_Flush(t *testing.T) {
	t.Parallel()
	rec := newRecorder()
	d := New(time.Hour, 3, rec.emit)
	defer d.Stop()

	d.Update("avatar")
	d.Flush()

	select {
	case <-rec.wake:
	case <-time.After(time.Second):
		t.Fatal("flush did not emit")
	}
	if got := rec.values(); len(got) != 1 || got[0] != "avatar" {
		t.Fatalf("flush emitted %v", got)
	}

	// A second flush with nothing pending is a no-op.
	d.Flush()
	time.Sleep(50 * time.Millisecond)
	if got := rec.values(); len(got) != 1 {
		t.Fatalf("idle flush emitted %v", got)
	}
}

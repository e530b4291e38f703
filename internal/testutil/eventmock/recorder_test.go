package eventmock

import (
	"context"
	"errors"
	"sync"
	"testing"

	"aura-lend/internal/domain/event"
)

func TestRecorder_KeepsOrderAndCounts(t *testing.T) {
	r := &Recorder{}
	ctx := context.Background()
	_ = r.Emit(ctx, []event.Event{event.New(event.TypeLoanRequested), event.New(event.TypeLoanFunded)})
	_ = r.Emit(ctx, []event.Event{event.New(event.TypeLoanRepaid)})

	got := r.Types()
	want := []string{event.TypeLoanRequested, event.TypeLoanFunded, event.TypeLoanRepaid}
	if len(got) != len(want) {
		t.Fatalf("types = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("types = %v, want %v", got, want)
		}
	}
	if r.Calls != 2 {
		t.Fatalf("calls = %d, want 2", r.Calls)
	}
}

func TestRecorder_EmitErr(t *testing.T) {
	boom := errors.New("broker down")
	r := &Recorder{EmitErr: boom}
	if err := r.Emit(context.Background(), nil); !errors.Is(err, boom) {
		t.Fatalf("want %v, got %v", boom, err)
	}
	r.Reset()
	if r.Calls != 0 || r.EmitErr != nil || len(r.Events) != 0 {
		t.Fatalf("reset left state: %+v", r)
	}
}

func TestRecorder_ConcurrentEmit(t *testing.T) {
	r := &Recorder{}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Emit(context.Background(), []event.Event{event.New(event.TypeAuctionBid)})
		}()
	}
	wg.Wait()
	if len(r.Types()) != 8 {
		t.Fatalf("recorded %d events, want 8", len(r.Types()))
	}
}

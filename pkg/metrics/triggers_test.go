package metrics

import (
	"sync"
	"testing"
)

func TestTriggersConcurrentCounts(t *testing.T) {
	var tr Triggers
	if !tr.Snapshot().IsZero() {
		t.Fatalf("expected zero snapshot")
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Answered()
			tr.Missed()
		}()
	}
	wg.Wait()
	tr.Empty()
	tr.Failed()

	got := tr.Snapshot()
	want := TriggerCounts{Answered: 50, Empty: 1, Missed: 50, Failed: 1}
	if got != want {
		t.Fatalf("expected %+v got %+v", want, got)
	}
	if got.Total() != 102 {
		t.Fatalf("expected total 102 got %d", got.Total())
	}
}

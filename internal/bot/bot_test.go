package bot

import (
	"sync"
	"testing"
)

func TestSubscribersConcurrentAccess(t *testing.T) {
	b := &Bot{subscribers: make(map[int64]bool)}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := int64(0); i < 1000; i++ {
			b.subscribe(i)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			b.subscriberIDs()
		}
	}()
	wg.Wait()

	if got := len(b.subscriberIDs()); got != 1000 {
		t.Errorf("subscribers = %d, want 1000", got)
	}
}

func TestSubscribeIdempotent(t *testing.T) {
	b := &Bot{subscribers: make(map[int64]bool)}
	b.subscribe(7)
	b.subscribe(7)
	ids := b.subscriberIDs()
	if len(ids) != 1 || ids[0] != 7 {
		t.Errorf("subscriberIDs = %v, want [7]", ids)
	}
}

package console

import (
	"testing"

	"github.com/bdwalton/gintendo/mappers"
)

func TestSampleQueueForcePushEvictsOldest(t *testing.T) {
	var q sampleQueue
	for i := 0; i < audioQueueCapacity; i++ {
		q.ForcePush(float32(i))
	}
	if got := q.Size(); got != audioQueueCapacity {
		t.Fatalf("Size() = %d, want %d", got, audioQueueCapacity)
	}

	q.ForcePush(9999) // evicts sample 0

	if got := q.Size(); got != audioQueueCapacity {
		t.Fatalf("Size() after overflow push = %d, want %d", got, audioQueueCapacity)
	}
	if got := q.Front(); got != 1 {
		t.Errorf("Front() = %v, want 1 (sample 0 should have been evicted)", got)
	}
}

func TestSampleQueuePopDrainsInOrder(t *testing.T) {
	var q sampleQueue
	q.ForcePush(1)
	q.ForcePush(2)
	q.ForcePush(3)

	if got := q.Pop(); got != 1 {
		t.Errorf("first Pop() = %v, want 1", got)
	}
	if got := q.Pop(); got != 2 {
		t.Errorf("second Pop() = %v, want 2", got)
	}
	if got := q.Size(); got != 1 {
		t.Errorf("Size() = %d, want 1", got)
	}
}

func TestSampleQueueErase(t *testing.T) {
	var q sampleQueue
	q.ForcePush(1)
	q.ForcePush(2)
	q.Erase()
	if got := q.Size(); got != 0 {
		t.Errorf("Size() after Erase() = %d, want 0", got)
	}
}

func TestBusTickFeedsAudioQueueAtSampleRate(t *testing.T) {
	b := New(mappers.Dummy)

	for i := 0; i < audioSampleInterval*4; i++ {
		b.Tick()
	}

	var dst [8]float32
	n := b.PullSamples(dst[:])
	if n < 3 || n > 5 {
		t.Errorf("pulled %d samples over %d ticks, want ~4", n, audioSampleInterval*4)
	}
}

package console

// audioQueueCapacity bounds the ring buffer feeding the audio sink. It is
// sized for a few frames' worth of 44.1kHz samples so a slow-draining
// consumer doesn't force the producer to block, not for any protocol
// reason.
const audioQueueCapacity = 4096

// sampleQueue is a bounded single-producer/single-consumer ring buffer of
// f32 audio samples with forced-evict-oldest push semantics: once full,
// ForcePush silently drops the oldest unread sample rather than growing
// latency or blocking the master clock.
type sampleQueue struct {
	buf                                    [audioQueueCapacity]float32
	readPointer, writePointer, currentSize int
}

func (q *sampleQueue) Size() int { return q.currentSize }

func (q *sampleQueue) Front() float32 { return q.buf[q.readPointer] }

func (q *sampleQueue) ForcePush(v float32) {
	if q.currentSize == audioQueueCapacity {
		q.popInternal()
	}
	q.pushInternal(v)
}

func (q *sampleQueue) Pop() float32 {
	v := q.buf[q.readPointer]
	q.popInternal()
	return v
}

func (q *sampleQueue) Erase() {
	q.readPointer, q.writePointer, q.currentSize = 0, 0, 0
}

func (q *sampleQueue) pushInternal(v float32) {
	q.buf[q.writePointer] = v
	q.writePointer++
	q.currentSize++
	if q.writePointer == audioQueueCapacity {
		q.writePointer = 0
	}
}

func (q *sampleQueue) popInternal() {
	q.readPointer++
	q.currentSize--
	if q.readPointer == audioQueueCapacity {
		q.readPointer = 0
	}
}

// Package ringbuf implements a fixed-capacity FIFO of 16-bit PCM samples.
//
// A Buffer never overwrites queued data and never blocks: a write that does
// not fit and a read that cannot be satisfied are both reported to the
// caller, which decides what to do about it. A Buffer is not safe for
// concurrent use.
package ringbuf

// Buffer is a circular queue of int16 samples.
type Buffer struct {
	buf []int16
	r   int // read position
	n   int // samples stored
}

// New creates a buffer that holds up to capacity samples.
func New(capacity int) *Buffer {
	b := &Buffer{}
	b.Init(capacity)
	return b
}

// Init (re)allocates the backing storage and empties the buffer. It lets a
// Buffer be embedded by value.
func (b *Buffer) Init(capacity int) {
	if capacity < 0 {
		capacity = 0
	}
	if cap(b.buf) >= capacity {
		b.buf = b.buf[:capacity]
	} else {
		b.buf = make([]int16, capacity)
	}
	b.Reset()
}

// Cap returns the total capacity in samples.
func (b *Buffer) Cap() int {
	return len(b.buf)
}

// Stored returns the number of queued samples.
func (b *Buffer) Stored() int {
	return b.n
}

// Remaining returns the free capacity in samples.
func (b *Buffer) Remaining() int {
	return len(b.buf) - b.n
}

// Reset discards all queued samples.
func (b *Buffer) Reset() {
	b.r = 0
	b.n = 0
}

// Put appends src. It returns false, leaving the buffer untouched, if src
// does not fit entirely.
func (b *Buffer) Put(src []int16) bool {
	if len(src) > b.Remaining() {
		return false
	}
	if len(src) == 0 {
		return true
	}

	w := (b.r + b.n) % len(b.buf)
	k := copy(b.buf[w:], src)
	copy(b.buf, src[k:])
	b.n += len(src)
	return true
}

// PutChannel appends one channel of an interleaved source. src holds
// len(src)/channels frames; sample index of every frame is queued. It
// returns false, leaving the buffer untouched, if the arguments are invalid
// or the samples do not fit.
func (b *Buffer) PutChannel(src []int16, channels, index int) bool {
	if channels < 1 || index < 0 || index >= channels {
		return false
	}
	frames := len(src) / channels
	if frames > b.Remaining() {
		return false
	}

	w := (b.r + b.n) % len(b.buf)
	for i := 0; i < frames; i++ {
		b.buf[w] = src[i*channels+index]
		w++
		if w == len(b.buf) {
			w = 0
		}
	}
	b.n += frames
	return true
}

// Get fills dst with the oldest len(dst) samples and removes them. It
// returns false, leaving the buffer untouched, if fewer samples are queued.
func (b *Buffer) Get(dst []int16) bool {
	if len(dst) > b.n {
		return false
	}
	if len(dst) == 0 {
		return true
	}

	k := copy(dst, b.buf[b.r:])
	copy(dst[k:], b.buf)
	b.r = (b.r + len(dst)) % len(b.buf)
	b.n -= len(dst)
	return true
}

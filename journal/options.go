package journal

// Option configures a Writer or the segment layout it opens.
type Option func(*options)

type options struct {
	maxSegmentSize int64
	bufferSize     int
}

func defaultOptions() options {
	return options{
		maxSegmentSize: defaultMaxSegmentSize,
		bufferSize:     64,
	}
}

// WithMaxSegmentSize sets the size, in bytes, at which the active segment
// file is rotated to a new one.
func WithMaxSegmentSize(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxSegmentSize = n
		}
	}
}

// WithBufferSize sets the capacity of the Writer's internal channel, the
// number of records that can be queued for the background writer goroutine;
// once it is full, further Append calls wait to enqueue. Each Append still
// blocks until its own record has been written.
func WithBufferSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.bufferSize = n
		}
	}
}

// Package telemetry exports gauge snapshots to remote consumers.
package telemetry

import (
	"errors"
	"log"
	"sync"

	"github.com/itohio/goforce/pkg/gauge"
)

// DefaultQueueSize is the default exporter queue depth.
const DefaultQueueSize = 32

var (
	// ErrQueueFull is returned when a snapshot is dropped because the sink is behind.
	ErrQueueFull = errors.New("telemetry queue full")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("telemetry exporter closed")
)

// Sink delivers one snapshot. Send is only called from the exporter goroutine.
type Sink interface {
	Send(s gauge.Snapshot) error
	Close() error
}

// Exporter decouples a slow sink from the sampling loop.
type Exporter struct {
	name  string
	sink  Sink
	queue chan gauge.Snapshot
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewExporter starts delivering queued snapshots to sink.
func NewExporter(name string, sink Sink, size int) *Exporter {
	if size <= 0 {
		size = DefaultQueueSize
	}
	e := &Exporter{
		name:  name,
		sink:  sink,
		queue: make(chan gauge.Snapshot, size),
		done:  make(chan struct{}),
	}
	go e.run()
	return e
}

// Enqueue queues s without blocking.
func (e *Exporter) Enqueue(s gauge.Snapshot) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		return ErrClosed
	}
	select {
	case e.queue <- s:
		return nil
	default:
		return ErrQueueFull
	}
}

// Handle queues s and logs drops. It matches gauge.Scheduler.OnUpdate.
func (e *Exporter) Handle(s gauge.Snapshot) {
	if err := e.Enqueue(s); errors.Is(err, ErrQueueFull) {
		log.Printf("%s queue full, dropping snapshot", e.name)
	}
}

// Close drains the queue, stops the goroutine and closes the sink.
func (e *Exporter) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	close(e.queue)
	e.mu.Unlock()

	<-e.done
	return e.sink.Close()
}

func (e *Exporter) run() {
	defer close(e.done)
	for s := range e.queue {
		if err := e.sink.Send(s); err != nil {
			log.Printf("Failed to send %s snapshot: %v", e.name, err)
		}
	}
}

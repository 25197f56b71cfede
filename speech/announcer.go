package speech

import (
	"context"
	"log"
	"sync"
)

// Priority 播报优先级; Terminal 级播报永不丢弃。
type Priority byte

const (
	PriorityRoutine   Priority = 0 // running totals
	PriorityImportant Priority = 1 // turn changes, prompts
	PriorityTerminal  Priority = 2 // bust / round outcome
)

var PriorityDictionary = map[Priority]string{
	PriorityRoutine:   "routine",
	PriorityImportant: "important",
	PriorityTerminal:  "terminal",
}

func (p Priority) String() string {
	if s, ok := PriorityDictionary[p]; ok {
		return s
	}
	return "invalid"
}

// Request is one queued announcement. Identical (Text, DedupeKey) pairs
// already queued or currently speaking are dropped.
type Request struct {
	Text      string
	Priority  Priority
	DedupeKey string
}

func (r Request) key() string {
	return r.DedupeKey + "\x00" + r.Text
}

// Sink is the external speech collaborator. Speak is assumed to block until
// audible completion; the Announcer isolates the pipeline from that.
type Sink interface {
	Speak(ctx context.Context, text string) error
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(ctx context.Context, text string) error

func (f SinkFunc) Speak(ctx context.Context, text string) error { return f(ctx, text) }

// Config 队列配置
type Config struct {
	// QueueSize caps pending requests (terminal requests bypass the cap).
	QueueSize int
	// FlushOnTerminal drops queued routine requests when a terminal one
	// arrives, so outcome lines are not stuck behind stale totals.
	FlushOnTerminal bool
}

func DefaultConfig() Config {
	return Config{QueueSize: 32, FlushOnTerminal: true}
}

// Announcer is a single-consumer FIFO between the game engine and the speech
// sink. Producers never block: enqueue is a mutex-guarded append plus a
// non-blocking wake signal; only the consumer goroutine ever touches the sink.
type Announcer struct {
	cfg  Config
	sink Sink

	mu       sync.Mutex
	queue    []Request
	inflight map[string]struct{} // dedupe keys queued or currently speaking
	closed   bool

	wake chan struct{}
	done chan struct{}
	wg   sync.WaitGroup
}

func NewAnnouncer(cfg Config, sink Sink) *Announcer {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultConfig().QueueSize
	}
	a := &Announcer{
		cfg:      cfg,
		sink:     sink,
		inflight: make(map[string]struct{}),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	a.wg.Add(1)
	go a.run()
	return a
}

// Announce enqueues a request. Returns false when the request was dropped
// (duplicate, queue full, or announcer closed). Never blocks.
func (a *Announcer) Announce(req Request) bool {
	if req.Text == "" {
		return false
	}
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return false
	}
	if _, dup := a.inflight[req.key()]; dup {
		a.mu.Unlock()
		return false
	}
	if req.Priority == PriorityTerminal && a.cfg.FlushOnTerminal {
		a.flushRoutineLocked()
	}
	if len(a.queue) >= a.cfg.QueueSize && req.Priority != PriorityTerminal {
		a.mu.Unlock()
		log.Printf("[Announcer] queue full, dropping %q", req.Text)
		return false
	}
	a.queue = append(a.queue, req)
	a.inflight[req.key()] = struct{}{}
	a.mu.Unlock()

	select {
	case a.wake <- struct{}{}:
	default:
	}
	return true
}

// Pending returns the number of queued requests (speaking excluded).
func (a *Announcer) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.queue)
}

// Close drains the queue, stops the consumer, and returns once the last
// request has been handed to the sink.
func (a *Announcer) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	a.mu.Unlock()

	close(a.done)
	a.wg.Wait()
}

func (a *Announcer) flushRoutineLocked() {
	kept := a.queue[:0]
	for _, q := range a.queue {
		if q.Priority == PriorityRoutine {
			delete(a.inflight, q.key())
			continue
		}
		kept = append(kept, q)
	}
	a.queue = kept
}

func (a *Announcer) run() {
	defer a.wg.Done()
	for {
		req, ok := a.pop()
		if !ok {
			select {
			case <-a.wake:
				continue
			case <-a.done:
				// Drain whatever is still queued before exiting.
				for {
					req, ok := a.pop()
					if !ok {
						return
					}
					a.speak(req)
				}
			}
		}
		a.speak(req)
	}
}

func (a *Announcer) pop() (Request, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.queue) == 0 {
		return Request{}, false
	}
	req := a.queue[0]
	a.queue = a.queue[1:]
	return req, true
}

func (a *Announcer) speak(req Request) {
	// The dedupe entry stays held while speaking so a rapid re-trigger of
	// the same line is still dropped.
	if err := a.sink.Speak(context.Background(), req.Text); err != nil {
		log.Printf("[Announcer] speak failed, dropping %q: %v", req.Text, err)
	}
	a.mu.Lock()
	delete(a.inflight, req.key())
	a.mu.Unlock()
}

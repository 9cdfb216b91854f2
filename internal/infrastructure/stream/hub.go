// Package stream fans pipeline log lines out to any number of subscribers.
// Each job keeps a bounded replay buffer so a viewer that attaches late still
// sees the lines produced before it connected.
package stream

import "sync"

const (
	DefaultMaxLinesPerJob = 5000
	DefaultSubscriberBuf  = 128
)

type Hub struct {
	mu   sync.Mutex
	jobs map[string]*jobStream

	maxLinesPerJob int
	subscriberBuf  int
}

type jobStream struct {
	lines []string
	subs  map[chan string]struct{}
	ended bool
}

func NewHub(maxLinesPerJob, subscriberBuf int) *Hub {
	if maxLinesPerJob <= 0 {
		maxLinesPerJob = DefaultMaxLinesPerJob
	}
	if subscriberBuf <= 0 {
		subscriberBuf = DefaultSubscriberBuf
	}
	return &Hub{
		jobs:           make(map[string]*jobStream),
		maxLinesPerJob: maxLinesPerJob,
		subscriberBuf:  subscriberBuf,
	}
}

func (h *Hub) Publish(jobID, line string) {
	h.mu.Lock()
	js := h.stream(jobID)
	if js.ended {
		h.mu.Unlock()
		return
	}

	js.lines = append(js.lines, line)
	if len(js.lines) > h.maxLinesPerJob {
		js.lines = js.lines[len(js.lines)-h.maxLinesPerJob:]
	}

	// Fan out while still holding mu: cancel and End close these channels
	// under the same lock, so a send can never race a close. Sends are
	// non-blocking, so holding the lock costs at most one buffered write
	// per subscriber.
	for ch := range js.subs {
		select {
		case ch <- line:
		default:
			// Slow subscribers lose live lines rather than stall the run.
		}
	}
	h.mu.Unlock()
}

func (h *Hub) Subscribe(jobID string) (replay []string, live <-chan string, cancel func()) {
	ch := make(chan string, h.subscriberBuf)

	h.mu.Lock()
	js := h.stream(jobID)
	replay = append([]string(nil), js.lines...)
	if js.ended {
		h.mu.Unlock()
		close(ch)
		return replay, ch, func() {}
	}
	js.subs[ch] = struct{}{}
	h.mu.Unlock()

	return replay, ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := js.subs[ch]; ok {
			delete(js.subs, ch)
			close(ch)
		}
	}
}

func (h *Hub) End(jobID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	js := h.stream(jobID)
	if js.ended {
		return
	}
	js.ended = true
	for ch := range js.subs {
		delete(js.subs, ch)
		close(ch)
	}
}

// stream returns the job's state, creating it on first use. Caller holds mu.
func (h *Hub) stream(jobID string) *jobStream {
	js, ok := h.jobs[jobID]
	if !ok {
		js = &jobStream{subs: make(map[chan string]struct{})}
		h.jobs[jobID] = js
	}
	return js
}

package weather

import (
	"sync"
	"time"
)

// Event is emitted to subscribers once per completed fetch. Exactly one of
// Record and Err is set.
type Event struct {
	Seq       uint64    `json:"seq"`
	RequestID string    `json:"requestId"`
	Query     Query     `json:"query"`
	Record    *Record   `json:"record,omitempty"`
	Err       error     `json:"-"`
	At        time.Time `json:"at"`
}

// FetchState is the observable slot a Client publishes into. Only the owning
// Client writes to it, from its Dispatcher; any goroutine may read.
type FetchState struct {
	mu        sync.RWMutex
	record    *Record
	lastErr   error
	seq       uint64
	updatedAt time.Time

	subMu   sync.Mutex
	subs    map[int]chan Event
	nextSub int
}

func newFetchState() *FetchState {
	return &FetchState{subs: make(map[int]chan Event)}
}

// Current returns the last successfully fetched record.
func (s *FetchState) Current() (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.record == nil {
		return Record{}, false
	}
	return s.record.clone(), true
}

// Snapshot returns the record together with the most recent failure, if the
// last completion failed.
func (s *FetchState) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{Seq: s.seq, UpdatedAt: s.updatedAt}
	if s.record != nil {
		rec := s.record.clone()
		snap.Record = &rec
	}
	if s.lastErr != nil {
		snap.LastError = s.lastErr.Error()
	}
	return snap
}

// Subscribe registers for events. Events that do not fit in the buffer are
// dropped; Snapshot always has the latest state. The returned func
// unsubscribes and closes the channel.
func (s *FetchState) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
}

// publish applies one completion. A failure keeps the previous record.
func (s *FetchState) publish(res Result) {
	ev := Event{
		Seq:       res.Seq,
		RequestID: res.RequestID,
		Query:     res.Query,
		Err:       res.Err,
		At:        time.Now().UTC(),
	}

	s.mu.Lock()
	s.seq = res.Seq
	s.updatedAt = ev.At
	if res.Err == nil {
		rec := res.Record.clone()
		s.record = &rec
		s.lastErr = nil
		out := rec.clone()
		ev.Record = &out
	} else {
		s.lastErr = res.Err
	}
	s.mu.Unlock()

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

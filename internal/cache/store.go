package cache

import (
	"context"
	"sync"
	"time"

	"snackhub/internal/logger"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Class controls how long a kind of entry stays fresh and when an unused
// entry is evicted entirely.
type Class struct {
	StaleAfter time.Duration
	GCAfter    time.Duration
}

const (
	DefaultStaleAfter = 30 * time.Second
	DefaultGCAfter    = 5 * time.Minute

	gcSweepInterval = 30 * time.Second
)

type entry struct {
	value     any
	fetchedAt time.Time
	stale     bool

	// gen bumps on every write to the entry; restore tokens compare
	// against it to detect that the world has moved on.
	gen uint64

	// fetchSeq hands out fetch tickets; appliedSeq records the newest
	// acknowledged fetch applied so far. A completion with an older ticket
	// than appliedSeq is discarded (last-acknowledged-fetch-wins).
	fetchSeq   uint64
	appliedSeq uint64
}

type subscription struct {
	prefix Key
	fn     func(Key) error
}

// Store is the query-keyed cache shared by every service in the core. All
// entities it holds are owned by the remote service; values here are
// possibly-stale copies with explicit invalidation.
type Store struct {
	mu      sync.Mutex
	entries map[Key]*entry
	classes map[string]Class
	subs    map[int]*subscription
	nextSub int

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		entries: make(map[Key]*entry),
		classes: make(map[string]Class),
		subs:    make(map[int]*subscription),
		now:     time.Now,
	}
}

// SetClass registers staleness/GC windows for a key kind. Unregistered kinds
// fall back to the package defaults.
func (s *Store) SetClass(kind string, c Class) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classes[kind] = c
}

func (s *Store) classFor(k Key) Class {
	c, ok := s.classes[k.Kind()]
	if !ok {
		c = Class{}
	}
	if c.StaleAfter <= 0 {
		c.StaleAfter = DefaultStaleAfter
	}
	if c.GCAfter <= 0 {
		c.GCAfter = DefaultGCAfter
	}
	return c
}

// Get returns the last-known value, stale or not.
func (s *Store) Get(key Key) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Fresh returns the value only when it is younger than its staleness window
// and has not been invalidated.
func (s *Store) Fresh(key Key) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || e.stale {
		return nil, false
	}
	if s.now().Sub(e.fetchedAt) >= s.classFor(key).StaleAfter {
		return nil, false
	}
	return e.value, true
}

// Set stores an authoritative value, resetting staleness.
func (s *Store) Set(key Key, value any) {
	s.mu.Lock()
	e := s.ensure(key)
	e.value = value
	e.fetchedAt = s.now()
	e.stale = false
	e.gen++
	s.mu.Unlock()

	s.notify(key)
}

// Remove drops a key outright.
func (s *Store) Remove(key Key) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()

	s.notify(key)
}

// BeginFetch issues a ticket for a refetch of key.
func (s *Store) BeginFetch(key Key) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.ensure(key)
	e.fetchSeq++
	return e.fetchSeq
}

// CompleteFetch applies an acknowledged fetch result. It reports false, and
// leaves the entry untouched, when a later-acknowledged fetch already landed.
func (s *Store) CompleteFetch(key Key, seq uint64, value any) bool {
	s.mu.Lock()
	e := s.ensure(key)
	if seq <= e.appliedSeq {
		s.mu.Unlock()
		return false
	}
	e.appliedSeq = seq
	e.value = value
	e.fetchedAt = s.now()
	e.stale = false
	e.gen++
	s.mu.Unlock()

	s.notify(key)
	return true
}

// Invalidate marks every key under prefix stale and notifies subscribers so
// they can refetch. Callers treat it as fire-and-forget; the combined
// subscriber error is returned for the few places that want to surface it.
func (s *Store) Invalidate(prefix Key) error {
	s.mu.Lock()
	var hit []Key
	for k, e := range s.entries {
		if k.HasPrefix(prefix) {
			e.stale = true
			hit = append(hit, k)
		}
	}
	s.mu.Unlock()

	if len(hit) == 0 {
		// Nothing cached under the prefix yet; subscribers on the exact
		// prefix still learn about the invalidation.
		hit = []Key{prefix}
	}

	var err error
	for _, k := range hit {
		err = multierr.Append(err, s.notify(k))
	}
	if err != nil {
		logger.L().Warn("invalidation refetch reported errors",
			zap.String("prefix", string(prefix)),
			zap.Error(err),
		)
	}
	return err
}

// Subscribe registers fn for every change under prefix. The returned func
// cancels the subscription.
func (s *Store) Subscribe(prefix Key, fn func(Key) error) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = &subscription{prefix: prefix, fn: fn}
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Token captures the state an optimistic write replaced, tagged with the
// generation that write produced.
type Token struct {
	key     Key
	value   any
	present bool
	gen     uint64
}

// OptimisticUpdate applies fn to the current value synchronously and
// notifies subscribers, so consumers see the new state before the remote
// call is even issued. The returned token rolls the write back via Restore.
func (s *Store) OptimisticUpdate(key Key, fn func(old any, ok bool) any) Token {
	s.mu.Lock()
	e, present := s.entries[key]

	var old any
	if present {
		old = e.value
	}

	e = s.ensure(key)
	e.value = fn(old, present)
	// Provisional until the server confirms; a Fresh read must refetch.
	e.stale = true
	e.gen++

	tok := Token{key: key, value: old, present: present, gen: e.gen}
	s.mu.Unlock()

	s.notify(key)
	return tok
}

// Restore rolls back the optimistic write that produced tok. It is a no-op
// when the key has since moved to a newer generation: a later optimistic
// write or an authoritative fetch must not be clobbered by a stale rollback.
func (s *Store) Restore(tok Token) bool {
	s.mu.Lock()
	e, ok := s.entries[tok.key]
	if !ok || e.gen != tok.gen {
		s.mu.Unlock()
		return false
	}

	if !tok.present {
		delete(s.entries, tok.key)
	} else {
		e.value = tok.value
		e.stale = true
		e.gen++
	}
	s.mu.Unlock()

	s.notify(tok.key)
	return true
}

// StartGC evicts entries older than their GC window until ctx is done.
// Entries under an active subscription prefix count as in use and survive.
func (s *Store) StartGC(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(gcSweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

func (s *Store) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, e := range s.entries {
		if now.Sub(e.fetchedAt) <= s.classFor(k).GCAfter {
			continue
		}
		if s.subscribedLocked(k) {
			continue
		}
		delete(s.entries, k)
	}
}

func (s *Store) subscribedLocked(k Key) bool {
	for _, sub := range s.subs {
		if k.HasPrefix(sub.prefix) {
			return true
		}
	}
	return false
}

func (s *Store) ensure(key Key) *entry {
	e, ok := s.entries[key]
	if !ok {
		e = &entry{}
		s.entries[key] = e
	}
	return e
}

// notify runs subscriber callbacks outside the store lock so they can read
// or write the store re-entrantly.
func (s *Store) notify(key Key) error {
	s.mu.Lock()
	var fns []func(Key) error
	for _, sub := range s.subs {
		if key.HasPrefix(sub.prefix) {
			fns = append(fns, sub.fn)
		}
	}
	s.mu.Unlock()

	var err error
	for _, fn := range fns {
		err = multierr.Append(err, fn(key))
	}
	return err
}

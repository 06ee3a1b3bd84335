package ledger

import "sync"

// accountLocks serializes read-modify-write cycles per account number so
// concurrent operations against the same balance do not degenerate into
// optimistic-retry storms. Entries are never evicted; the map is bounded by
// the number of accounts this process has touched.
type accountLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *accountLocks) get(number string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[number]
	if !ok {
		m = &sync.Mutex{}
		l.locks[number] = m
	}
	return m
}

// lock acquires the mutex for one account and returns its release func.
func (l *accountLocks) lock(number string) func() {
	m := l.get(number)
	m.Lock()
	return m.Unlock
}

// lockPair acquires both accounts' mutexes in ascending account-number
// order, so two transfers moving money in opposite directions between the
// same pair cannot deadlock.
func (l *accountLocks) lockPair(a, b string) func() {
	if b < a {
		a, b = b, a
	}
	first, second := l.get(a), l.get(b)
	first.Lock()
	second.Lock()
	return func() {
		second.Unlock()
		first.Unlock()
	}
}

package ledger

import "sync"

// Locks, müşteri başına bir mutex tutar. Aynı müşterinin bakiyesine dokunan
// işlemler (borç, tahsilat, silme) bu kilit üzerinden sıraya girer; farklı
// müşteriler birbirini bekletmez. Girdiler referans sayılır ve kimse
// beklemiyorken map'ten düşülür, map müşteri sayısıyla büyümez.
type Locks struct {
	mu sync.Mutex
	m  map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func NewLocks() *Locks {
	return &Locks{m: make(map[string]*lockEntry)}
}

// Lock ilgili müşterinin kilidini alır ve bırakma fonksiyonunu döner.
func (l *Locks) Lock(customerID string) func() {
	l.mu.Lock()
	e, ok := l.m[customerID]
	if !ok {
		e = &lockEntry{}
		l.m[customerID] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.m, customerID)
		}
		l.mu.Unlock()
	}
}

package client

import "sync"

// Mutation is an optimistic local change waiting on the server's
// verdict. Apply captures a rollback snapshot and runs the local change
// immediately so the UI never blocks on the round trip. Confirm replaces
// the guess with the authoritative response; Rollback restores the
// snapshot when the request fails. A mutation settles exactly once.
type Mutation struct {
	mu      sync.Mutex
	restore func()
	settled bool
}

// Apply captures restore as the rollback snapshot, runs mutate, and
// returns the pending mutation.
func Apply(restore func(), mutate func()) *Mutation {
	mutate()
	return &Mutation{restore: restore}
}

// Confirm settles the mutation with the server's response. The
// authoritative callback replaces the optimistic state with the real
// entity (server-assigned id, counters); pass nil when the guess already
// matches.
func (m *Mutation) Confirm(authoritative func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settled {
		return
	}
	m.settled = true
	if authoritative != nil {
		authoritative()
	}
}

// Rollback settles the mutation by restoring the pre-mutation snapshot.
func (m *Mutation) Rollback() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settled {
		return
	}
	m.settled = true
	m.restore()
}

// Settled reports whether the mutation has been confirmed or rolled
// back.
func (m *Mutation) Settled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settled
}

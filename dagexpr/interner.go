package dagexpr

import "sync"

// internKey is the hash-cons lookup key: tag mixed with both children's
// identities, ("Hash key mixes tag, left identity, right
// identity; equality compares the same three fields").
type internKey struct {
	tag         Tag
	left, right ID
	atom        string
}

// Interner owns the process-wide (one per Session) arena of
// expression nodes and the table that gives them hash-consed identity. It is
// safe for concurrent use: every mutating operation holds mu for its
// duration, under the RWMutex discipline shared state uses for its own
// shared maps.
type Interner struct {
	mu    sync.RWMutex
	arena []Node          // arena[0] is an unused sentinel slot
	free  []ID            // free list of released non-interned slots
	table map[internKey]ID // canonical (tag,left,right[,atom]) -> interned ID
}

// NewInterner returns an empty Interner with arena slot 0 reserved as the
// Empty sentinel.
func NewInterner() *Interner {
	in := &Interner{
		arena: make([]Node, 1), // slot 0 = Empty sentinel, never addressable
		table: make(map[internKey]ID),
	}

	return in
}

// Intern returns the canonical Node for (tag, left, right[, atom]), creating
// it on first use. Two calls with structurally equal arguments always
// return the same ID, for the life of the Interner (the hash-consing
// no-op law of hash consing).
func (in *Interner) Intern(tag Tag, left, right ID, line int) ID {
	return in.internAtom(tag, left, right, "", line)
}

// InternAtom is Intern for TagAtom/TagNumber leaves, where the payload is a
// string rather than child IDs.
func (in *Interner) InternAtom(tag Tag, atom string, line int) ID {
	return in.internAtom(tag, Empty, Empty, atom, line)
}

func (in *Interner) internAtom(tag Tag, left, right ID, atom string, line int) ID {
	key := internKey{tag: tag, left: left, right: right, atom: atom}

	in.mu.RLock()
	if id, ok := in.table[key]; ok {
		in.mu.RUnlock()

		return id
	}
	in.mu.RUnlock()

	in.mu.Lock()
	defer in.mu.Unlock()
	// Re-check under the write lock: another goroutine may have interned
	// the same key between our RUnlock and Lock.
	if id, ok := in.table[key]; ok {
		return id
	}

	id := in.allocate(tag, left, right, atom, line, true)
	in.table[key] = id

	return id
}

// Make allocates a fresh, non-interned Node. Unlike Intern, repeated calls
// with the same arguments return distinct IDs; the caller owns the result
// and may Release it.
func (in *Interner) Make(tag Tag, left, right ID, line int) ID {
	in.mu.Lock()
	defer in.mu.Unlock()

	return in.allocate(tag, left, right, "", line, false)
}

// allocate pulls a slot from the free list, or grows the arena, and must be
// called with mu held.
func (in *Interner) allocate(tag Tag, left, right ID, atom string, line int, interned bool) ID {
	n := Node{Tag: tag, Left: left, Right: right, Line: line, Atom: atom, interned: interned}

	if len(in.free) > 0 {
		id := in.free[len(in.free)-1]
		in.free = in.free[:len(in.free)-1]
		n.ID = id
		in.arena[id] = n

		return id
	}

	id := ID(len(in.arena))
	n.ID = id
	in.arena = append(in.arena, n)

	return id
}

// Release returns a non-interned node's slot to the free list. Releasing an
// interned node, the Empty sentinel, or an already-released/unknown ID is a
// silent no-op, ("The interner rejects release of interned
// nodes silently").
func (in *Interner) Release(id ID) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if id == Empty || int(id) >= len(in.arena) {
		return
	}
	if in.arena[id].interned {
		return
	}
	in.arena[id] = Node{}
	in.free = append(in.free, id)
}

// ReleaseStrict is Release but reports ErrReleaseInterned instead of
// silently ignoring an interned node, for callers that want to catch the
// programming mistake rather than rely on the no-op contract.
func (in *Interner) ReleaseStrict(id ID) error {
	in.mu.RLock()
	if int(id) < len(in.arena) && in.arena[id].interned {
		in.mu.RUnlock()

		return ErrReleaseInterned
	}
	in.mu.RUnlock()
	in.Release(id)

	return nil
}

// Get returns a copy of the node at id, or (Node{}, false) if id is out of
// range or the Empty sentinel.
func (in *Interner) Get(id ID) (Node, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()

	if id == Empty || int(id) >= len(in.arena) {
		return Node{}, false
	}

	return in.arena[id], true
}

// True and False return the canonical TRUEEXP/FALSEEXP leaves.
func (in *Interner) True() ID  { return in.Intern(TagTrue, Empty, Empty, 0) }
func (in *Interner) False() ID { return in.Intern(TagFalse, Empty, Empty, 0) }

// Len reports the number of arena slots ever allocated (including released
// ones); useful for diagnostics and tests, not part of the hash-consing
// contract.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()

	return len(in.arena) - 1
}

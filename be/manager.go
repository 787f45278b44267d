package be

import "github.com/katalvlaran/nuxlite/registry"

// Manager owns the hash-consed AIG-like circuit arena: every AND/OR/XOR/NOT
// node and every variable leaf is shared by structural identity, the same
// discipline dagexpr.Interner and bdd.Manager use for their own node kinds.
type Manager struct {
	arena []node
	table map[structKey]ID

	varTable map[varKey]ID
	baseVars []varKey // index i -> the base (unframed) varKey for arena slot tracking, in NewVar order
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{
		table:    make(map[structKey]ID),
		varTable: make(map[varKey]ID),
	}
}

func (m *Manager) slot(id ID) *node { return &m.arena[id-firstAllocID] }

func (m *Manager) alloc(n node) ID {
	m.arena = append(m.arena, n)

	return ID(len(m.arena)-1) + firstAllocID
}

// False and True return the two constant leaves.
func (m *Manager) False() ID { return False }
func (m *Manager) True() ID  { return True }

// NewVar returns the base (unframed, time == -1) variable node for bit under
// class, creating it on first use. ShiftCurrNextToTime later produces the
// time-indexed copies actually submitted to the SAT facade.
func (m *Manager) NewVar(bit registry.Bit, class VarClass) ID {
	return m.varNode(varKey{bit: bit, class: class, time: -1})
}

func (m *Manager) varNode(vk varKey) ID {
	if id, ok := m.varTable[vk]; ok {
		return id
	}
	id := m.alloc(node{tag: TagVar, vk: vk})
	m.varTable[vk] = id
	if vk.time == -1 {
		m.baseVars = append(m.baseVars, vk)
	}

	return id
}

func (m *Manager) mkStruct(tag Tag, left, right ID) ID {
	k := structKey{tag: tag, left: left, right: right}
	if id, ok := m.table[k]; ok {
		return id
	}
	id := m.alloc(node{tag: tag, left: left, right: right})
	m.table[k] = id

	return id
}

// Not returns the negation of a, folding double negation and constants.
func (m *Manager) Not(a ID) ID {
	switch a {
	case True:
		return False
	case False:
		return True
	}
	if n, ok := m.Get(a); ok && n.tag == TagNot {
		return n.left
	}

	return m.mkStruct(TagNot, a, invalid)
}

// And returns the conjunction of a and b, folding the constant cases.
func (m *Manager) And(a, b ID) ID {
	switch {
	case a == False || b == False:
		return False
	case a == True:
		return b
	case b == True:
		return a
	case a == b:
		return a
	}
	// Canonical child order so And(a,b) and And(b,a) hash-cons to the same
	// node regardless of call-site argument order.
	if a > b {
		a, b = b, a
	}

	return m.mkStruct(TagAnd, a, b)
}

// Or returns the disjunction of a and b, via De Morgan over And/Not (the
// classic AIG reduction to a single structural primitive).
func (m *Manager) Or(a, b ID) ID {
	return m.Not(m.And(m.Not(a), m.Not(b)))
}

// Xor returns the exclusive-or of a and b.
func (m *Manager) Xor(a, b ID) ID {
	return m.Or(m.And(a, m.Not(b)), m.And(m.Not(a), b))
}

// Iff returns the negation of Xor(a, b).
func (m *Manager) Iff(a, b ID) ID { return m.Not(m.Xor(a, b)) }

// Implies returns a -> b.
func (m *Manager) Implies(a, b ID) ID { return m.Or(m.Not(a), b) }

// Get returns a copy of the node at id, or (node{}, false) for an ID this
// Manager never issued (or a terminal, which has no node record).
func (m *Manager) Get(id ID) (node, bool) {
	if id == invalid || id == False || id == True {
		return node{}, false
	}
	off := int(id) - int(firstAllocID)
	if off < 0 || off >= len(m.arena) {
		return node{}, false
	}

	return m.arena[off], true
}

// IsConst reports whether id is one of the two constant leaves.
func (m *Manager) IsConst(id ID) bool { return id == True || id == False }

// VarInfo returns the (bit, class, time) a TagVar node was created with —
// time is -1 for a base (unframed) variable, >=0 for one produced by
// ShiftCurrNextToTime. It is how package bmc and package trace recover a
// registry bit (and frame) from a BE variable node that survived into a CNF
// model, the "interpret bit assignments over (variable, time) pairs" step
//
func (m *Manager) VarInfo(id ID) (registry.Bit, VarClass, int, bool) {
	n, ok := m.Get(id)
	if !ok || n.tag != TagVar {
		return registry.Bit{}, 0, 0, false
	}

	return n.vk.bit, n.vk.class, n.vk.time, true
}

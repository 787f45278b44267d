package be

// ShiftCurrNextToTime renames every base (unframed) variable reachable from
// id into its time-t copy: a ClassCurrent or ClassInput bit becomes its
// time-t variable; a ClassNext bit becomes its time-(t+1) variable. Distinct t produce disjoint fresh variable nodes, but AND/OR/XOR/
// NOT structure is still shared through the Manager's unique table — the
// "per-time-frame cache... share structure through the AIG sharing table"
// contract.
//
// The shifted variable's class is always recorded as ClassCurrent (inputs
// keep ClassInput), never ClassNext: "next(v) at frame t" and "v at frame
// t+1" name the same BMC unknown, so shifting a ClassNext base variable to
// time t+1 must hash-cons to exactly the node a ClassCurrent base variable
// for the same bit produces when shifted to time t+1 — the unrolled Path(k)
// formula (package bmc) relies on this identification instead of adding
// explicit equality clauses between consecutive frames.
func (m *Manager) ShiftCurrNextToTime(id ID, t int) ID {
	memo := make(map[ID]ID)

	var walk func(ID) ID
	walk = func(cur ID) ID {
		if cur == True || cur == False {
			return cur
		}
		if r, ok := memo[cur]; ok {
			return r
		}
		n, ok := m.Get(cur)
		if !ok {
			return cur
		}

		var result ID
		switch n.tag {
		case TagVar:
			time := t
			class := n.vk.class
			if class == ClassNext {
				time = t + 1
				class = ClassCurrent
			}
			result = m.varNode(varKey{bit: n.vk.bit, class: class, time: time})
		case TagNot:
			result = m.Not(walk(n.left))
		case TagAnd:
			result = m.And(walk(n.left), walk(n.right))
		case TagOr:
			result = m.Or(walk(n.left), walk(n.right))
		case TagXor:
			result = m.Xor(walk(n.left), walk(n.right))
		default:
			result = cur
		}
		memo[cur] = result

		return result
	}

	return walk(id)
}

// TimeOf returns the time frame of a variable node produced by
// ShiftCurrNextToTime (or -1 for a base/unframed variable, or ok=false for a
// non-variable node).
func (m *Manager) TimeOf(id ID) (int, bool) {
	n, ok := m.Get(id)
	if !ok || n.tag != TagVar {
		return 0, false
	}

	return n.vk.time, true
}

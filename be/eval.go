package be

// EvalUnderModel recursively evaluates id given valueOf, a lookup from a
// TagVar node to the truth value a SAT model assigned it (ok=false for a
// node the model never mentions). Package bmc uses this after an
// "all-loops" BMC run comes back SAT to determine which candidate loop
// point the model actually satisfies, without re-running the solver.
func (m *Manager) EvalUnderModel(id ID, valueOf func(ID) (bool, bool)) bool {
	switch id {
	case True:
		return true
	case False:
		return false
	}

	n, ok := m.Get(id)
	if !ok {
		return false
	}

	switch n.tag {
	case TagVar:
		v, ok := valueOf(id)

		return ok && v
	case TagNot:
		return !m.EvalUnderModel(n.left, valueOf)
	case TagAnd:
		return m.EvalUnderModel(n.left, valueOf) && m.EvalUnderModel(n.right, valueOf)
	case TagOr:
		return m.EvalUnderModel(n.left, valueOf) || m.EvalUnderModel(n.right, valueOf)
	case TagXor:
		return m.EvalUnderModel(n.left, valueOf) != m.EvalUnderModel(n.right, valueOf)
	default:
		return false
	}
}

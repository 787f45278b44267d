package registry

// snapshot is a deep copy of every mutable field of Registry, taken by
// PushStatus and restored by PopStatus. Popping must undo every
// declaration and encoding added since the matching push — a plain
// copy-on-push/restore-on-pop of the whole state satisfies that without
// needing to track an undo log.
type snapshot struct {
	kinds     map[string]Kind
	vars      map[string]*Variable
	defines   map[string]*Define
	constants map[string]struct{}
	order     []string
	encoded   bool
	bitOf     map[Bit]string
}

// PushStatus records the registry's current state so a later PopStatus can
// discard everything declared or encoded after this point. Pushes nest:
// each Push must be matched by exactly one Pop, in LIFO order, mirroring
// the way the LTL tableau (package ltlx) brackets the registry around a
// rewrite pass.
func (r *Registry) PushStatus() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stack = append(r.stack, snapshot{
		kinds:     copyKindMap(r.kinds),
		vars:      copyVarMap(r.vars),
		defines:   copyDefineMap(r.defines),
		constants: copySet(r.constants),
		order:     append([]string(nil), r.order...),
		encoded:   r.encoded,
		bitOf:     copyBitMap(r.bitOf),
	})
}

// PopStatus restores the registry to the state recorded by the most recent
// unmatched PushStatus. It returns ErrEmptyStack if there is no such push.
func (r *Registry) PopStatus() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.stack)
	if n == 0 {
		return ErrEmptyStack
	}

	s := r.stack[n-1]
	r.stack = r.stack[:n-1]

	r.kinds = s.kinds
	r.vars = s.vars
	r.defines = s.defines
	r.constants = s.constants
	r.order = s.order
	r.encoded = s.encoded
	r.bitOf = s.bitOf

	return nil
}

// Depth reports how many PushStatus calls are currently unmatched.
func (r *Registry) Depth() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.stack)
}

func copyKindMap(m map[string]Kind) map[string]Kind {
	out := make(map[string]Kind, len(m))
	for k, v := range m {
		out[k] = v
	}

	return out
}

func copyVarMap(m map[string]*Variable) map[string]*Variable {
	out := make(map[string]*Variable, len(m))
	for k, v := range m {
		cp := *v
		cp.Bits = append([]Bit(nil), v.Bits...)
		out[k] = &cp
	}

	return out
}

func copyDefineMap(m map[string]*Define) map[string]*Define {
	out := make(map[string]*Define, len(m))
	for k, v := range m {
		cp := *v
		out[k] = &cp
	}

	return out
}

func copySet(m map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(m))
	for k := range m {
		out[k] = struct{}{}
	}

	return out
}

func copyBitMap(m map[Bit]string) map[Bit]string {
	out := make(map[Bit]string, len(m))
	for k, v := range m {
		out[k] = v
	}

	return out
}

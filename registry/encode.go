package registry

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// EncodeVars assigns bit vectors and ordering positions to every declared
// state and input variable, in declaration order. After it returns, further
// DeclareStateVar/DeclareInputVar calls fail with ErrAlreadyEncoded until a
// matching PopStatus undoes the encoding; DeclareDefine and DeclareConstant
// are still accepted.
func (r *Registry) EncodeVars() error {
	return r.EncodeVarsWithOrder(nil)
}

// EncodeVarsWithOrder assigns bit vectors and ordering positions following
// order, falling back to declaration order for any declared variable order
// omits. order may be nil, in which case it behaves exactly like
// EncodeVars.
func (r *Registry) EncodeVarsWithOrder(order []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.encoded {
		return ErrAlreadyEncoded
	}

	full := mergeOrder(order, r.order)

	pos := 0
	bitOf := make(map[Bit]string, len(r.bitOf))
	for _, name := range full {
		v, ok := r.vars[name]
		if !ok {
			continue // names in an ordering file for undeclared symbols were already dropped by ParseOrderingFile
		}

		w := v.Range.Width()
		bits := make([]Bit, w)
		for i := 0; i < w; i++ {
			b := Bit{Var: name, Index: i}
			bits[i] = b
			bitOf[b] = name
		}
		v.Bits = bits
		v.Position = pos
		pos++
	}

	r.bitOf = bitOf
	r.encoded = true

	return nil
}

// InvalidateEncoding discards the current bit-vector assignment so that
// Declare* calls are accepted again and the next EncodeVars recomputes every
// bit and position from scratch. Package ltlx brackets this between
// PushStatus and PopStatus: the tableau declares its fresh state variables
// into a re-opened registry and the matching pop restores the model's
// original encoding untouched.
func (r *Registry) InvalidateEncoding() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.encoded {
		return
	}
	for _, v := range r.vars {
		v.Bits = nil
		v.Position = -1
	}
	r.bitOf = make(map[Bit]string)
	r.encoded = false
}

// Encoded reports whether EncodeVars has run (and not since been undone by
// PopStatus).
func (r *Registry) Encoded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.encoded
}

// mergeOrder returns explicit (deduplicated, in first-seen order) followed
// by any name in declared that explicit omitted, in declared's order.
func mergeOrder(explicit, declared []string) []string {
	seen := make(map[string]bool, len(declared))
	out := make([]string, 0, len(declared))
	for _, name := range explicit {
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	for _, name := range declared {
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}

	return out
}

// ParseOrderingFile parses a variable-ordering file's contents:
// whitespace-separated variable names, optionally bit-addressed
// as "name.i" (the .i suffix is accepted and discarded — ordering is
// per-variable, not per-bit). Names not declared in reg are skipped with a
// warning; a name repeated in the file is warned about and only its first
// occurrence is kept. The returned slice still omits any declared variable
// the file never mentions — EncodeVarsWithOrder appends those afterward.
func ParseOrderingFile(data string, reg *Registry, log logrus.FieldLogger) []string {
	if log == nil {
		log = logrus.StandardLogger()
	}

	seen := make(map[string]bool)
	var out []string

	for _, tok := range strings.Fields(data) {
		name := tok
		if dot := strings.LastIndexByte(tok, '.'); dot > 0 {
			if _, err := strconv.Atoi(tok[dot+1:]); err == nil {
				name = tok[:dot]
			}
		}

		if !reg.declaredSymbol(name) {
			log.WithField("var", name).Warn("registry: ordering file names undeclared variable, skipping")
			continue
		}
		if seen[name] {
			log.WithField("var", name).Warn("registry: ordering file repeats variable, keeping first occurrence")
			continue
		}
		seen[name] = true
		out = append(out, name)
	}

	return out
}

func (r *Registry) declaredSymbol(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.vars[name]

	return ok
}

package trace

import "github.com/katalvlaran/nuxlite/registry"

// ensureLen grows s with false until it has length n.
func ensureLen(s []bool, n int) []bool {
	for len(s) < n {
		s = append(s, false)
	}

	return s
}

// decodeBits packs a per-bit boolean array (most-significant bit first, the
// convention bdd.Encoder's decodeStateAssignment uses) into the range value
// it addresses.
func decodeBits(v registry.Variable, bits []bool) (string, bool) {
	idx := 0
	for i, bit := range bits {
		if bit {
			idx |= 1 << (len(bits) - 1 - i)
		}
	}
	if idx < 0 || idx >= len(v.Range.Values) {
		return "", false
	}

	return v.Range.Values[idx], true
}

// cubeFromBits converts a variable-name -> bit-array map (as accumulated by
// decoding a raw bit assignment) into a Cube of "name = value" pairs.
func cubeFromBits(reg *registry.Registry, byVar map[string][]bool) Cube {
	out := make(Cube, len(byVar))
	for name, bits := range byVar {
		v, ok := reg.Variable(name)
		if !ok {
			continue
		}
		if val, ok := decodeBits(v, bits); ok {
			out[name] = val
		}
	}

	return out
}

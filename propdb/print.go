package propdb

import (
	"fmt"

	"github.com/katalvlaran/nuxlite/dagexpr"
)

// Filter selects properties for PrintProperties. A nil field matches
// everything, so Filter{} enumerates the whole database.
type Filter struct {
	Kind   *Kind
	Status *Status
}

// matches reports whether p passes f.
func (f Filter) matches(p *Property) bool {
	if f.Kind != nil && p.Kind != *f.Kind {
		return false
	}
	if f.Status != nil && p.Status != *f.Status {
		return false
	}

	return true
}

// PrintProperties renders every property matching f, one line per property
// in index order, using the kind and status strings of the output
// contract.
func (db *DB) PrintProperties(f Filter) []string {
	var out []string
	for _, p := range db.props {
		if !f.matches(p) {
			continue
		}
		out = append(out, db.printOne(p))
	}

	return out
}

func (db *DB) printOne(p *Property) string {
	line := fmt.Sprintf("[%3d] %-7s %-9s %s", p.Index, p.Kind, p.Status, dagexpr.Print(db.in, p.Expr, nil))
	if p.Status == StatusNumber {
		if p.Number.Infinite {
			line += " = infinity"
		} else {
			line += fmt.Sprintf(" = %d", p.Number.Value)
		}
	}
	if p.TraceID >= 0 {
		line += fmt.Sprintf(" (trace %d)", p.TraceID)
	}

	return line
}

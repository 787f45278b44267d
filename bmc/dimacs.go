package bmc

import (
	"strconv"
	"strings"

	"github.com/katalvlaran/nuxlite/be"
)

// DumpDIMACS renders cnf in the standard DIMACS CNF text format ("p cnf
// <vars> <clauses>" header, one 0-terminated clause per line), for requests
// that dump the formula without necessarily solving it.
func DumpDIMACS(cnf be.CNF) string {
	var b strings.Builder

	b.WriteString("p cnf ")
	b.WriteString(strconv.Itoa(cnf.NumVars))
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(len(cnf.Clauses)))
	b.WriteByte('\n')

	for _, clause := range cnf.Clauses {
		for _, lit := range clause {
			b.WriteString(strconv.Itoa(lit))
			b.WriteByte(' ')
		}
		b.WriteString("0\n")
	}

	return b.String()
}

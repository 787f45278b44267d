// Package session threads the process-wide collaborators — expression
// interner, variable registry, trace manager, property database and logger
// — through one explicit context object instead of module-level globals:
// the "single session per process" assumption becomes a parameter, not a
// package variable.
//
// session.New(session.WithLogger(...), ...) wires every subsystem once;
// component constructors then borrow from the Session rather than reaching
// for package state. The registry's own PushStatus/PopStatus stack is kept
// alongside for the tableau's nested-scope needs.
package session

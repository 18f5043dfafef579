// Package common contains shared constants and sentinel errors used across
// nzbmule components.
package common

// Scope selects which poster configuration profile applies and which
// partition of the resume ledger a run reads and writes. It is fixed for
// the duration of one run.
type Scope string

const (
	ScopePublic  Scope = "public"
	ScopePrivate Scope = "private"
)

func (s Scope) String() string {
	return string(s)
}

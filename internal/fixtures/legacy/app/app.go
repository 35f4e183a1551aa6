// Package app shares its name with fixtures/app to exercise ambiguous
// short type names.
package app

type Logger struct {
	Prefix string
}

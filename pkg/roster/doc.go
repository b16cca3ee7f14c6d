// Package roster parses course roster files and derives the repository
// names and member lists to provision from them.
//
// The package includes:
// - Parse for turning comma-separated roster text into ordered entries
// - BuildTargets for the deterministic naming and grouping scheme
// - Syntax validators for usernames and computed repository names
package roster

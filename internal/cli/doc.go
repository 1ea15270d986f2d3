// Package cli implements the command-line interface for lec-results.
//
// The cli package provides the Cobra-based command that takes one or more match-history URLs,
// extracts each match's date, teams and first-objective owner, and prints the results as an
// aligned text table or as JSON. It wires configuration, logging, page sessions and the results
// getter together.
package cli

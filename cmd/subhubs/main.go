// Package main provides the entry point for the subhubs CLI.
//
// subhubs places generated flashcard pages into the subhubs of a two-level
// hub/subhub taxonomy and audits the placements already made.
//
// Usage:
//
//	subhubs assign [--dry-run] [--reassign-low-confidence]
//	subhubs audit [--report-output FILE]
//	subhubs history [--show ID]
//
// See --help for all available options.
package main

func main() {
	Execute()
}

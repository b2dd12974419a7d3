// Package main provides the entry point for the docscan CLI.
//
// Docscan is a documentation integrity checker for Markdown/MDX trees.
// It verifies that anchors are unique, cross-references resolve, and
// embedded code snippets are structurally well formed.
//
// Usage:
//
//	docscan scan <docs-dir>
//	docscan scan --json <docs-dir>
//
// See --help for all available options.
package main

// main is the entry point for docscan.
func main() {
	Execute()
}

// Package loader reads documentation units from disk and parses their
// heading, prose, and fenced-code structure into model.Page entities.
//
// Loading is a pure transform with no side effects. Structural parse
// failures surface as *MalformedInputError and abort the run; everything
// content-level is left to the checkers.
package loader

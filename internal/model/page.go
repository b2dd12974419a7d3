package model

import (
	"crypto/sha256"
	"encoding/hex"
)

// Page represents one documentation unit loaded from disk.
// A page is identified by a stable, slash-separated, extension-stripped
// path relative to the scan root (e.g. "book/types"), matching the form
// internal links use to address it.
//
// Pages are immutable once loaded: the loader owns their construction and
// downstream checkers only read them. This is what makes the phase-2
// parallel checking safe without locks.
type Page struct {
	// ID is the page identifier: the root-relative path with forward
	// slashes and the markup extension stripped.
	ID string `json:"id"`

	// SourcePath is the path of the source file relative to the scan root,
	// extension included. Used for display and for locating the file again.
	SourcePath string `json:"source_path"`

	// Sections holds the page content as a flat, ordered sequence of
	// level-annotated sections.
	//
	// Design decision: Heading hierarchy naturally forms a tree, but we
	// model it as a flat leveled sequence to avoid recursive ownership
	// graphs. Consumers that need hierarchy reconstruct it from levels.
	Sections []Section `json:"sections"`

	// FrontMatter is the raw frontmatter block, passed through opaquely.
	// The scanner never interprets it.
	FrontMatter string `json:"-"`

	// SourceLen is the length in bytes of the raw source file.
	SourceLen int `json:"source_len"`

	// Hash is the SHA-256 hash of the raw source.
	// Used by the history database for change detection between runs.
	Hash string `json:"hash"`
}

// Section is a heading and its associated body content within a Page.
//
// A page may begin with content before its first heading; that content is
// attached to an implicit preamble section with Level 0 and an empty slug,
// which registers no anchor.
type Section struct {
	// Heading is the heading text with any explicit anchor suffix removed.
	Heading string `json:"heading"`

	// Level is the heading level, 1-6. Level 0 marks the implicit preamble.
	Level int `json:"level"`

	// Slug is the anchor identifier for this section. It is either
	// generated deterministically from the heading text or taken from an
	// explicit [#anchor] override, in which case the generated form is
	// not registered at all.
	Slug string `json:"slug"`

	// ExplicitSlug is true when the slug came from an [#anchor] override.
	ExplicitSlug bool `json:"explicit_slug,omitempty"`

	// Line is the 1-based line number of the heading in the source file.
	Line int `json:"line"`

	// Blocks holds the section body in document order.
	Blocks []Block `json:"blocks,omitempty"`
}

// BlockKind discriminates the Block tagged union.
type BlockKind string

const (
	// BlockProse is running text, possibly containing links.
	BlockProse BlockKind = "prose"

	// BlockCode is a fenced code snippet.
	BlockCode BlockKind = "code"
)

// Block is one body element of a Section: either prose text or a code
// snippet. Kind selects which of the payload fields is meaningful.
type Block struct {
	// Kind is the block discriminator.
	Kind BlockKind `json:"kind"`

	// Line is the 1-based line number where the block starts.
	Line int `json:"line"`

	// Text is the prose content. Only set for BlockProse.
	Text string `json:"text,omitempty"`

	// Snippet is the code sample. Only set for BlockCode.
	Snippet *Snippet `json:"snippet,omitempty"`
}

// Snippet is an embedded, non-executed code sample with a declared
// language tag.
type Snippet struct {
	// Lang is the declared language tag from the fence info string.
	// Empty when the fence declared no language.
	Lang string `json:"lang"`

	// Meta is the remainder of the fence info string after the language
	// tag (e.g. a "copy" or filename hint). It is passed through opaquely
	// and never interpreted.
	Meta string `json:"meta,omitempty"`

	// Content is the raw snippet body, without the fence lines.
	Content string `json:"content"`

	// StartLine is the 1-based line number of the opening fence.
	StartLine int `json:"start_line"`
}

// ComputeHash calculates and sets the SHA-256 hash of the raw source.
// The loader calls this once with the file contents it just read.
func (p *Page) ComputeHash(raw []byte) {
	if len(raw) == 0 {
		p.Hash = ""
		return
	}

	hash := sha256.Sum256(raw)
	p.Hash = hex.EncodeToString(hash[:])
}

// SectionBySlug returns the first section registered under the given slug.
// Returns nil if no section carries the slug.
func (p *Page) SectionBySlug(slug string) *Section {
	for i := range p.Sections {
		if p.Sections[i].Slug == slug && p.Sections[i].Level > 0 {
			return &p.Sections[i]
		}
	}
	return nil
}

// SnippetCount returns the number of code snippets on the page.
func (p *Page) SnippetCount() int {
	count := 0
	for _, sec := range p.Sections {
		for _, b := range sec.Blocks {
			if b.Kind == BlockCode {
				count++
			}
		}
	}
	return count
}

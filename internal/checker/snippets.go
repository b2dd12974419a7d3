package checker

import (
	"fmt"
	"strings"

	"github.com/PavelVaskou/docscan/internal/model"
)

// languageProfile describes the comment and string syntax of a snippet
// language, so delimiters inside literals and comments are excluded from
// the balance count.
type languageProfile struct {
	// lineComments are markers that comment out the rest of the line.
	lineComments []string

	// blockCommentStart and blockCommentEnd delimit block comments.
	// Empty when the language has none.
	blockCommentStart string
	blockCommentEnd   string

	// stringDelims are quoting characters. A backslash escapes the next
	// character inside all of them except rawStringDelim.
	stringDelims []byte

	// rawStringDelim is a quoting character with no escape processing
	// (Go's backtick). Zero when the language has none.
	rawStringDelim byte
}

// languageProfiles maps language tags to their syntax profiles. Tags not
// listed fall back to defaultProfile, which understands the common
// C-family syntax plus # line comments; that keeps the check useful for
// tags we have never heard of without misreading most of them.
var languageProfiles = map[string]languageProfile{
	"tact": {
		lineComments:      []string{"//"},
		blockCommentStart: "/*",
		blockCommentEnd:   "*/",
		stringDelims:      []byte{'"'},
	},
	"func": {
		lineComments:      []string{";;"},
		blockCommentStart: "{-",
		blockCommentEnd:   "-}",
		stringDelims:      []byte{'"'},
	},
	"go": {
		lineComments:      []string{"//"},
		blockCommentStart: "/*",
		blockCommentEnd:   "*/",
		stringDelims:      []byte{'"', '\''},
		rawStringDelim:    '`',
	},
	"javascript": {
		lineComments:      []string{"//"},
		blockCommentStart: "/*",
		blockCommentEnd:   "*/",
		stringDelims:      []byte{'"', '\'', '`'},
	},
	"typescript": {
		lineComments:      []string{"//"},
		blockCommentStart: "/*",
		blockCommentEnd:   "*/",
		stringDelims:      []byte{'"', '\'', '`'},
	},
	"json": {
		stringDelims: []byte{'"'},
	},
	"yaml": {
		lineComments: []string{"#"},
		stringDelims: []byte{'"', '\''},
	},
	"bash": {
		lineComments: []string{"#"},
		stringDelims: []byte{'"', '\''},
	},
	"python": {
		lineComments: []string{"#"},
		stringDelims: []byte{'"', '\''},
	},
}

// Aliases for the common tag spellings.
func init() {
	languageProfiles["js"] = languageProfiles["javascript"]
	languageProfiles["ts"] = languageProfiles["typescript"]
	languageProfiles["sh"] = languageProfiles["bash"]
	languageProfiles["shell"] = languageProfiles["bash"]
	languageProfiles["yml"] = languageProfiles["yaml"]
}

// defaultProfile is used for unknown language tags.
var defaultProfile = languageProfile{
	lineComments:      []string{"//", "#"},
	blockCommentStart: "/*",
	blockCommentEnd:   "*/",
	stringDelims:      []byte{'"', '\''},
}

// SnippetValidator checks embedded code samples for structural
// well-formedness. It never type-checks or executes snippet content;
// that would require the language's own toolchain.
type SnippetValidator struct {
	// allowed is the configured language allow-list. Nil means any
	// language tag is accepted.
	allowed map[string]bool
}

// SnippetStats counts what one CheckPage call looked at.
type SnippetStats struct {
	// Checked is the number of snippets validated.
	Checked int
}

// NewSnippetValidator creates a SnippetValidator. When allowedLanguages
// is non-empty, snippets declaring a tag outside the list are flagged
// with a warning.
func NewSnippetValidator(allowedLanguages []string) *SnippetValidator {
	v := &SnippetValidator{}
	if len(allowedLanguages) > 0 {
		v.allowed = make(map[string]bool, len(allowedLanguages))
		for _, lang := range allowedLanguages {
			v.allowed[strings.ToLower(lang)] = true
		}
	}
	return v
}

// CheckPage validates every code snippet on the page. CheckPage only
// reads the page, so it is safe to run for many pages concurrently.
func (v *SnippetValidator) CheckPage(page *model.Page) ([]model.Finding, SnippetStats) {
	var findings []model.Finding
	var stats SnippetStats

	for _, sec := range page.Sections {
		for _, block := range sec.Blocks {
			if block.Kind != model.BlockCode || block.Snippet == nil {
				continue
			}
			stats.Checked++
			findings = append(findings, v.checkSnippet(page.ID, block.Snippet)...)
		}
	}

	return findings, stats
}

// checkSnippet runs all per-snippet checks.
func (v *SnippetValidator) checkSnippet(pageID string, snip *model.Snippet) []model.Finding {
	var findings []model.Finding

	switch {
	case snip.Lang == "":
		findings = append(findings, model.NewFinding(
			"missing_language_tag",
			"Missing Language Tag",
			"Fenced code block declares no language",
			pageID,
			snip.StartLine,
			"",
		))
	case v.allowed != nil && !v.allowed[strings.ToLower(snip.Lang)]:
		findings = append(findings, model.NewFinding(
			"unknown_language_tag",
			"Unknown Language Tag",
			fmt.Sprintf("Language %q is not in the configured allow-list", snip.Lang),
			pageID,
			snip.StartLine,
			snip.Lang,
		))
	}

	if strings.TrimSpace(snip.Content) == "" {
		findings = append(findings, model.NewFinding(
			"empty_snippet",
			"Empty Snippet",
			"Fenced code block has no content",
			pageID,
			snip.StartLine,
			snip.Lang,
		))
		return findings
	}

	if f, ok := v.checkBalance(pageID, snip); !ok {
		findings = append(findings, f)
	}

	return findings
}

// opener records an unmatched opening delimiter and where it was seen.
type opener struct {
	char byte
	line int
}

// closerFor maps closing delimiters to their opening counterparts.
var closerFor = map[byte]byte{')': '(', ']': '[', '}': '{'}

// checkBalance lexes the snippet counting brace, paren, and bracket
// balance, skipping string literals and comments per the language
// profile. Unbalanced state mid-snippet is not reported separately; only
// the final imbalance and the first unmatched opener's location are.
func (v *SnippetValidator) checkBalance(pageID string, snip *model.Snippet) (model.Finding, bool) {
	profile, ok := languageProfiles[strings.ToLower(snip.Lang)]
	if !ok {
		profile = defaultProfile
	}

	src := snip.Content
	// Content begins on the line after the opening fence.
	line := snip.StartLine + 1

	var stack []opener
	extraClosers := 0
	extraCloserLine := 0

	for i := 0; i < len(src); i++ {
		ch := src[i]

		if ch == '\n' {
			line++
			continue
		}

		// Line comments run to end of line. A bare # only starts a
		// comment at line start or after whitespace, so shell parameter
		// forms like $# and ${#arr[@]} keep their delimiters counted.
		if marker := matchAny(src, i, profile.lineComments); marker != "" &&
			(marker != "#" || hashCommentAt(src, i)) {
			for i < len(src) && src[i] != '\n' {
				i++
			}
			i-- // Let the loop handle the newline.
			continue
		}

		// Block comments may span lines.
		if profile.blockCommentStart != "" && strings.HasPrefix(src[i:], profile.blockCommentStart) {
			end := strings.Index(src[i+len(profile.blockCommentStart):], profile.blockCommentEnd)
			if end < 0 {
				// Unterminated comment swallows the rest; nothing more to count.
				break
			}
			span := src[i : i+len(profile.blockCommentStart)+end+len(profile.blockCommentEnd)]
			line += strings.Count(span, "\n")
			i += len(span) - 1
			continue
		}

		// Raw strings have no escape processing.
		if profile.rawStringDelim != 0 && ch == profile.rawStringDelim {
			j := i + 1
			for j < len(src) && src[j] != profile.rawStringDelim {
				if src[j] == '\n' {
					line++
				}
				j++
			}
			i = j
			continue
		}

		// Quoted strings honor backslash escapes.
		if isDelim(ch, profile.stringDelims) {
			j := i + 1
			for j < len(src) && src[j] != ch {
				if src[j] == '\\' {
					j++
				} else if src[j] == '\n' {
					// Unterminated on this line; treat the newline as the
					// end so a stray quote doesn't swallow the snippet.
					break
				}
				j++
			}
			i = j
			if i < len(src) && src[i] == '\n' {
				i-- // Let the loop handle the newline.
			}
			continue
		}

		switch ch {
		case '(', '[', '{':
			stack = append(stack, opener{char: ch, line: line})
		case ')', ']', '}':
			if len(stack) > 0 && stack[len(stack)-1].char == closerFor[ch] {
				stack = stack[:len(stack)-1]
			} else {
				extraClosers++
				if extraCloserLine == 0 {
					extraCloserLine = line
				}
			}
		}
	}

	if len(stack) == 0 && extraClosers == 0 {
		return model.Finding{}, true
	}

	var desc string
	findingLine := snip.StartLine
	switch {
	case len(stack) > 0 && extraClosers > 0:
		desc = fmt.Sprintf("%d unclosed and %d unopened delimiter(s); first unclosed %q opened at line %d",
			len(stack), extraClosers, string(stack[0].char), stack[0].line)
		findingLine = stack[0].line
	case len(stack) > 0:
		desc = fmt.Sprintf("%d unclosed delimiter(s); first unclosed %q opened at line %d",
			len(stack), string(stack[0].char), stack[0].line)
		findingLine = stack[0].line
	default:
		desc = fmt.Sprintf("%d closing delimiter(s) without a matching opener, first at line %d",
			extraClosers, extraCloserLine)
		findingLine = extraCloserLine
	}

	return model.NewFinding(
		"malformed_snippet",
		"Unbalanced Snippet Delimiters",
		desc,
		pageID,
		findingLine,
		snip.Lang,
	), false
}

// hashCommentAt reports whether a # at position i sits at line start or
// after whitespace, the only places it introduces a comment.
func hashCommentAt(src string, i int) bool {
	if i == 0 {
		return true
	}
	switch src[i-1] {
	case ' ', '\t', '\n':
		return true
	}
	return false
}

// matchAny returns the first marker that prefixes src at position i,
// or "" when none does.
func matchAny(src string, i int, markers []string) string {
	for _, m := range markers {
		if strings.HasPrefix(src[i:], m) {
			return m
		}
	}
	return ""
}

// isDelim reports whether ch is one of the profile's string delimiters.
func isDelim(ch byte, delims []byte) bool {
	for _, d := range delims {
		if ch == d {
			return true
		}
	}
	return false
}

package loader

import (
	"regexp"
	"strings"

	"github.com/PavelVaskou/docscan/internal/index"
	"github.com/PavelVaskou/docscan/internal/model"
)

// Parsing patterns for the MDX-like page format.
//
// Design decision: We parse line-by-line with small regexes rather than
// pulling in a full Markdown AST because the scanner only needs three
// structural facts per page: where headings are, where code fences are,
// and what prose lies between them. Everything else (emphasis, lists,
// JSX components) is opaque prose as far as the checks are concerned.
var (
	// headingPattern matches ATX headings: 1-6 hash marks, then optional text.
	headingPattern = regexp.MustCompile(`^(#{1,6})(?:\s+(.*?))?\s*$`)

	// anchorOverridePattern matches a trailing explicit anchor override,
	// e.g. "## Self-references [#self]".
	anchorOverridePattern = regexp.MustCompile(`\s*\[#([^\]\s]+)\]\s*$`)

	// fencePattern matches the opening line of a fenced code block and
	// captures the fence characters and the info string.
	fencePattern = regexp.MustCompile("^(`{3,}|~{3,})\\s*(.*)$")
)

// frontMatterDelimiter separates the optional frontmatter block.
const frontMatterDelimiter = "---"

// ParsePage parses one documentation unit into a Page.
//
// The heading hierarchy is flattened into a single ordered sequence
// annotated with level; content before the first heading is attached to
// an implicit level-0 preamble section that registers no anchor.
//
// It returns a *MalformedInputError when the unit has no parseable
// heading structure or a code fence is left unterminated at end of file.
func ParsePage(pageID, sourcePath string, raw []byte) (*model.Page, error) {
	page := &model.Page{
		ID:         pageID,
		SourcePath: sourcePath,
		SourceLen:  len(raw),
	}
	page.ComputeHash(raw)

	lines := strings.Split(string(raw), "\n")
	pos := 0

	// Frontmatter is passed through opaquely and never interpreted.
	if len(lines) > 0 && strings.TrimSpace(lines[0]) == frontMatterDelimiter {
		for i := 1; i < len(lines); i++ {
			if strings.TrimSpace(lines[i]) == frontMatterDelimiter {
				page.FrontMatter = strings.Join(lines[1:i], "\n")
				pos = i + 1
				break
			}
		}
	}

	current := model.Section{Level: 0, Line: pos + 1}
	var proseStart int
	var prose []string

	flushProse := func() {
		if len(prose) == 0 {
			return
		}
		current.Blocks = append(current.Blocks, model.Block{
			Kind: model.BlockProse,
			Line: proseStart,
			Text: strings.Join(prose, "\n"),
		})
		prose = nil
	}

	sawHeading := false

	for pos < len(lines) {
		line := lines[pos]

		if m := fencePattern.FindStringSubmatch(line); m != nil {
			flushProse()
			snippet, next, err := parseFence(pageID, lines, pos, m[1], m[2])
			if err != nil {
				return nil, err
			}
			current.Blocks = append(current.Blocks, model.Block{
				Kind:    model.BlockCode,
				Line:    snippet.StartLine,
				Snippet: snippet,
			})
			pos = next
			continue
		}

		if m := headingPattern.FindStringSubmatch(line); m != nil {
			flushProse()
			page.Sections = append(page.Sections, current)

			current = parseHeading(len(m[1]), m[2], pos+1)
			sawHeading = true
			pos++
			continue
		}

		if strings.TrimSpace(line) == "" {
			flushProse()
		} else {
			if len(prose) == 0 {
				proseStart = pos + 1
			}
			prose = append(prose, line)
		}
		pos++
	}

	flushProse()
	page.Sections = append(page.Sections, current)

	if !sawHeading {
		return nil, &MalformedInputError{
			Page:   pageID,
			Reason: "no parseable heading structure",
		}
	}

	// Drop an empty preamble so pages that start with a heading don't
	// carry a phantom section.
	if page.Sections[0].Level == 0 && len(page.Sections[0].Blocks) == 0 {
		page.Sections = page.Sections[1:]
	}

	return page, nil
}

// parseHeading builds a Section from a heading line. An explicit
// [#anchor] override replaces the generated slug entirely; the generated
// form is not registered alongside it.
func parseHeading(level int, text string, line int) model.Section {
	sec := model.Section{
		Level: level,
		Line:  line,
	}

	text = strings.TrimSpace(text)
	if m := anchorOverridePattern.FindStringSubmatch(text); m != nil {
		sec.Heading = strings.TrimSpace(anchorOverridePattern.ReplaceAllString(text, ""))
		sec.Slug = index.Slugify(m[1])
		sec.ExplicitSlug = true
		return sec
	}

	sec.Heading = text
	sec.Slug = index.Slugify(text)
	return sec
}

// parseFence consumes a fenced code block starting at lines[start].
// It returns the snippet and the index of the line after the closing
// fence. An unterminated fence is a structural failure: the rest of the
// file cannot be told apart from code, so parsing aborts.
func parseFence(pageID string, lines []string, start int, fence, info string) (*model.Snippet, int, error) {
	snippet := &model.Snippet{
		StartLine: start + 1,
	}

	info = strings.TrimSpace(info)
	if info != "" {
		fields := strings.Fields(info)
		snippet.Lang = fields[0]
		if len(fields) > 1 {
			snippet.Meta = strings.Join(fields[1:], " ")
		}
	}

	fenceChar := fence[0]
	var body []string

	for i := start + 1; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if len(trimmed) >= len(fence) && strings.Trim(trimmed, string(fenceChar)) == "" {
			snippet.Content = strings.Join(body, "\n")
			return snippet, i + 1, nil
		}
		body = append(body, lines[i])
	}

	return nil, 0, &MalformedInputError{
		Page:   pageID,
		Line:   start + 1,
		Reason: "unterminated code fence",
	}
}

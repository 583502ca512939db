package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/unitgen/tags"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "reload", "edit", "clear", "quit"}

// isWordBoundary reports whether r ends a completable word: the punctuation
// of invocations and placeholders, plus whitespace.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t',
		'(', ')', ',', '=',
		':', '#', '$', '{', '}', '[', ']', '%':
		return true
	}

	return false
}

// wordBounds returns the word around cursor and its byte boundaries in
// input. The word is empty when the cursor sits between two boundaries.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// argumentStart reports whether the word at start begins an argument of an
// invocation, where a parameter name may be written.
func argumentStart(input string, start int) bool {
	prefix := strings.TrimRight(input[:start], " \t")

	return strings.HasSuffix(prefix, "(") || strings.HasSuffix(prefix, ",")
}

// candidates returns the completions of the word at start in expand mode,
// and whether they apply to an empty word.
//
// Right after an invocation marker, every visible tag name is a candidate.
// At the start of an argument, the parameter names of the enclosing tag are.
func (s *session) candidates(input string, start int) ([]string, bool) {
	if strings.HasSuffix(input[:start], tags.Marker) {
		return s.names(), true
	}

	if !argumentStart(input, start) {
		return nil, false
	}

	call := detectCall(input, start)
	if !call.inCall {
		return nil, false
	}

	t, ok := s.lookup(call.name)
	if !ok {
		return nil, false
	}

	return t.Params, false
}

// computeMatches returns the fuzzy matches for the word at the cursor, best
// first, with the candidate list and the word boundaries.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	showAll := false

	if m.mode == modeCtrl {
		candidates = ctrlCommands
	} else {
		candidates, showAll = m.session.candidates(input, wordStart)
	}

	if len(candidates) == 0 || (word == "" && !showAll) {
		return nil, nil, wordStart, wordEnd
	}

	if word == "" {
		matches = make(fuzzy.Matches, len(candidates))
		for i, c := range candidates {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, candidates, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar renders the matches on one line no wider than width,
// ending in an ellipsis when they do not fit.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	reserve := lipgloss.Width(sep) + lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)
		w := lipgloss.Width(rendered)

		if i > 0 {
			w += lipgloss.Width(sep)

			last := i == len(matches)-1
			if used+w > width || (!last && used+w+reserve > width) {
				b.WriteString(sep)
				b.WriteString(ellipsis)

				break
			}

			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, i := range match.MatchedIndexes {
		matched[i] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}

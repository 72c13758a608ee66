package bibtex

import "strings"

// Parse extracts all bibliographic entries from BibTeX source text, in
// document order. It is a pure function: each call parses from scratch
// and no state is carried between calls.
//
// Parsing is maximally permissive. Comment lines are stripped first,
// @string/@comment/@preamble constructs are skipped, entries whose
// braces never balance are dropped, and field assignments that match no
// recognized shape are skipped. No input aborts the whole parse;
// whatever valid entries exist are returned.
func Parse(src string) []Entry {
	var entries []Entry
	for _, raw := range scanEntries(stripComments(src)) {
		entries = append(entries, Entry{
			Type:   raw.typ,
			Key:    raw.key,
			Fields: decodeFields(raw.body),
		})
	}
	return entries
}

// Entry kinds that define macros or commentary rather than records.
func isNonRecordType(typ string) bool {
	switch typ {
	case "string", "comment", "preamble":
		return true
	}
	return false
}

// stripComments removes comment text occurring outside any delimited
// value: '%' to end of line, and whole lines whose first non-blank
// character is '#'. The '%' marker is honored between entries and
// between fields inside an entry body; a literal '%' inside a brace or
// quote delimited value survives. '#' lines are only dropped between
// entries.
func stripComments(src string) string {
	var b strings.Builder
	b.Grow(len(src))
	depth := 0
	inQuote := false
	atLineStart := true
	for i := 0; i < len(src); i++ {
		c := src[i]
		if depth == 0 && atLineStart && isHashCommentLine(src[i:]) {
			i = skipToEOL(src, i)
			continue
		}
		atLineStart = false
		switch c {
		case '%':
			// Depth 0 is between entries, depth 1 between fields.
			// Anything deeper is inside a brace value.
			if !inQuote && depth <= 1 {
				i = skipToEOL(src, i)
				atLineStart = true
				b.WriteByte('\n')
				continue
			}
		case '"':
			// Quoted values sit directly in the entry body.
			if depth == 1 {
				inQuote = !inQuote
			}
		case '\\':
			if inQuote && i+1 < len(src) {
				b.WriteByte(c)
				i++
				c = src[i]
			}
		case '{':
			if !inQuote {
				depth++
			}
		case '}':
			if !inQuote && depth > 0 {
				depth--
			}
		case '\n':
			atLineStart = true
		}
		b.WriteByte(c)
	}
	return b.String()
}

// isHashCommentLine reports whether the line starting at s begins,
// after optional blanks, with '#'.
func isHashCommentLine(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\r':
			continue
		case '#':
			return true
		default:
			return false
		}
	}
	return false
}

// skipToEOL returns the index of the newline ending the line that
// contains position i, or len(src)-1 if the input ends first.
func skipToEOL(src string, i int) int {
	for i < len(src) && src[i] != '\n' {
		i++
	}
	if i >= len(src) {
		return len(src) - 1
	}
	return i
}

// rawEntry is one isolated entry body, before field decoding.
type rawEntry struct {
	typ  string // lowercased entry kind
	key  string // citation key, trimmed
	body string // text between the key's comma and the matching close brace
}

// scanEntries locates each top-level @type{key,...} construct and
// isolates its raw body using a running brace-depth counter, which is
// required because field values may contain nested balanced braces.
//
// An entry whose braces never return to depth 0 is dropped; scanning
// resumes just past its header so later entries still parse.
func scanEntries(src string) []rawEntry {
	var out []rawEntry
	i := 0
	for i < len(src) {
		at := strings.IndexByte(src[i:], '@')
		if at < 0 {
			break
		}
		i += at + 1

		// Entry kind: identifier immediately after '@'.
		j := i
		for j < len(src) && isIdentByte(src[j]) {
			j++
		}
		typ := strings.ToLower(src[i:j])
		if typ == "" {
			continue
		}
		j = skipSpace(src, j)
		if j >= len(src) || src[j] != '{' {
			i = j
			continue
		}
		open := j

		if isNonRecordType(typ) {
			// Macro definitions and commentary: skip the whole
			// balanced group, or give up on it at EOF.
			if close := matchBrace(src, open); close >= 0 {
				i = close + 1
			} else {
				i = open + 1
			}
			continue
		}

		close := matchBrace(src, open)
		if close < 0 {
			// Unterminated entry: discard it, but rescan its interior
			// so well-formed entries after the breakage survive.
			i = open + 1
			continue
		}

		inner := src[open+1 : close]
		key, body, hasComma := strings.Cut(inner, ",")
		key = strings.TrimSpace(key)
		if !hasComma {
			body = ""
		}
		if key == "" {
			i = close + 1
			continue
		}
		out = append(out, rawEntry{typ: typ, key: key, body: body})
		i = close + 1
	}
	return out
}

// matchBrace returns the index of the brace matching the opener at
// src[open], counting nested pairs, or -1 if depth never returns to 0.
func matchBrace(src string, open int) int {
	depth := 0
	for i := open; i < len(src); i++ {
		switch src[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// Field decoder states.
type decodeState int

const (
	stateScanName decodeState = iota
	stateBraceValue
	stateQuotedValue
	stateBareValue
)

// decodeFields turns a raw entry body into the field mapping.
//
// It recognizes name = value assignments where the value is brace
// delimited (outermost pair stripped, interior pairs preserved), double
// quote delimited (text to the next unescaped quote, newlines kept), or
// a bare token ending at a comma or whitespace. Names are lowercased,
// values trimmed, and empty values dropped. Duplicate names keep the
// last occurrence. Fragments matching no shape are skipped up to the
// next top-level comma without aborting the entry.
func decodeFields(body string) map[string]string {
	fields := make(map[string]string)
	i := 0
	for i < len(body) {
		// Between fields: commas, blank lines, arbitrary spacing.
		for i < len(body) && (isSpaceByte(body[i]) || body[i] == ',') {
			i++
		}
		if i >= len(body) {
			break
		}

		start := i
		for i < len(body) && isIdentByte(body[i]) {
			i++
		}
		if i == start {
			i = skipToTopLevelComma(body, i)
			continue
		}
		name := strings.ToLower(body[start:i])

		i = skipSpace(body, i)
		if i >= len(body) || body[i] != '=' {
			i = skipToTopLevelComma(body, i)
			continue
		}
		i = skipSpace(body, i+1)
		if i >= len(body) {
			break
		}

		var value string
		var ok bool
		switch stateFor(body[i]) {
		case stateBraceValue:
			value, i, ok = scanBraceValue(body, i)
		case stateQuotedValue:
			value, i, ok = scanQuotedValue(body, i)
		default:
			value, i, ok = scanBareValue(body, i)
		}
		if !ok {
			i = skipToTopLevelComma(body, i)
			continue
		}
		if value = strings.TrimSpace(value); value != "" {
			fields[name] = value
		}
	}
	return fields
}

func stateFor(c byte) decodeState {
	switch c {
	case '{':
		return stateBraceValue
	case '"':
		return stateQuotedValue
	}
	return stateBareValue
}

// scanBraceValue consumes a {...} group starting at body[i], returning
// the text between the outermost pair. Interior balanced pairs are kept
// verbatim.
func scanBraceValue(body string, i int) (string, int, bool) {
	close := matchBrace(body, i)
	if close < 0 {
		return "", len(body), false
	}
	return body[i+1 : close], close + 1, true
}

// scanQuotedValue consumes a "..." value starting at body[i]. The value
// ends at the next unescaped double quote and may span lines.
func scanQuotedValue(body string, i int) (string, int, bool) {
	for j := i + 1; j < len(body); j++ {
		switch body[j] {
		case '\\':
			j++
		case '"':
			return body[i+1 : j], j + 1, true
		}
	}
	return "", len(body), false
}

// scanBareValue consumes an unquoted token such as a month abbreviation
// or a numeric year, ending at a comma or whitespace.
func scanBareValue(body string, i int) (string, int, bool) {
	j := i
	for j < len(body) && !isSpaceByte(body[j]) && body[j] != ',' {
		j++
	}
	return body[i:j], j, true
}

// skipToTopLevelComma advances past unrecognized text to just after the
// next comma at brace depth 0, so one bad fragment never takes the rest
// of the entry with it.
func skipToTopLevelComma(body string, i int) int {
	depth := 0
	for ; i < len(body); i++ {
		switch body[i] {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				return i + 1
			}
		}
	}
	return i
}

func isIdentByte(c byte) bool {
	return c == '_' ||
		'a' <= c && c <= 'z' ||
		'A' <= c && c <= 'Z' ||
		'0' <= c && c <= '9'
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func skipSpace(s string, i int) int {
	for i < len(s) && isSpaceByte(s[i]) {
		i++
	}
	return i
}

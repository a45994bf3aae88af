package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
)

// tokenizeFunc is one tokenization strategy: a pure function from text and
// delimiter to rows. Strategies never drop rows; they either produce every
// row of the input or fail as a whole.
type tokenizeFunc func(text string, delim rune) ([][]string, error)

// strategy pairs a tokenizer with the name surfaced in ParseAttempt records.
type strategy struct {
	name string
	fn   tokenizeFunc
}

// strategies is the fallback chain in increasing order of permissiveness.
var strategies = []strategy{
	{"strict-quote", tokenizeStrictQuote},
	{"escaped-quote", tokenizeEscapedQuote},
	{"quote-blind", tokenizeQuoteBlind},
	{"quote-repair", tokenizeQuoteRepair},
}

// errNoRows fails a strategy that produced an empty row set. Content-free
// input defeats every strategy, including the repair pass.
var errNoRows = errors.New("parser produced no rows")

// tokenizeStrictQuote parses with the standard quoted-field grammar:
// doubled quotes escape a literal quote, delimiters and newlines inside a
// quoted field are literal.
func tokenizeStrictQuote(text string, delim rune) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errNoRows
	}
	return rows, nil
}

// tokenizeEscapedQuote parses like tokenizeStrictQuote but additionally
// recognizes a backslash preceding any character, including the quote
// character, as a literal escape.
func tokenizeEscapedQuote(text string, delim rune) ([][]string, error) {
	var rows [][]string
	var row []string
	var field strings.Builder

	inQuotes := false
	quoted := false // current field was opened with a quote
	sawAny := false // current line has any content
	lineNum := 1

	flushField := func() {
		row = append(row, field.String())
		field.Reset()
		quoted = false
	}
	flushRow := func() {
		if !sawAny {
			return
		}
		flushField()
		rows = append(rows, row)
		row = nil
		sawAny = false
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if inQuotes {
			switch r {
			case '\\':
				if i+1 >= len(runes) {
					return nil, fmt.Errorf("line %d: trailing escape character", lineNum)
				}
				i++
				field.WriteRune(runes[i])
			case '"':
				if i+1 < len(runes) && runes[i+1] == '"' {
					i++
					field.WriteRune('"')
				} else {
					inQuotes = false
				}
			default:
				if r == '\n' {
					lineNum++
				}
				field.WriteRune(r)
			}
			continue
		}

		switch {
		case r == '\\':
			if i+1 >= len(runes) {
				return nil, fmt.Errorf("line %d: trailing escape character", lineNum)
			}
			i++
			field.WriteRune(runes[i])
			sawAny = true
		case r == '"':
			if field.Len() > 0 || quoted {
				return nil, fmt.Errorf("line %d: bare quote in field", lineNum)
			}
			inQuotes = true
			quoted = true
			sawAny = true
		case r == delim:
			flushField()
			sawAny = true
		case r == '\r':
			// dropped; line endings are normalized at row boundaries
		case r == '\n':
			flushRow()
			lineNum++
		default:
			field.WriteRune(r)
			sawAny = true
		}
	}

	if inQuotes {
		return nil, fmt.Errorf("line %d: unterminated quoted field", lineNum)
	}
	flushRow()

	if len(rows) == 0 {
		return nil, errNoRows
	}
	return rows, nil
}

// tokenizeQuoteBlind splits each line on the delimiter only at even quote
// parity. It tracks parity per line rather than enforcing full grammar
// compliance, so quoting merely has to be balanced, not well formed. A line
// with an odd quote count fails the whole strategy.
func tokenizeQuoteBlind(text string, delim rune) ([][]string, error) {
	var rows [][]string
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.Count(line, `"`)%2 == 1 {
			return nil, fmt.Errorf("line %d: unbalanced quote", i+1)
		}
		rows = append(rows, splitOutsideQuotes(line, delim))
	}
	if len(rows) == 0 {
		return nil, errNoRows
	}
	return rows, nil
}

// splitOutsideQuotes splits a single balanced line on the delimiter at even
// quote parity. Field text is returned verbatim, quotes included.
func splitOutsideQuotes(line string, delim rune) []string {
	var fields []string
	var field strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			field.WriteRune(r)
		case r == delim && !inQuotes:
			fields = append(fields, field.String())
			field.Reset()
		default:
			field.WriteRune(r)
		}
	}
	fields = append(fields, field.String())

	return fields
}

// smartQuoteReplacer normalizes curly quote glyphs to their plain forms.
var smartQuoteReplacer = strings.NewReplacer(
	"“", `"`, // left double quotation mark
	"”", `"`, // right double quotation mark
	"‘", "'", // left single quotation mark
	"’", "'", // right single quotation mark
)

// repairQuotes applies the text-level soft fix: smart quotes become plain
// quotes, and on any line with an odd quote count every literal quote is
// replaced by a pair of apostrophes. The fix is deliberately lossy; it
// trades exact quote fidelity for a parseable line.
func repairQuotes(text string) string {
	text = smartQuoteReplacer.Replace(text)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.Count(line, `"`)%2 == 1 {
			lines[i] = strings.ReplaceAll(line, `"`, "''")
		}
	}
	return strings.Join(lines, "\n")
}

// tokenizeQuoteRepair re-attempts the parity split after repairQuotes.
func tokenizeQuoteRepair(text string, delim rune) ([][]string, error) {
	return tokenizeQuoteBlind(repairQuotes(text), delim)
}

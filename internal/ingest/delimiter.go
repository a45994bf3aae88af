package ingest

import (
	"strings"
)

// delimiterCandidates is the fixed candidate set. Exactly one candidate is
// selected per file; comma is the deterministic default.
var delimiterCandidates = []rune{',', ';', '|', '\t'}

// defaultDelimiter is returned when no candidate produced any observation.
const defaultDelimiter = ','

// delimiterScore is an immutable candidate record: the character, the modal
// per-line occurrence count, and the variance of counts around that mode.
type delimiterScore struct {
	delim    rune
	modal    int
	variance float64
}

// betterThan is the selection comparator: higher modal count first, then
// lower variance.
func (s delimiterScore) betterThan(other delimiterScore) bool {
	if s.modal != other.modal {
		return s.modal > other.modal
	}
	return s.variance < other.variance
}

// sampleLines returns the first limit non-blank lines of the text. The
// sample is used only for delimiter scoring, never for final parsing.
func sampleLines(text string, limit int) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) >= limit {
			break
		}
	}
	return lines
}

// modalValue returns the most frequent value in counts. Ties resolve to the
// value encountered first, which keeps repeated calls deterministic.
func modalValue(counts []int) int {
	freq := make(map[int]int, len(counts))
	best := counts[0]
	bestFreq := 0
	for _, c := range counts {
		freq[c]++
	}
	for _, c := range counts {
		if freq[c] > bestFreq {
			best = c
			bestFreq = freq[c]
		}
	}
	return best
}

// scoreDelimiter computes the candidate record for one delimiter over the
// sampled lines. ok is false when the candidate never occurs in the sample.
func scoreDelimiter(lines []string, delim rune) (delimiterScore, bool) {
	if len(lines) == 0 {
		return delimiterScore{}, false
	}

	counts := make([]int, len(lines))
	total := 0
	for i, line := range lines {
		counts[i] = strings.Count(line, string(delim))
		total += counts[i]
	}
	if total == 0 {
		return delimiterScore{}, false
	}

	mode := modalValue(counts)
	variance := 0.0
	for _, c := range counts {
		d := float64(c - mode)
		variance += d * d
	}
	variance /= float64(len(counts))

	return delimiterScore{delim: delim, modal: mode, variance: variance}, true
}

// inferDelimiter selects the delimiter maximizing (modal count, -variance)
// over the sampled lines. Candidates with zero observations are excluded;
// comma is returned when nothing scores at all.
func inferDelimiter(lines []string) rune {
	var best delimiterScore
	found := false
	for _, cand := range delimiterCandidates {
		score, ok := scoreDelimiter(lines, cand)
		if !ok {
			continue
		}
		if !found || score.betterThan(best) {
			best = score
			found = true
		}
	}
	if !found {
		return defaultDelimiter
	}
	return best.delim
}

// modalColumnCount estimates the typical field count of the sample for the
// chosen delimiter: the modal per-line delimiter count plus one. Used only
// as a diagnostic on total parse failure.
func modalColumnCount(lines []string, delim rune) int {
	if len(lines) == 0 {
		return 0
	}
	counts := make([]int, len(lines))
	for i, line := range lines {
		counts[i] = strings.Count(line, string(delim))
	}
	return modalValue(counts) + 1
}

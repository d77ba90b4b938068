package receipt

import "strings"

// Tuning for the duplicate-line heuristic. OCR on overlapping bands
// re-detects the physical rows near a cut boundary; the overlap is small
// relative to a band, so only a short tail and head window need scanning.
const (
	// tailScanWindow is how many trailing lines of a band are candidates
	// for being duplicated by the next band.
	tailScanWindow = 20

	// headScanLimit is how many leading lines of the next band are
	// searched for a reappearance.
	headScanLimit = 15

	// dupPrefixLen is the prefix length compared between lines.
	dupPrefixLen = 60

	// minDupLineLen keeps trivially short lines (totals, separators)
	// from triggering false matches.
	minDupLineLen = 5
)

// MergeResults stitches ordered per-band results into one transcript.
//
// A single band's text is returned verbatim. With multiple bands, each
// band's non-blank lines are kept up to a cutoff: the point where its tail
// content reappears at the head of the next band. Lines at and after the
// cutoff are dropped; the next band's rendering of that content is trusted
// going forward. When no reappearance is found the whole band is kept:
// the engine may have re-segmented the overlap rather than repeating lines.
func MergeResults(results []BandResult) string {
	if len(results) == 0 {
		return ""
	}
	if len(results) == 1 {
		return results[0].Text
	}

	var out []string
	for i, res := range results {
		lines := nonBlankLines(res.Text)
		if i == len(results)-1 {
			out = append(out, lines...)
			break
		}
		next := nonBlankLines(results[i+1].Text)
		out = append(out, lines[:cutoffIndex(lines, next)]...)
	}
	return strings.Join(out, "\n")
}

// cutoffIndex scans the tail of lines backward for the contiguous run that
// reappears at the head of the next band, and returns the index of the
// earliest line of that run. When nothing matches it returns len(lines),
// keeping everything.
func cutoffIndex(lines, nextLines []string) int {
	head := nextLines
	if len(head) > headScanLimit {
		head = head[:headScanLimit]
	}

	start := len(lines) - tailScanWindow
	if start < 0 {
		start = 0
	}

	cutoff := len(lines)
	matched := false
	for i := len(lines) - 1; i >= start; i-- {
		if len([]rune(lines[i])) < minDupLineLen {
			// Too short to compare reliably; doesn't end the run.
			continue
		}
		if matchesHead(lines[i], head) {
			cutoff = i
			matched = true
			continue
		}
		if matched {
			// The duplicated run ends here; anything further back is
			// content the next band never saw.
			break
		}
	}
	return cutoff
}

// matchesHead reports whether the line's prefix exactly matches the prefix
// of any head line.
func matchesHead(line string, head []string) bool {
	p := prefix(line, dupPrefixLen)
	if len([]rune(p)) < minDupLineLen {
		return false
	}
	for _, h := range head {
		if prefix(h, dupPrefixLen) == p {
			return true
		}
	}
	return false
}

func prefix(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}

func nonBlankLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// Package agent implements the quality-improvement loop that drives
// commentary generation: generate, review, gather missing data, regenerate,
// bounded by an iteration cap and a score threshold.
package agent

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Review responses are line-oriented with marker tokens. Compiled once at
// package level.
var promptSplitRegex = regexp.MustCompile(`\d+[).]\s+`)

// Review markers expected in the model's review response.
const (
	markerScore       = "QUALITY_SCORE:"
	markerFeedback    = "SHORT_FEEDBACK:"
	markerMissingData = "MISSING_DATA_PROMPTS:"
)

// Review is the parsed result of a quality-review response.
//
// Scored distinguishes "the model said 0" from "no score could be parsed".
// An unscored review never wins a best-of comparison against any scored one.
type Review struct {
	Scored      bool
	Score       float64
	Feedback    string
	MissingData []string
}

// ParseReview parses a review response against the documented micro-format.
//
// The returned Review always carries whatever fields were found. The error
// is non-nil when the score marker is missing or its value does not parse;
// callers must treat that as "score absent", never as zero.
func ParseReview(raw string) (Review, error) {
	var rev Review
	var scoreErr error

	for _, line := range strings.Split(raw, "\n") {
		switch {
		case strings.Contains(line, markerScore):
			text := afterMarker(line, markerScore)
			score, err := strconv.ParseFloat(text, 64)
			if err != nil {
				// Keep scanning: feedback and prompts on later lines
				// must survive a malformed score.
				scoreErr = fmt.Errorf("malformed quality score %q", text)
				continue
			}
			rev.Scored = true
			rev.Score = score

		case strings.Contains(line, markerFeedback):
			rev.Feedback = afterMarker(line, markerFeedback)

		case strings.Contains(line, markerMissingData):
			rev.MissingData = splitPrompts(afterMarker(line, markerMissingData))
		}
	}

	if !rev.Scored {
		if scoreErr != nil {
			return rev, scoreErr
		}
		return rev, fmt.Errorf("review response missing %s marker", markerScore)
	}
	return rev, nil
}

// afterMarker returns the trimmed remainder of a line past the marker,
// with markdown bold noise stripped.
func afterMarker(line, marker string) string {
	idx := strings.Index(line, marker)
	rest := line[idx+len(marker):]
	rest = strings.ReplaceAll(rest, "**", "")
	return strings.TrimSpace(rest)
}

// splitPrompts breaks a "1) ... 2) ... 3) ..." enumeration into individual
// prompts. A value without numbering is returned as a single prompt.
func splitPrompts(value string) []string {
	if value == "" {
		return nil
	}
	parts := promptSplitRegex.Split(value, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

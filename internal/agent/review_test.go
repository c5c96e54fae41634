package agent

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseReview_WellFormed(t *testing.T) {
	raw := `QUALITY_SCORE: 8.5
SHORT_FEEDBACK: Good structure and professional tone. Missing specific data points.
MISSING_DATA_PROMPTS: 1) What was the exact S&P 500 performance percentage for Q1 2024? 2) What were the technology sector performance metrics vs benchmark? 3) What was the VIX average for Q1 2024?`

	rev, err := ParseReview(raw)
	if err != nil {
		t.Fatalf("ParseReview failed: %v", err)
	}
	if !rev.Scored {
		t.Error("expected review to be scored")
	}
	if rev.Score != 8.5 {
		t.Errorf("expected score 8.5, got %v", rev.Score)
	}
	if rev.Feedback != "Good structure and professional tone. Missing specific data points." {
		t.Errorf("unexpected feedback: %q", rev.Feedback)
	}

	wantPrompts := []string{
		"What was the exact S&P 500 performance percentage for Q1 2024?",
		"What were the technology sector performance metrics vs benchmark?",
		"What was the VIX average for Q1 2024?",
	}
	if diff := cmp.Diff(wantPrompts, rev.MissingData); diff != "" {
		t.Errorf("missing data prompts mismatch (-want +got):\n%s", diff)
	}
}

func TestParseReview_StripsMarkdownBold(t *testing.T) {
	raw := "**QUALITY_SCORE:** **9.2**\n**SHORT_FEEDBACK:** Excellent coverage.\n"

	rev, err := ParseReview(raw)
	if err != nil {
		t.Fatalf("ParseReview failed: %v", err)
	}
	if rev.Score != 9.2 {
		t.Errorf("expected score 9.2, got %v", rev.Score)
	}
	if rev.Feedback != "Excellent coverage." {
		t.Errorf("unexpected feedback: %q", rev.Feedback)
	}
}

func TestParseReview_IntegerScore(t *testing.T) {
	rev, err := ParseReview("QUALITY_SCORE: 9\nSHORT_FEEDBACK: Solid.")
	if err != nil {
		t.Fatalf("ParseReview failed: %v", err)
	}
	if rev.Score != 9.0 {
		t.Errorf("expected score 9.0, got %v", rev.Score)
	}
}

func TestParseReview_MissingScoreMarker(t *testing.T) {
	rev, err := ParseReview("SHORT_FEEDBACK: Decent draft.\nMISSING_DATA_PROMPTS: 1) GDP figures?")
	if err == nil {
		t.Fatal("expected error for missing score marker")
	}
	if rev.Scored {
		t.Error("review without score marker must not be scored")
	}
	// Feedback and prompts survive the malformed score.
	if rev.Feedback != "Decent draft." {
		t.Errorf("unexpected feedback: %q", rev.Feedback)
	}
	if len(rev.MissingData) != 1 {
		t.Errorf("expected 1 missing data prompt, got %d", len(rev.MissingData))
	}
}

func TestParseReview_UnparsableScore(t *testing.T) {
	rev, err := ParseReview("QUALITY_SCORE: excellent\nSHORT_FEEDBACK: Nice.")
	if err == nil {
		t.Fatal("expected error for unparsable score")
	}
	if rev.Scored {
		t.Error("unparsable score must leave the review unscored")
	}
	if rev.Score != 0 {
		t.Errorf("expected zero score, got %v", rev.Score)
	}
	if rev.Feedback != "Nice." {
		t.Errorf("feedback must survive an unparsable score, got %q", rev.Feedback)
	}
}

func TestParseReview_ScoreOutOfTen(t *testing.T) {
	// The score marker comes first in the documented format, so later
	// fields must not be lost when its value fails to parse.
	raw := `QUALITY_SCORE: 8.5/10
SHORT_FEEDBACK: Needs hard numbers.
MISSING_DATA_PROMPTS: 1) Index return? 2) VIX average?`

	rev, err := ParseReview(raw)
	if err == nil {
		t.Fatal("expected error for score with /10 suffix")
	}
	if rev.Scored {
		t.Error("score with suffix must leave the review unscored")
	}
	if rev.Feedback != "Needs hard numbers." {
		t.Errorf("feedback after malformed score must be kept, got %q", rev.Feedback)
	}
	wantPrompts := []string{"Index return?", "VIX average?"}
	if diff := cmp.Diff(wantPrompts, rev.MissingData); diff != "" {
		t.Errorf("prompts after malformed score must be kept (-want +got):\n%s", diff)
	}
}

func TestSplitPrompts(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{
			name:  "numbered with parens",
			value: "1) First prompt? 2) Second prompt? 3) Third prompt?",
			want:  []string{"First prompt?", "Second prompt?", "Third prompt?"},
		},
		{
			name:  "numbered with dots",
			value: "1. First prompt? 2. Second prompt?",
			want:  []string{"First prompt?", "Second prompt?"},
		},
		{
			name:  "unnumbered single prompt",
			value: "What was the quarterly GDP growth?",
			want:  []string{"What was the quarterly GDP growth?"},
		},
		{
			name:  "empty",
			value: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitPrompts(tt.value)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("splitPrompts mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

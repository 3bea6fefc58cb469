// Package article tests for summary parsing and round content building.
package article

import (
	"errors"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"article-overload-bot/internal/model"
)

// TestParseLine tests statement line classification.
func TestParseLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		text     string
		expected StatementType
	}{
		{"false statement", "[the moon is cheese]", "the moon is cheese", StatementFalse},
		{"true statement", "<the sky is blue>", "the sky is blue", StatementTrue},
		{"neutral quoted", `"according to the author"`, "according to the author", StatementNeutral},
		{"unmarked is neutral", "plain filler text", "plain filler text", StatementNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := parseLine(tt.line)
			if s.Type != tt.expected {
				t.Errorf("parseLine(%q).Type = %v, want %v", tt.line, s.Type, tt.expected)
			}
			if s.Text != tt.text {
				t.Errorf("parseLine(%q).Text = %q, want %q", tt.line, s.Text, tt.text)
			}
		})
	}
}

// TestParseSummary tests that blank lines are skipped and order is preserved.
func TestParseSummary(t *testing.T) {
	summary := "<first>\n\n[second]\n\"third\"\n"
	statements := ParseSummary(summary)

	if len(statements) != 3 {
		t.Fatalf("ParseSummary returned %d statements, want 3", len(statements))
	}
	if statements[0].Type != StatementTrue || statements[0].Text != "first" {
		t.Errorf("statement 0 = %+v, want true/first", statements[0])
	}
	if statements[1].Type != StatementFalse || statements[1].Text != "second" {
		t.Errorf("statement 1 = %+v, want false/second", statements[1])
	}
	if statements[2].Type != StatementNeutral || statements[2].Text != "third" {
		t.Errorf("statement 2 = %+v, want neutral/third", statements[2])
	}
}

func testArticle(summary string) *model.Article {
	return &model.Article{
		Title:   "Test Article",
		Author:  "Test Author",
		Summary: summary,
	}
}

// TestNewHandlerValidation tests rejection of unplayable summaries.
func TestNewHandlerValidation(t *testing.T) {
	tests := []struct {
		name    string
		summary string
		wantErr error
	}{
		{"valid", "<a>\n[b]\n<c>", nil},
		{"no false statement", "<a>\n<b>", ErrNoFalseStatement},
		{"multiple false statements", "[a]\n[b]", ErrMultipleFalseStatement},
		{"only neutral lines", "\"a\"\nb", ErrNoFalseStatement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHandler(testArticle(tt.summary))
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("NewHandler returned error: %v", err)
				}
				if h.FalseStatement() == "" {
					t.Error("FalseStatement is empty for a valid summary")
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewHandler error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestHandlerSelectable tests that neutral lines are never selectable.
func TestHandlerSelectable(t *testing.T) {
	h, err := NewHandler(testArticle("<a>\n[b]\n\"c\"\nd"))
	if err != nil {
		t.Fatalf("NewHandler returned error: %v", err)
	}

	selectable := h.Selectable()
	if len(selectable) != 2 {
		t.Fatalf("Selectable returned %d statements, want 2", len(selectable))
	}
	for _, text := range selectable {
		if text == "c" || text == "d" {
			t.Errorf("neutral statement %q is selectable", text)
		}
	}

	if !h.IsFalseStatement("b") {
		t.Error("IsFalseStatement(\"b\") = false, want true")
	}
	if h.IsFalseStatement("a") {
		t.Error("IsFalseStatement(\"a\") = true, want false")
	}
}

// TestMarkedUpSummary tests statement numbering in display order.
func TestMarkedUpSummary(t *testing.T) {
	h, err := NewHandler(testArticle("<a>\n[b]\n\"c\""))
	if err != nil {
		t.Fatalf("NewHandler returned error: %v", err)
	}

	marked := h.MarkedUpSummary()
	if !strings.Contains(marked, "`1. ") || !strings.Contains(marked, "`2. ") {
		t.Errorf("MarkedUpSummary missing numbering: %q", marked)
	}
	if !strings.Contains(marked, "c") {
		t.Errorf("MarkedUpSummary dropped neutral text: %q", marked)
	}
}

// TestHighlightedSummary tests the post-answer reveal markup.
func TestHighlightedSummary(t *testing.T) {
	h, err := NewHandler(testArticle("<a>\n[b]"))
	if err != nil {
		t.Fatalf("NewHandler returned error: %v", err)
	}

	highlighted := h.HighlightedSummary()
	if !strings.Contains(highlighted, ". b*") {
		t.Errorf("false statement not bolded: %q", highlighted)
	}
	if !strings.Contains(highlighted, ". a~") {
		t.Errorf("true statement not struck out: %q", highlighted)
	}
}

// TestHandlerShuffleProperty tests invariants that hold for any summary shape:
// the false statement is always selectable, neutral lines never are, and the
// number of selectable statements matches the marked statement count.
func TestHandlerShuffleProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numTrue := rapid.IntRange(1, 10).Draw(t, "numTrue")
		numNeutral := rapid.IntRange(0, 5).Draw(t, "numNeutral")

		var lines []string
		for i := 0; i < numTrue; i++ {
			lines = append(lines, "<true statement "+strings.Repeat("x", i)+">")
		}
		for i := 0; i < numNeutral; i++ {
			lines = append(lines, "neutral filler "+strings.Repeat("y", i))
		}
		lines = append(lines, "[the false statement]")

		h, err := NewHandler(testArticle(strings.Join(lines, "\n")))
		if err != nil {
			t.Fatalf("NewHandler returned error: %v", err)
		}

		selectable := h.Selectable()
		if len(selectable) != numTrue+1 {
			t.Fatalf("Selectable returned %d statements, want %d", len(selectable), numTrue+1)
		}

		found := false
		for _, text := range selectable {
			if h.IsFalseStatement(text) {
				found = true
			}
		}
		if !found {
			t.Error("false statement missing from selectable set")
		}
	})
}

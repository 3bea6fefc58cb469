// Package article turns stored article summaries into round content.
//
// Summaries carry one statement per line. Lines wrapped in [] hold the one
// false statement, lines wrapped in <> hold true statements and quoted lines
// are neutral filler that is shown but never selectable.
package article

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"article-overload-bot/internal/model"
)

// StatementType classifies a parsed summary line.
type StatementType int

const (
	StatementNeutral StatementType = iota
	StatementTrue
	StatementFalse
)

// Errors for summary parsing.
var (
	ErrNoFalseStatement       = errors.New("summary contains no false statement")
	ErrMultipleFalseStatement = errors.New("summary contains more than one false statement")
)

// Statement is one parsed summary line.
type Statement struct {
	Text string
	Type StatementType
}

// Handler wraps an immutable Article with the shuffled, selectable statement
// set for one round. A new Handler is built per round; a previously issued
// Handler is never mutated by the game.
type Handler struct {
	Article    *model.Article
	statements []Statement // shuffled summary order
	active     []Statement // selectable subset (true + false), same order
	falseText  string
}

// NewHandler parses the article summary and shuffles the statement order.
func NewHandler(a *model.Article) (*Handler, error) {
	statements := ParseSummary(a.Summary)

	rand.Shuffle(len(statements), func(i, j int) {
		statements[i], statements[j] = statements[j], statements[i]
	})

	var active []Statement
	falseText := ""
	for _, s := range statements {
		switch s.Type {
		case StatementTrue:
			active = append(active, s)
		case StatementFalse:
			if falseText != "" {
				return nil, ErrMultipleFalseStatement
			}
			falseText = s.Text
			active = append(active, s)
		}
	}
	if falseText == "" {
		return nil, ErrNoFalseStatement
	}

	return &Handler{
		Article:    a,
		statements: statements,
		active:     active,
		falseText:  falseText,
	}, nil
}

// ParseSummary splits a summary into typed statements, one per line.
func ParseSummary(summary string) []Statement {
	var statements []Statement
	for _, line := range strings.Split(summary, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		statements = append(statements, parseLine(line))
	}
	return statements
}

func parseLine(line string) Statement {
	switch {
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return Statement{Text: strings.Trim(line, "[]"), Type: StatementFalse}
	case strings.HasPrefix(line, "<") && strings.HasSuffix(line, ">"):
		return Statement{Text: strings.Trim(line, "<>"), Type: StatementTrue}
	case strings.HasPrefix(line, `"`) && strings.HasSuffix(line, `"`):
		return Statement{Text: strings.Trim(line, `"`), Type: StatementNeutral}
	default:
		// Unmarked lines are treated as neutral filler
		return Statement{Text: line, Type: StatementNeutral}
	}
}

// Selectable returns the raw text of the selectable statements in shuffled
// order. The false statement is always among them.
func (h *Handler) Selectable() []string {
	texts := make([]string, 0, len(h.active))
	for _, s := range h.active {
		texts = append(texts, s.Text)
	}
	return texts
}

// FalseStatement returns the one designated false statement.
func (h *Handler) FalseStatement() string {
	return h.falseText
}

// IsFalseStatement reports whether the given selection is the false statement.
func (h *Handler) IsFalseStatement(selection string) bool {
	return selection == h.falseText
}

// MarkedUpSummary returns the summary with the selectable statements numbered
// and set in monospace so the player can match menu entries to the text.
func (h *Handler) MarkedUpSummary() string {
	var b strings.Builder
	n := 0
	for i, s := range h.statements {
		if i > 0 {
			b.WriteString(" ")
		}
		if s.Type == StatementNeutral {
			b.WriteString(s.Text)
			continue
		}
		n++
		fmt.Fprintf(&b, "`%d. %s`", n, s.Text)
	}
	return b.String()
}

// HighlightedSummary returns the summary with the false statement bolded and
// the true statements struck out, for the post-answer reveal.
func (h *Handler) HighlightedSummary() string {
	var b strings.Builder
	n := 0
	for i, s := range h.statements {
		if i > 0 {
			b.WriteString(" ")
		}
		switch s.Type {
		case StatementNeutral:
			b.WriteString(s.Text)
		case StatementFalse:
			n++
			fmt.Fprintf(&b, "*%d. %s*", n, s.Text)
		case StatementTrue:
			n++
			fmt.Fprintf(&b, "~%d. %s~", n, s.Text)
		}
	}
	return b.String()
}

// Headline returns a short display line for embeds and logs.
func (h *Handler) Headline() string {
	published := h.Article.DatePublished.Format("Jan 2, 2006")
	return fmt.Sprintf("%s - %s (%s)", h.Article.Title, h.Article.Author, published)
}

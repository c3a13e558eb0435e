package domain

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// QuestionKind discriminates how an answer is parsed and graded.
type QuestionKind string

const (
	// SingleChoice expects exactly one option letter.
	SingleChoice QuestionKind = "single"
	// MultiChoice expects a space-separated set of option letters.
	MultiChoice QuestionKind = "multiple"
	// FreeText expects a short free-form answer, matched case-insensitively.
	FreeText QuestionKind = "word"
)

// Question is one entry in the quiz catalog.
type Question struct {
	Kind    QuestionKind `yaml:"kind" json:"kind"`
	Prompt  string       `yaml:"prompt" json:"prompt"`
	Correct []string     `yaml:"correct" json:"correct"` // one element unless Kind is MultiChoice
	Points  int          `yaml:"points" json:"points"`
}

// PromptSummary returns the first line of the prompt, used in reports.
func (q Question) PromptSummary() string {
	if i := strings.IndexByte(q.Prompt, '\n'); i >= 0 {
		return q.Prompt[:i]
	}
	return q.Prompt
}

// CorrectDisplay renders the correct answer for reports; multi-choice answers
// render as a bracketed set.
func (q Question) CorrectDisplay() string {
	if q.Kind == MultiChoice {
		set := append([]string(nil), q.Correct...)
		sort.Strings(set)
		return "[" + strings.Join(set, " ") + "]"
	}
	if len(q.Correct) == 0 {
		return ""
	}
	return q.Correct[0]
}

// Catalog is the ordered, immutable set of questions administered to every
// participant. Order defines both the wire protocol sequence and report
// column order.
type Catalog struct {
	ID        string     `yaml:"id" json:"id"`
	Questions []Question `yaml:"questions" json:"questions"`
}

// TotalPoints is the maximum attainable score.
func (c Catalog) TotalPoints() int {
	total := 0
	for _, q := range c.Questions {
		total += q.Points
	}
	return total
}

// RollRange is the inclusive numeric range of authorized roll numbers.
type RollRange struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// Contains reports whether raw is a well-formed roll number inside the range.
func (r RollRange) Contains(raw string) bool {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return false
	}
	return n >= r.Min && n <= r.Max
}

// Result is the final state of one completed session as recorded in the
// registry: one normalized answer per catalog question, in catalog order.
type Result struct {
	Roll    string   `json:"roll"`
	Address string   `json:"address"`
	Answers []string `json:"answers"`
	Score   int      `json:"score"`
}

// LeaderboardEntry is one scored participant.
type LeaderboardEntry struct {
	Roll  string `json:"roll"`
	Score int    `json:"score"`
}

// Leaderboard captures the ordered scoreboard at a point in time.
type Leaderboard struct {
	CatalogID string             `json:"catalogId"`
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

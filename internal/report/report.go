// Package report writes the shutdown artifacts: the raw answer table, the
// leaderboard and the per-question analysis.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PranaviDevireddy/cs212project/internal/app"
	"github.com/PranaviDevireddy/cs212project/internal/domain"
)

const (
	AnswersFile     = "answers.csv"
	LeaderboardFile = "leaderboard.txt"
	AnalysisFile    = "analysis.txt"
)

// Generator renders the three reports from the final registry state. It runs
// once, single-threaded, after the dispatcher has stopped.
type Generator struct {
	dir     string
	catalog domain.Catalog
}

func NewGenerator(dir string, cat domain.Catalog) *Generator {
	return &Generator{dir: dir, catalog: cat}
}

// Write emits all three artifacts. results carries the answer log in
// completion order; lb is the pre-sorted leaderboard.
func (g *Generator) Write(results []domain.Result, lb domain.Leaderboard) error {
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	if err := g.writeAnswers(results); err != nil {
		return fmt.Errorf("write %s: %w", AnswersFile, err)
	}
	if err := g.writeLeaderboard(lb); err != nil {
		return fmt.Errorf("write %s: %w", LeaderboardFile, err)
	}
	if err := g.writeAnalysis(results); err != nil {
		return fmt.Errorf("write %s: %w", AnalysisFile, err)
	}
	return nil
}

func (g *Generator) writeAnswers(results []domain.Result) error {
	f, err := os.Create(filepath.Join(g.dir, AnswersFile))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"RollNo", "Address"}
	for i := range g.catalog.Questions {
		header = append(header, fmt.Sprintf("Q%d", i+1))
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, res := range results {
		row := append([]string{res.Roll, res.Address}, res.Answers...)
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (g *Generator) writeLeaderboard(lb domain.Leaderboard) error {
	var b strings.Builder
	for _, entry := range lb.Entries {
		fmt.Fprintf(&b, "%s: %d\n", entry.Roll, entry.Score)
	}
	return os.WriteFile(filepath.Join(g.dir, LeaderboardFile), []byte(b.String()), 0o644)
}

func (g *Generator) writeAnalysis(results []domain.Result) error {
	total := len(results)

	var b strings.Builder
	for i, q := range g.catalog.Questions {
		correct := 0
		for _, res := range results {
			if i >= len(res.Answers) {
				continue
			}
			if _, ok, _ := app.Grade(q, res.Answers[i]); ok {
				correct++
			}
		}
		pct := 0.0
		if total > 0 {
			pct = float64(correct) / float64(total) * 100
		}
		fmt.Fprintf(&b, "Q%d: %s\n", i+1, q.PromptSummary())
		fmt.Fprintf(&b, "Correct Answers: %s\n", q.CorrectDisplay())
		fmt.Fprintf(&b, "Correct Count: %d/%d (%.2f%%)\n\n", correct, total, pct)
	}
	return os.WriteFile(filepath.Join(g.dir, AnalysisFile), []byte(b.String()), 0o644)
}

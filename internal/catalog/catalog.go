// Package catalog holds the built-in question bank and the YAML codec for
// catalog files.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/PranaviDevireddy/cs212project/internal/domain"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Parse decodes a YAML catalog document and validates it.
func Parse(data []byte) (domain.Catalog, error) {
	var c domain.Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return domain.Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	if err := Validate(c); err != nil {
		return domain.Catalog{}, err
	}
	return c, nil
}

// Validate checks structural invariants: at least one question, a known kind,
// positive points, and exactly one correct answer for non-multi kinds.
func Validate(c domain.Catalog) error {
	if len(c.Questions) == 0 {
		return fmt.Errorf("catalog %q has no questions", c.ID)
	}
	for i, q := range c.Questions {
		switch q.Kind {
		case domain.SingleChoice, domain.FreeText:
			if len(q.Correct) != 1 {
				return fmt.Errorf("question %d: kind %q needs exactly one correct answer", i+1, q.Kind)
			}
		case domain.MultiChoice:
			if len(q.Correct) == 0 {
				return fmt.Errorf("question %d: multi-choice needs at least one correct answer", i+1)
			}
		default:
			return fmt.Errorf("question %d: unknown kind %q", i+1, q.Kind)
		}
		if q.Points <= 0 {
			return fmt.Errorf("question %d: points must be positive", i+1)
		}
		if q.Prompt == "" {
			return fmt.Errorf("question %d: empty prompt", i+1)
		}
	}
	return nil
}

// Default returns the built-in networking quiz.
func Default() domain.Catalog {
	c, err := Parse(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog invalid: %v", err))
	}
	return c
}

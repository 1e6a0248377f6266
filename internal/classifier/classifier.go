package classifier

import (
	"strings"
	"unicode"

	"github.com/povarna/generative-ai-agents/planner-agent/internal/config"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/models"
)

type category struct {
	name     models.AgentCategory
	keywords []string
}

// Classifier maps free text to an agent category with an ordered keyword
// table. It never fails: input without a match is AgentDefault.
type Classifier struct {
	categories []category
}

func New(cfg config.ClassifierConfig) *Classifier {
	categories := make([]category, 0, len(cfg.Categories))
	for _, c := range cfg.Categories {
		keywords := make([]string, 0, len(c.Keywords))
		for _, kw := range c.Keywords {
			if normalized := normalize(kw); normalized != "" {
				keywords = append(keywords, normalized)
			}
		}
		categories = append(categories, category{name: c.Name, keywords: keywords})
	}

	return &Classifier{categories: categories}
}

// Classify returns the first category, in table order, with a keyword present
// in the input. Keywords match whole words, case-insensitively.
func (c *Classifier) Classify(input string) models.AgentCategory {
	text := " " + normalize(input) + " "

	for _, cat := range c.categories {
		for _, kw := range cat.keywords {
			if strings.Contains(text, " "+kw+" ") {
				return cat.name
			}
		}
	}

	return models.AgentDefault
}

// normalize lowercases and collapses everything that is not a letter or digit
// into single spaces, so "Vacation!" and "vacation" compare equal.
func normalize(s string) string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(words, " ")
}

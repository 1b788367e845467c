package tutorial

import (
	"fmt"
	"strings"
)

// Query selects tutorials by free text and three categorical facets.
// A Query can only be built through NewQuery or ParseQuery, which reject
// out-of-range facet values, so every Query in circulation is valid.
//
// The zero value is the identity query: it matches every record.
type Query struct {
	text       string
	needle     string
	category   Category
	difficulty Difficulty
	country    string
}

// NewQuery builds a Query from typed facet values. Pass CategoryAll,
// DifficultyAll and All (or "") for country to leave a facet unfiltered.
// Surrounding whitespace in text is ignored; whitespace-only text is the
// same as no text.
func NewQuery(text string, category Category, difficulty Difficulty, country string) (Query, error) {
	if category != CategoryAll && category != "" && !category.Valid() {
		return Query{}, fmt.Errorf("%w %q", ErrInvalidCategory, category)
	}
	if difficulty != DifficultyAll && difficulty != "" && !difficulty.Valid() {
		return Query{}, fmt.Errorf("%w %q", ErrInvalidDifficulty, difficulty)
	}
	if category == CategoryAll {
		category = ""
	}
	if difficulty == DifficultyAll {
		difficulty = ""
	}
	if country == All {
		country = ""
	}

	text = strings.TrimSpace(text)
	return Query{
		text:       text,
		needle:     strings.ToLower(text),
		category:   category,
		difficulty: difficulty,
		country:    country,
	}, nil
}

// ParseQuery builds a Query from raw request values.
func ParseQuery(text, category, difficulty, country string) (Query, error) {
	c, err := ParseCategory(category)
	if err != nil {
		return Query{}, fmt.Errorf("%w %q", err, category)
	}
	d, err := ParseDifficulty(difficulty)
	if err != nil {
		return Query{}, fmt.Errorf("%w %q", err, difficulty)
	}
	return NewQuery(text, c, d, country)
}

// Text returns the trimmed search text.
func (q Query) Text() string { return q.text }

// Category returns the category facet, CategoryAll when unfiltered.
func (q Query) Category() Category {
	if q.category == "" {
		return CategoryAll
	}
	return q.category
}

// Difficulty returns the difficulty facet, DifficultyAll when unfiltered.
func (q Query) Difficulty() Difficulty {
	if q.difficulty == "" {
		return DifficultyAll
	}
	return q.difficulty
}

// Country returns the country facet, All when unfiltered.
func (q Query) Country() string {
	if q.country == "" {
		return All
	}
	return q.country
}

// IsIdentity reports whether q leaves every facet unfiltered.
func (q Query) IsIdentity() bool {
	return q.needle == "" && q.category == "" && q.difficulty == "" && q.country == ""
}

// Matches reports whether r satisfies every facet of q.
func (q Query) Matches(r Record) bool {
	if q.category != "" && r.Category != q.category {
		return false
	}
	if q.difficulty != "" && r.Difficulty != q.difficulty {
		return false
	}
	// Country labels are compared exactly; they are not normalized.
	if q.country != "" && r.AuthorCountry != q.country {
		return false
	}
	return r.matchesText(q.needle)
}

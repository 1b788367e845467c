// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package tutorial holds the tutorial catalog behind the Learn view and the
// engine that searches it: a conjunctive filter over four facets (text,
// category, difficulty, country) followed by grouping into the fixed,
// ordered list of skill categories.
//
// Every exported operation is a pure function of its arguments. Catalogs are
// never mutated after construction, so a single catalog may be shared by any
// number of concurrent queries.
package tutorial

import (
	"errors"
	"strings"

	"diabolohub/internal/locale"
)

// All is the wire form of the "no filter" sentinel for every facet.
const All = "ALL"

var (
	// ErrInvalidCategory is returned when a value is neither a known
	// category code nor the ALL sentinel.
	ErrInvalidCategory = errors.New("tutorial: invalid category")

	// ErrInvalidDifficulty is returned when a value is neither a known
	// difficulty code nor the ALL sentinel.
	ErrInvalidDifficulty = errors.New("tutorial: invalid difficulty")
)

// Category is a skill-topic code. The set is closed; see Categories.
type Category string

const (
	CategoryOneDiabolo       Category = "1 DIABOLO"
	CategoryIntroTwoLow      Category = "INTRODUCCION A 2 DIABOLOS LOW"
	CategoryFirstTricksTwo   Category = "PRIMEROS TRUCOS DE 2 DIABOLOS"
	CategoryIntroThreeLow    Category = "INTRODUCCION A 3 DIABOLOS LOW"
	CategoryFirstTricksThree Category = "PRIMEROS TRUCOS DE 3 DIABOLOS"
	CategoryVertax           Category = "VERTAX"
	CategorySiteswapBasics   Category = "SITEWAP NOTATION BASICS"
	CategoryIntegrals        Category = "INTEGRALES 1 DIABOLO"
	CategoryBodyMoves        Category = "CORPORALES"

	// CategoryAll matches every category. It is not part of Categories.
	CategoryAll Category = All
)

// Categories is the fixed display order. Grouping indexes into this list;
// do not reorder it without updating the Learn view.
var Categories = []Category{
	CategoryOneDiabolo,
	CategoryIntroTwoLow,
	CategoryFirstTricksTwo,
	CategoryIntroThreeLow,
	CategoryFirstTricksThree,
	CategoryVertax,
	CategorySiteswapBasics,
	CategoryIntegrals,
	CategoryBodyMoves,
}

// categoryIndex maps each category to its position in Categories.
var categoryIndex = func() map[Category]int {
	m := make(map[Category]int, len(Categories))
	for i, c := range Categories {
		m[c] = i
	}
	return m
}()

// Valid reports whether c is one of the nine category codes.
// CategoryAll is not a valid record category.
func (c Category) Valid() bool {
	_, ok := categoryIndex[c]
	return ok
}

// ParseCategory converts a wire value into a Category. Empty input and
// "ALL" both yield CategoryAll.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == All {
		return CategoryAll, nil
	}
	c := Category(s)
	if !c.Valid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}

var categoryLabels = map[locale.Language]map[Category]string{
	locale.ES: {
		CategoryOneDiabolo:       "1 Diábolo",
		CategoryIntroTwoLow:      "Intro 2 Diábolos Low",
		CategoryFirstTricksTwo:   "Trucos 2 Diábolos",
		CategoryIntroThreeLow:    "Intro 3 Diábolos Low",
		CategoryFirstTricksThree: "Trucos 3 Diábolos",
		CategoryVertax:           "Vertax",
		CategorySiteswapBasics:   "Siteswap Básico",
		CategoryIntegrals:        "Integrales",
		CategoryBodyMoves:        "Corporales",
	},
	locale.EN: {
		CategoryOneDiabolo:       "1 Diabolo",
		CategoryIntroTwoLow:      "Intro 2 Diabolos Low",
		CategoryFirstTricksTwo:   "First Tricks 2 Diabolos",
		CategoryIntroThreeLow:    "Intro 3 Diabolos Low",
		CategoryFirstTricksThree: "First Tricks 3 Diabolos",
		CategoryVertax:           "Vertax",
		CategorySiteswapBasics:   "Siteswap Basics",
		CategoryIntegrals:        "Integrals",
		CategoryBodyMoves:        "Body Moves",
	},
}

// Label returns the display name of c in lang. Unknown codes are returned
// verbatim.
func (c Category) Label(lang locale.Language) string {
	if l, ok := categoryLabels[textLanguage(lang)][c]; ok {
		return l
	}
	return string(c)
}

// Difficulty is a skill level.
type Difficulty string

const (
	Beginner     Difficulty = "BEGINNER"
	Intermediate Difficulty = "INTERMEDIATE"
	Advanced     Difficulty = "ADVANCED"
	Expert       Difficulty = "EXPERT"

	// DifficultyAll matches every difficulty.
	DifficultyAll Difficulty = All
)

// Difficulties lists the skill levels from easiest to hardest.
var Difficulties = []Difficulty{Beginner, Intermediate, Advanced, Expert}

// Valid reports whether d is one of the four skill levels.
func (d Difficulty) Valid() bool {
	switch d {
	case Beginner, Intermediate, Advanced, Expert:
		return true
	}
	return false
}

// ParseDifficulty converts a wire value into a Difficulty. Empty input and
// "ALL" both yield DifficultyAll.
func ParseDifficulty(s string) (Difficulty, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == All {
		return DifficultyAll, nil
	}
	d := Difficulty(s)
	if !d.Valid() {
		return "", ErrInvalidDifficulty
	}
	return d, nil
}

var difficultyLabels = map[locale.Language]map[Difficulty]string{
	locale.ES: {
		Beginner:     "Principiante",
		Intermediate: "Intermedio",
		Advanced:     "Avanzado",
		Expert:       "Experto",
	},
	locale.EN: {
		Beginner:     "Beginner",
		Intermediate: "Intermediate",
		Advanced:     "Advanced",
		Expert:       "Expert",
	},
}

// Label returns the display name of d in lang.
func (d Difficulty) Label(lang locale.Language) string {
	if l, ok := difficultyLabels[textLanguage(lang)][d]; ok {
		return l
	}
	return string(d)
}

// textLanguages is the explicit substitution table from interface language
// to the language the tutorial texts are written in. Spanish has its own
// texts; every other interface language reads the English ones.
var textLanguages = map[locale.Language]locale.Language{
	locale.ES: locale.ES,
	locale.EN: locale.EN,
	locale.FR: locale.EN,
	locale.DE: locale.EN,
	locale.ZH: locale.EN,
	locale.JA: locale.EN,
	locale.PT: locale.EN,
	locale.IT: locale.EN,
	locale.RU: locale.EN,
	locale.AR: locale.EN,
	locale.HI: locale.EN,
	locale.KO: locale.EN,
}

// textLanguage resolves lang through textLanguages, using the default
// locale for anything unsupported.
func textLanguage(lang locale.Language) locale.Language {
	if t, ok := textLanguages[lang]; ok {
		return t
	}
	return textLanguages[locale.Default]
}

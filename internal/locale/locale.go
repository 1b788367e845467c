// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package locale defines the closed set of interface languages supported by
// Diabolo Hub and the fallback rules used when a caller asks for anything else.
package locale

import "strings"

// Language is one of the supported interface languages.
type Language string

const (
	ES Language = "ES"
	EN Language = "EN"
	FR Language = "FR"
	DE Language = "DE"
	ZH Language = "ZH"
	JA Language = "JA"
	PT Language = "PT"
	IT Language = "IT"
	RU Language = "RU"
	AR Language = "AR"
	HI Language = "HI"
	KO Language = "KO"
)

// Default is the language used whenever a request names an unsupported one.
const Default = ES

// All lists every supported language in menu order.
var All = []Language{ES, EN, FR, DE, ZH, JA, PT, IT, RU, AR, HI, KO}

var supported = func() map[Language]bool {
	m := make(map[Language]bool, len(All))
	for _, l := range All {
		m[l] = true
	}
	return m
}()

// Lookup reports whether s names a supported language. Matching is
// case-insensitive and ignores surrounding whitespace, so "es" and " ES "
// both resolve to ES. Region suffixes are accepted ("pt-BR" -> PT).
func Lookup(s string) (Language, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if i := strings.IndexAny(s, "-_"); i > 0 {
		s = s[:i]
	}
	l := Language(s)
	if !supported[l] {
		return "", false
	}
	return l, true
}

// Parse resolves s to a supported language, falling back to Default.
// It never fails: every caller must be able to render something.
func Parse(s string) Language {
	if l, ok := Lookup(s); ok {
		return l
	}
	return Default
}

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool { return supported[l] }

func (l Language) String() string { return string(l) }

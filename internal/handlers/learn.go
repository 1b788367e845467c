// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"diabolohub/internal/locale"
	"diabolohub/internal/tutorial"
)

// Learn serves the tutorial catalog search.
type Learn struct {
	tutorials *tutorial.Store
}

// NewLearn creates the Learn handler group.
func NewLearn(tutorials *tutorial.Store) *Learn {
	return &Learn{tutorials: tutorials}
}

// option is a code with its display label.
type option struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// bucketView is a tutorial.Bucket with its localized heading.
type bucketView struct {
	Category  tutorial.Category `json:"category"`
	Label     string            `json:"label"`
	Tutorials []recordView      `json:"tutorials"`
}

// recordView adds the localized difficulty label to a record.
type recordView struct {
	tutorial.Record
	DifficultyLabel string `json:"difficulty_label"`
}

type facets struct {
	Categories   []option `json:"categories"`
	Difficulties []option `json:"difficulties"`
	Countries    []string `json:"countries"`
}

type searchResponse struct {
	Lang    locale.Language `json:"lang"`
	Total   int             `json:"total"`
	Buckets []bucketView    `json:"buckets"`
	Facets  facets          `json:"facets"`
}

// Search handles GET /api/v1/tutorials.
func (h *Learn) Search(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	lang := locale.Parse(qs.Get("lang"))

	q, err := tutorial.ParseQuery(qs.Get("q"), qs.Get("category"), qs.Get("difficulty"), qs.Get("country"))
	switch {
	case errors.Is(err, tutorial.ErrInvalidCategory):
		writeError(w, http.StatusBadRequest, "Unknown category.")
		return
	case errors.Is(err, tutorial.ErrInvalidDifficulty):
		writeError(w, http.StatusBadRequest, "Unknown difficulty.")
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	catalog := h.tutorials.Catalog(lang)
	res := tutorial.Search(catalog, q)

	buckets := make([]bucketView, 0, len(res.Buckets))
	for _, b := range res.Buckets {
		buckets = append(buckets, bucketView{
			Category:  b.Category,
			Label:     b.Category.Label(lang),
			Tutorials: recordViews(b.Records, lang),
		})
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Lang:    lang,
		Total:   res.Total(),
		Buckets: buckets,
		Facets:  buildFacets(catalog, lang),
	})
}

// Countries handles GET /api/v1/tutorials/countries.
func (h *Learn) Countries(w http.ResponseWriter, r *http.Request) {
	lang := locale.Parse(r.URL.Query().Get("lang"))
	writeJSON(w, http.StatusOK, map[string]any{
		"countries": tutorial.DistinctCountries(h.tutorials.Catalog(lang)),
	})
}

// Get handles GET /api/v1/tutorials/{id}.
func (h *Learn) Get(w http.ResponseWriter, r *http.Request) {
	lang := locale.Parse(r.URL.Query().Get("lang"))
	rec, ok := h.tutorials.Catalog(lang).Find(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Tutorial not found.")
		return
	}
	writeJSON(w, http.StatusOK, recordView{Record: rec, DifficultyLabel: rec.Difficulty.Label(lang)})
}

func recordViews(records []tutorial.Record, lang locale.Language) []recordView {
	out := make([]recordView, 0, len(records))
	for _, rec := range records {
		out = append(out, recordView{Record: rec, DifficultyLabel: rec.Difficulty.Label(lang)})
	}
	return out
}

func buildFacets(c tutorial.Catalog, lang locale.Language) facets {
	f := facets{
		Categories:   make([]option, 0, len(tutorial.Categories)),
		Difficulties: make([]option, 0, len(tutorial.Difficulties)),
		Countries:    tutorial.DistinctCountries(c),
	}
	for _, cat := range tutorial.Categories {
		f.Categories = append(f.Categories, option{Code: string(cat), Label: cat.Label(lang)})
	}
	for _, d := range tutorial.Difficulties {
		f.Difficulties = append(f.Difficulties, option{Code: string(d), Label: d.Label(lang)})
	}
	return f
}

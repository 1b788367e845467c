package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"diabolohub/internal/tutorial"
)

func newTestLearn(t *testing.T) *Learn {
	t.Helper()
	tutorials, err := tutorial.NewStore()
	if err != nil {
		t.Fatalf("tutorial.NewStore: %v", err)
	}
	return NewLearn(tutorials)
}

func TestLearnSearch_IdentityReturnsWholeCatalog(t *testing.T) {
	h := newTestLearn(t)

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tutorials", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	var body searchResponse
	decodeBody(t, rec, &body)

	if body.Lang != "ES" {
		t.Errorf("lang: got %q, want ES (default)", body.Lang)
	}
	if body.Total != 8 {
		t.Errorf("total: got %d, want 8", body.Total)
	}
	sum := 0
	for i, b := range body.Buckets {
		if len(b.Tutorials) == 0 {
			t.Errorf("bucket %d (%s) is empty", i, b.Category)
		}
		if b.Label == "" {
			t.Errorf("bucket %d has no label", i)
		}
		sum += len(b.Tutorials)
	}
	if sum != body.Total {
		t.Errorf("bucket sizes sum to %d, total is %d", sum, body.Total)
	}
	if len(body.Facets.Categories) != len(tutorial.Categories) {
		t.Errorf("category facets: got %d", len(body.Facets.Categories))
	}
	if len(body.Facets.Countries) != 7 {
		t.Errorf("country facets: got %v", body.Facets.Countries)
	}
}

func TestLearnSearch_BucketsFollowCategoryOrder(t *testing.T) {
	h := newTestLearn(t)
	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tutorials?lang=en", nil))

	var body searchResponse
	decodeBody(t, rec, &body)

	pos := make(map[tutorial.Category]int)
	for i, c := range tutorial.Categories {
		pos[c] = i
	}
	for i := 1; i < len(body.Buckets); i++ {
		if pos[body.Buckets[i-1].Category] >= pos[body.Buckets[i].Category] {
			t.Errorf("bucket %s before %s", body.Buckets[i-1].Category, body.Buckets[i].Category)
		}
	}
}

func TestLearnSearch_TextIsCaseInsensitive(t *testing.T) {
	h := newTestLearn(t)
	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tutorials?lang=en&q=ELEVATOR", nil))

	var body searchResponse
	decodeBody(t, rec, &body)
	if body.Total != 1 || body.Buckets[0].Tutorials[0].ID != "1" {
		t.Errorf("unexpected result: %+v", body)
	}
	if body.Buckets[0].Tutorials[0].DifficultyLabel == "" {
		t.Error("difficulty label missing")
	}
}

func TestLearnSearch_NoMatchIsEmpty(t *testing.T) {
	h := newTestLearn(t)
	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tutorials?category=VERTAX&country=France", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	var body searchResponse
	decodeBody(t, rec, &body)
	if body.Total != 0 || len(body.Buckets) != 0 {
		t.Errorf("expected empty result, got %+v", body)
	}
}

func TestLearnSearch_InvalidFacets(t *testing.T) {
	h := newTestLearn(t)
	tests := []struct {
		query string
		want  string
	}{
		{"?category=JUGGLING", "Unknown category."},
		{"?difficulty=EXPERT", "Unknown difficulty."},
		{"?difficulty=beginner", "Unknown difficulty."},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Search(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tutorials"+tt.query, nil))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want 400", rec.Code)
			}
			if got := errorMessage(t, rec); got != tt.want {
				t.Errorf("error: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLearnSearch_AllSentinelIsNoFilter(t *testing.T) {
	h := newTestLearn(t)
	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tutorials?category=ALL&difficulty=ALL&country=ALL", nil))

	var body searchResponse
	decodeBody(t, rec, &body)
	if body.Total != 8 {
		t.Errorf("total: got %d, want 8", body.Total)
	}
}

func TestLearnCountries(t *testing.T) {
	h := newTestLearn(t)
	rec := httptest.NewRecorder()
	h.Countries(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tutorials/countries", nil))

	var body struct {
		Countries []string `json:"countries"`
	}
	decodeBody(t, rec, &body)
	if len(body.Countries) != 7 {
		t.Fatalf("countries: got %v", body.Countries)
	}
	for i := 1; i < len(body.Countries); i++ {
		if body.Countries[i-1] >= body.Countries[i] {
			t.Errorf("countries not sorted and distinct: %v", body.Countries)
			break
		}
	}
}

func TestLearnGet(t *testing.T) {
	h := newTestLearn(t)

	rec := httptest.NewRecorder()
	req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/tutorials/4?lang=en", nil), "id", "4")
	h.Get(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	var got recordView
	decodeBody(t, rec, &got)
	if got.Title != "Excalibur (Vertax)" || got.Category != tutorial.CategoryVertax {
		t.Errorf("unexpected record: %+v", got)
	}

	rec = httptest.NewRecorder()
	req = withChiURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/tutorials/999", nil), "id", "999")
	h.Get(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing id: got %d, want 404", rec.Code)
	}
}

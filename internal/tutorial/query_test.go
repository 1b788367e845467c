package tutorial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name       string
		category   string
		difficulty string
		wantErr    error
	}{
		{"defaults", "", "", nil},
		{"all sentinels", "ALL", "ALL", nil},
		{"codes", "VERTAX", "ADVANCED", nil},
		{"padded codes", " CORPORALES ", " EXPERT", nil},
		{"unknown category", "JUGGLING", "", ErrInvalidCategory},
		{"lower-case category", "vertax", "", ErrInvalidCategory},
		{"unknown difficulty", "", "Avanzado", ErrInvalidDifficulty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQuery("", tt.category, tt.difficulty, "")
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewQuery_RejectsUnknownValues(t *testing.T) {
	_, err := NewQuery("", Category("BALLS"), DifficultyAll, All)
	assert.ErrorIs(t, err, ErrInvalidCategory)

	_, err = NewQuery("", CategoryAll, Difficulty("GODLIKE"), All)
	assert.ErrorIs(t, err, ErrInvalidDifficulty)
}

func TestQuery_Accessors(t *testing.T) {
	var zero Query
	assert.True(t, zero.IsIdentity())
	assert.Equal(t, "", zero.Text())
	assert.Equal(t, CategoryAll, zero.Category())
	assert.Equal(t, DifficultyAll, zero.Difficulty())
	assert.Equal(t, All, zero.Country())

	q, err := ParseQuery("  Excalibur ", "VERTAX", "ADVANCED", "Japan")
	require.NoError(t, err)
	assert.False(t, q.IsIdentity())
	assert.Equal(t, "Excalibur", q.Text())
	assert.Equal(t, CategoryVertax, q.Category())
	assert.Equal(t, Advanced, q.Difficulty())
	assert.Equal(t, "Japan", q.Country())

	all, err := ParseQuery("", "ALL", "ALL", "ALL")
	require.NoError(t, err)
	assert.Equal(t, zero, all)
}

func TestCategoryOrderIsFixed(t *testing.T) {
	want := []Category{
		"1 DIABOLO",
		"INTRODUCCION A 2 DIABOLOS LOW",
		"PRIMEROS TRUCOS DE 2 DIABOLOS",
		"INTRODUCCION A 3 DIABOLOS LOW",
		"PRIMEROS TRUCOS DE 3 DIABOLOS",
		"VERTAX",
		"SITEWAP NOTATION BASICS",
		"INTEGRALES 1 DIABOLO",
		"CORPORALES",
	}
	assert.Equal(t, want, Categories)
	assert.False(t, CategoryAll.Valid())
	assert.False(t, DifficultyAll.Valid())
}

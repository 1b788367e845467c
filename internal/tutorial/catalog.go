package tutorial

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"diabolohub/internal/locale"
)

//go:embed catalog.yaml
var catalogRawData []byte

// Catalog is the ordered, immutable list of tutorials for one language.
type Catalog struct {
	lang    locale.Language
	records []Record
}

// NewCatalog validates records and wraps a private copy of them. IDs must be
// unique and every record must satisfy Record.Validate.
func NewCatalog(lang locale.Language, records []Record) (Catalog, error) {
	seen := make(map[string]bool, len(records))
	for i := range records {
		if err := records[i].Validate(); err != nil {
			return Catalog{}, err
		}
		if seen[records[i].ID] {
			return Catalog{}, fmt.Errorf("tutorial: duplicate id %q", records[i].ID)
		}
		seen[records[i].ID] = true
	}
	cp := make([]Record, len(records))
	copy(cp, records)
	return Catalog{lang: lang, records: cp}, nil
}

// Language returns the interface language the catalog was built for.
func (c Catalog) Language() locale.Language { return c.lang }

// Len returns the number of records.
func (c Catalog) Len() int { return len(c.records) }

// Records returns a copy of the records in catalog order.
func (c Catalog) Records() []Record {
	cp := make([]Record, len(c.records))
	copy(cp, c.records)
	return cp
}

// Find returns the record with the given id.
func (c Catalog) Find(id string) (Record, bool) {
	for i := range c.records {
		if c.records[i].ID == id {
			return c.records[i], true
		}
	}
	return Record{}, false
}

// catalogFile is the top-level structure of the embedded YAML.
type catalogFile struct {
	Tutorials []catalogEntry `yaml:"tutorials"`
}

// catalogEntry holds the language-invariant fields of a tutorial plus its
// texts keyed by text language.
type catalogEntry struct {
	ID              string                        `yaml:"id"`
	Category        string                        `yaml:"category"`
	Difficulty      string                        `yaml:"difficulty"`
	Author          string                        `yaml:"author"`
	Country         string                        `yaml:"country"`
	AuthorAvatarURL string                        `yaml:"avatar_url"`
	ImageURL        string                        `yaml:"image_url"`
	VideoURL        string                        `yaml:"video_url"`
	Likes           int                           `yaml:"likes"`
	Comments        int                           `yaml:"comments"`
	CreatedAt       time.Time                     `yaml:"created_at"`
	Text            map[locale.Language]entryText `yaml:"text"`
}

type entryText struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Store serves one catalog per supported language. It is built once at
// startup and is read-only afterwards.
type Store struct {
	catalogs map[locale.Language]Catalog
}

// NewStore parses the embedded tutorial catalog.
func NewStore() (*Store, error) {
	return LoadStore(catalogRawData)
}

// LoadStore parses a YAML catalog document and builds the catalog of every
// supported language. Each record must carry a text for every text language
// referenced by the substitution table.
func LoadStore(data []byte) (*Store, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("tutorial: parse yaml: %w", err)
	}

	s := &Store{catalogs: make(map[locale.Language]Catalog, len(locale.All))}
	for _, lang := range locale.All {
		textLang := textLanguage(lang)
		records := make([]Record, 0, len(f.Tutorials))
		for _, e := range f.Tutorials {
			txt, ok := e.Text[textLang]
			if !ok {
				return nil, fmt.Errorf("tutorial %s: missing %s text", e.ID, textLang)
			}
			rec, err := NewRecord(Record{
				ID:              e.ID,
				Title:           txt.Title,
				Description:     txt.Description,
				Category:        Category(e.Category),
				Difficulty:      Difficulty(e.Difficulty),
				AuthorName:      e.Author,
				AuthorCountry:   e.Country,
				AuthorAvatarURL: e.AuthorAvatarURL,
				ImageURL:        e.ImageURL,
				VideoURL:        e.VideoURL,
				LikeCount:       e.Likes,
				CommentCount:    e.Comments,
				CreatedAt:       e.CreatedAt,
			})
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
		c, err := NewCatalog(lang, records)
		if err != nil {
			return nil, err
		}
		s.catalogs[lang] = c
	}
	return s, nil
}

// Catalog returns the catalog for lang. Unsupported languages get the
// default language's catalog; this never fails.
func (s *Store) Catalog(lang locale.Language) Catalog {
	if c, ok := s.catalogs[lang]; ok {
		return c
	}
	return s.catalogs[locale.Default]
}

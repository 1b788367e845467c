// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package tutorial

import (
	"fmt"
	"sort"
)

// Bucket is the ordered set of matching records for one category.
type Bucket struct {
	Category Category `json:"category"`
	Records  []Record `json:"tutorials"`
}

// Result is the grouped outcome of a search, in the fixed category order.
type Result struct {
	Buckets []Bucket `json:"buckets"`
}

// Total returns the number of records across all buckets.
func (r Result) Total() int {
	n := 0
	for i := range r.Buckets {
		n += len(r.Buckets[i].Records)
	}
	return n
}

// Empty reports whether no bucket holds a record.
func (r Result) Empty() bool { return r.Total() == 0 }

// Records flattens the buckets in display order.
func (r Result) Records() []Record {
	out := make([]Record, 0, r.Total())
	for i := range r.Buckets {
		out = append(out, r.Buckets[i].Records...)
	}
	return out
}

// Apply returns the records of c that match q, in catalog order.
func Apply(c Catalog, q Query) []Record {
	out := make([]Record, 0, len(c.records))
	for i := range c.records {
		if q.Matches(c.records[i]) {
			out = append(out, c.records[i])
		}
	}
	return out
}

// Group buckets records by category. With CategoryAll every category gets a
// bucket, in the order of Categories, including empty ones. With a single
// category only that bucket is returned and records of other categories are
// dropped. Records keep their relative order inside each bucket.
//
// Group panics if category is neither CategoryAll nor a valid code; Query
// construction already rules that out.
func Group(records []Record, category Category) []Bucket {
	var active []Category
	switch {
	case category == CategoryAll || category == "":
		active = Categories
	case category.Valid():
		active = []Category{category}
	default:
		panic(fmt.Sprintf("tutorial: group by unknown category %q", category))
	}

	buckets := make([]Bucket, len(active))
	slot := make(map[Category]int, len(active))
	for i, cat := range active {
		buckets[i] = Bucket{Category: cat, Records: []Record{}}
		slot[cat] = i
	}

	for i := range records {
		j, ok := slot[records[i].Category]
		if !ok {
			continue
		}
		buckets[j].Records = append(buckets[j].Records, records[i])
	}
	return buckets
}

// Search filters c with q and groups the matches for display.
func Search(c Catalog, q Query) Result {
	return Result{Buckets: Group(Apply(c, q), q.Category())}
}

// DistinctCountries returns every author country present in c, sorted
// ascending without duplicates. It always looks at the whole catalog so the
// country facet offers the full universe regardless of other filters.
func DistinctCountries(c Catalog) []string {
	seen := make(map[string]struct{}, len(c.records))
	out := make([]string, 0, len(c.records))
	for i := range c.records {
		country := c.records[i].AuthorCountry
		if _, dup := seen[country]; dup {
			continue
		}
		seen[country] = struct{}{}
		out = append(out, country)
	}
	sort.Strings(out)
	return out
}

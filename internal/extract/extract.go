// Package extract filters KEN_ALL rows to an allow-list of prefectures and
// deduplicates them into municipality and town sets.
package extract

import (
	"cmp"
	"errors"
	"io"
	"slices"

	"github.com/leeovery/kanto/internal/postal"
	"github.com/leeovery/kanto/internal/region"
)

// Municipality identifies a city, ward, town, or village within a prefecture.
type Municipality struct {
	Prefecture string
	City       string
}

// Town identifies a town area within a municipality. Town is empty when the
// source lists no town area for the postal code.
type Town struct {
	Prefecture string
	City       string
	Town       string
}

// Municipality returns the municipality the town belongs to.
func (t Town) Municipality() Municipality {
	return Municipality{Prefecture: t.Prefecture, City: t.City}
}

// Stats counts how input rows were handled.
type Stats struct {
	Rows     int // rows offered to Add
	Short    int // rows with too few fields
	Filtered int // rows whose prefecture is outside the allow-list
	Accepted int // rows added to the sets, duplicates included
}

// Result is the sorted output of an extraction.
type Result struct {
	Municipalities []Municipality
	Towns          []Town
	Stats          Stats
}

// Extractor accumulates unique municipalities and towns from records.
// It is not safe for concurrent use.
type Extractor struct {
	allow          region.Set
	municipalities map[Municipality]struct{}
	towns          map[Town]struct{}
	stats          Stats
}

// New creates an Extractor that keeps rows whose prefecture is in allow.
func New(allow region.Set) *Extractor {
	return &Extractor{
		allow:          allow,
		municipalities: make(map[Municipality]struct{}),
		towns:          make(map[Town]struct{}),
	}
}

// Add processes a single record. Short rows and rows outside the
// allow-list are dropped without error.
func (e *Extractor) Add(rec postal.Record) {
	e.stats.Rows++

	pref, city, town, ok := rec.Fields()
	if !ok {
		e.stats.Short++
		return
	}
	if !e.allow.Contains(pref) {
		e.stats.Filtered++
		return
	}

	e.stats.Accepted++
	e.towns[Town{Prefecture: pref, City: city, Town: town}] = struct{}{}
	e.municipalities[Municipality{Prefecture: pref, City: city}] = struct{}{}
}

// Result returns both sets sorted ascending. The Extractor may keep
// accepting records afterwards.
func (e *Extractor) Result() Result {
	munis := make([]Municipality, 0, len(e.municipalities))
	for m := range e.municipalities {
		munis = append(munis, m)
	}
	slices.SortFunc(munis, CompareMunicipalities)

	towns := make([]Town, 0, len(e.towns))
	for t := range e.towns {
		towns = append(towns, t)
	}
	slices.SortFunc(towns, CompareTowns)

	return Result{
		Municipalities: munis,
		Towns:          towns,
		Stats:          e.stats,
	}
}

// FromReader drains r into a new Extractor and returns the result.
func FromReader(r *postal.Reader, allow region.Set) (Result, error) {
	e := New(allow)
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Result{}, err
		}
		e.Add(rec)
	}
	return e.Result(), nil
}

// CompareMunicipalities orders by prefecture, then city.
func CompareMunicipalities(a, b Municipality) int {
	return cmp.Or(
		cmp.Compare(a.Prefecture, b.Prefecture),
		cmp.Compare(a.City, b.City),
	)
}

// CompareTowns orders by prefecture, then city, then town.
func CompareTowns(a, b Town) int {
	return cmp.Or(
		cmp.Compare(a.Prefecture, b.Prefecture),
		cmp.Compare(a.City, b.City),
		cmp.Compare(a.Town, b.Town),
	)
}

package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// LocalProduct is the projection of a local catalog row used for comparison.
type LocalProduct struct {
	ID     string
	Name   string
	Price  float64
	Active bool
	Code   *string
	// FudoID is the stored cross-reference to the remote record, if any.
	FudoID *string
}

// FudoProduct is the projection of a remote catalog record used for comparison.
type FudoProduct struct {
	ID     string
	Name   string
	Price  float64
	Active bool
	Code   *string
}

type LocalOnly struct {
	ID     string  `json:"id"`
	Name   string  `json:"nombre"`
	Price  float64 `json:"precio"`
	Active bool    `json:"activo"`
}

type FudoOnly struct {
	ID     string  `json:"fudo_id"`
	Name   string  `json:"nombre"`
	Price  float64 `json:"precio"`
	Active bool    `json:"activo"`
}

type SyncedPair struct {
	LocalID    string  `json:"local_id"`
	FudoID     string  `json:"fudo_id"`
	Name       string  `json:"nombre"`
	LocalPrice float64 `json:"precio_local"`
	FudoPrice  float64 `json:"precio_fudo"`
}

type SyncFieldDiff struct {
	Field string      `json:"campo"`
	Local interface{} `json:"local"`
	Fudo  interface{} `json:"fudo"`
}

type ProductDiff struct {
	LocalID string          `json:"local_id"`
	FudoID  string          `json:"fudo_id"`
	Name    string          `json:"nombre"`
	Fields  []SyncFieldDiff `json:"campos"`
}

type Summary struct {
	TotalLocal int `json:"total_local"`
	TotalFudo  int `json:"total_fudo"`
	Synced     int `json:"synced"`
	LocalOnly  int `json:"local_only"`
	FudoOnly   int `json:"fudo_only"`
	WithDiffs  int `json:"with_diffs"`
}

type SyncComparisonResult struct {
	Synced    []SyncedPair  `json:"synced"`
	LocalOnly []LocalOnly   `json:"local_only"`
	FudoOnly  []FudoOnly    `json:"fudo_only"`
	Diffs     []ProductDiff `json:"diffs"`
	Summary   Summary       `json:"summary"`
}

// Compare partitions both catalogs into synced pairs, local-only and
// remote-only records. A local record with a stored cross-reference is only
// ever matched by that id; the rest fall back to a case-insensitive name
// match. Each remote record is claimed at most once, first match wins.
func Compare(local []LocalProduct, remote []FudoProduct) SyncComparisonResult {
	result := SyncComparisonResult{
		Synced:    []SyncedPair{},
		LocalOnly: []LocalOnly{},
		FudoOnly:  []FudoOnly{},
		Diffs:     []ProductDiff{},
	}

	claimed := make([]bool, len(remote))
	byID := make(map[string]int, len(remote))
	for i, r := range remote {
		if _, dup := byID[r.ID]; !dup {
			byID[r.ID] = i
		}
	}

	for _, l := range local {
		idx := match(l, remote, byID, claimed)
		if idx < 0 {
			result.LocalOnly = append(result.LocalOnly, LocalOnly{ID: l.ID, Name: l.Name, Price: l.Price, Active: l.Active})
			continue
		}
		claimed[idx] = true
		r := remote[idx]

		result.Synced = append(result.Synced, SyncedPair{
			LocalID:    l.ID,
			FudoID:     r.ID,
			Name:       l.Name,
			LocalPrice: l.Price,
			FudoPrice:  r.Price,
		})
		if fields := diffFields(l, r); len(fields) > 0 {
			result.Diffs = append(result.Diffs, ProductDiff{LocalID: l.ID, FudoID: r.ID, Name: l.Name, Fields: fields})
		}
	}

	for i, r := range remote {
		if !claimed[i] {
			result.FudoOnly = append(result.FudoOnly, FudoOnly{ID: r.ID, Name: r.Name, Price: r.Price, Active: r.Active})
		}
	}

	result.Summary = Summary{
		TotalLocal: len(local),
		TotalFudo:  len(remote),
		Synced:     len(result.Synced),
		LocalOnly:  len(result.LocalOnly),
		FudoOnly:   len(result.FudoOnly),
		WithDiffs:  len(result.Diffs),
	}
	return result
}

func match(l LocalProduct, remote []FudoProduct, byID map[string]int, claimed []bool) int {
	if l.FudoID != nil && *l.FudoID != "" {
		if idx, ok := byID[*l.FudoID]; ok && !claimed[idx] {
			return idx
		}
		return -1
	}

	name := strings.TrimSpace(l.Name)
	for i, r := range remote {
		if !claimed[i] && strings.EqualFold(name, strings.TrimSpace(r.Name)) {
			return i
		}
	}
	return -1
}

func diffFields(l LocalProduct, r FudoProduct) []SyncFieldDiff {
	var fields []SyncFieldDiff

	if strings.TrimSpace(l.Name) != strings.TrimSpace(r.Name) {
		fields = append(fields, SyncFieldDiff{Field: "name", Local: l.Name, Fudo: r.Name})
	}
	if !normalizePrice(l.Price).Equal(normalizePrice(r.Price)) {
		fields = append(fields, SyncFieldDiff{Field: "price", Local: l.Price, Fudo: r.Price})
	}
	if l.Active != r.Active {
		fields = append(fields, SyncFieldDiff{Field: "active", Local: l.Active, Fudo: r.Active})
	}
	return fields
}

// normalizePrice rounds to whole currency units.
func normalizePrice(p float64) decimal.Decimal {
	return decimal.NewFromFloat(p).Round(0)
}

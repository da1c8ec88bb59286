// Package ranking computes grouped counts and percentage shares over a
// harvested record set, for the "who is on X" reports.
package ranking

import (
	"sort"

	"github.com/leavex/mepscan/internal/types"
)

// GroupCount is the number of members on X within one group.
type GroupCount struct {
	Group string
	Count int
}

// GroupShare is the share of a group's members that are on X.
type GroupShare struct {
	Group string
	OnX   int
	Total int
	Pct   float64
}

// Key selects the grouping value for a record. Records with an empty key
// are skipped.
type Key func(types.MemberRecord) string

// ByCountry groups by country.
func ByCountry(r types.MemberRecord) string { return r.Country }

// ByNationalParty groups by national party.
func ByNationalParty(r types.MemberRecord) string { return r.NationalParty }

// ByPoliticalGroup groups by EU-level political group.
func ByPoliticalGroup(r types.MemberRecord) string { return r.PoliticalGroup }

// OnX returns the members that have a social media link.
func OnX(records []types.MemberRecord) []types.MemberRecord {
	out := make([]types.MemberRecord, 0, len(records))
	for _, r := range records {
		if r.HasSocial() {
			out = append(out, r)
		}
	}
	return out
}

// CountBy counts members on X per group, sorted by count descending then
// group name ascending.
func CountBy(records []types.MemberRecord, key Key) []GroupCount {
	counts := make(map[string]int)
	for _, r := range OnX(records) {
		if g := key(r); g != "" {
			counts[g]++
		}
	}

	out := make([]GroupCount, 0, len(counts))
	for g, n := range counts {
		out = append(out, GroupCount{Group: g, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Group < out[j].Group
	})
	return out
}

// ShareBy computes, per group, how many members are on X out of the
// group's total, sorted by percentage descending, then on-X count
// descending, then group name ascending.
func ShareBy(records []types.MemberRecord, key Key) []GroupShare {
	totals := make(map[string]int)
	onX := make(map[string]int)
	for _, r := range records {
		g := key(r)
		if g == "" {
			continue
		}
		totals[g]++
		if r.HasSocial() {
			onX[g]++
		}
	}

	out := make([]GroupShare, 0, len(totals))
	for g, total := range totals {
		share := GroupShare{Group: g, OnX: onX[g], Total: total}
		if total > 0 {
			share.Pct = float64(share.OnX) / float64(total) * 100
		}
		out = append(out, share)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pct != out[j].Pct {
			return out[i].Pct > out[j].Pct
		}
		if out[i].OnX != out[j].OnX {
			return out[i].OnX > out[j].OnX
		}
		return out[i].Group < out[j].Group
	})
	return out
}

// Package harvest drives the discovery → fetch → extract → assemble run
// over the full member roster.
package harvest

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/leavex/mepscan/internal/config"
	"github.com/leavex/mepscan/internal/discovery"
	"github.com/leavex/mepscan/internal/extract"
	"github.com/leavex/mepscan/internal/fetch"
	"github.com/leavex/mepscan/internal/types"
)

// Counters reports what happened during one run.
type Counters struct {
	Attempted  int // unique identifiers discovered
	Fetched    int // profile pages retrieved successfully
	Skipped    int // members dropped because their page was unavailable
	Filtered   int // members dropped by the inclusion predicate
	Duplicates int // duplicate identifiers seen during discovery
}

// Predicate decides whether an assembled record is included in the output.
type Predicate func(types.MemberRecord) bool

// HasSocial keeps only members with a social media link.
func HasSocial(r types.MemberRecord) bool {
	return r.HasSocial()
}

// Harvester runs the full pipeline. The only fatal failure is an
// unreachable roster page; every per-member failure is contained and
// counted.
type Harvester struct {
	cfg     *config.Config
	fetcher *fetch.Fetcher
	log     *zap.SugaredLogger
}

// New creates a Harvester.
func New(cfg *config.Config, fetcher *fetch.Fetcher, log *zap.SugaredLogger) *Harvester {
	return &Harvester{cfg: cfg, fetcher: fetcher, log: log}
}

// Run harvests the whole roster and returns records in discovery order.
// The include predicate may be nil to keep every record.
func (h *Harvester) Run(ctx context.Context, include Predicate) ([]types.MemberRecord, Counters, error) {
	runID := uuid.New()
	rosterURL := h.cfg.RosterURL()
	h.log.Infow("starting harvest", "run_id", runID, "roster", rosterURL, "workers", h.cfg.Workers)

	rosterHTML, ok := h.fetcher.Get(ctx, rosterURL)
	if !ok {
		return nil, Counters{}, fmt.Errorf("roster page unreachable: %s", rosterURL)
	}

	roster, err := discovery.Discover(rosterHTML, h.cfg.BaseURL, h.cfg.ProfilePrefix)
	if err != nil {
		return nil, Counters{}, fmt.Errorf("roster discovery failed: %w", err)
	}

	counters := Counters{
		Attempted:  len(roster.Entries),
		Duplicates: roster.Duplicates,
	}
	if roster.Duplicates > 0 {
		h.log.Warnw("duplicate identifiers on roster page, first seen wins",
			"duplicates", roster.Duplicates)
	}
	if len(roster.Entries) == 0 {
		h.log.Warnw("no member identifiers found on roster page", "roster", rosterURL)
		return nil, counters, nil
	}
	h.log.Infow("roster discovered", "members", len(roster.Entries))

	// Slots hold one result per discovered identifier so that output order
	// stays the discovery order regardless of fetch completion order.
	slots := make([]*types.MemberRecord, len(roster.Entries))
	var mu sync.Mutex
	processed := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.cfg.Workers)

	for i, entry := range roster.Entries {
		g.Go(func() error {
			rec, ok := h.harvestOne(gctx, entry)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case !ok:
				counters.Skipped++
			case include != nil && !include(rec):
				h.log.Debugw("record excluded by filter", "id", rec.ID)
				counters.Fetched++
				counters.Filtered++
			default:
				counters.Fetched++
				slots[i] = &rec
			}
			processed++
			if h.cfg.ProgressEvery > 0 && processed%h.cfg.ProgressEvery == 0 {
				h.log.Infof("processed %d/%d members", processed, len(roster.Entries))
			}
			return nil
		})
	}
	// Workers only record failures in counters, so Wait cannot fail.
	_ = g.Wait()

	records := make([]types.MemberRecord, 0, len(roster.Entries))
	for _, r := range slots {
		if r != nil {
			records = append(records, *r)
		}
	}

	h.log.Infow("harvest finished",
		"run_id", runID,
		"attempted", counters.Attempted,
		"fetched", counters.Fetched,
		"skipped", counters.Skipped,
		"filtered", counters.Filtered,
		"records", len(records))

	return records, counters, nil
}

// harvestOne fetches and extracts a single member. The bool is false when
// the profile page was unavailable.
func (h *Harvester) harvestOne(ctx context.Context, entry discovery.Entry) (types.MemberRecord, bool) {
	h.log.Debugw("fetching member profile", "id", entry.ID, "url", entry.Address)

	pageHTML, ok := h.fetcher.Get(ctx, entry.Address)
	if !ok {
		h.log.Warnw("skipping member, profile unavailable", "id", entry.ID, "url", entry.Address)
		return types.MemberRecord{}, false
	}

	fields := extract.Profile(pageHTML, entry.ID, h.cfg.Selectors)
	return Assemble(entry.ID, entry.Address, fields), true
}

// Assemble combines an identifier, its canonical profile address and the
// extracted fields into one immutable record. It cannot fail: every field
// beyond the three required ones is optional.
func Assemble(id, address string, f extract.Fields) types.MemberRecord {
	return types.MemberRecord{
		ID:                   id,
		Name:                 f.Name,
		ProfileAddress:       address,
		Email:                f.Email,
		SocialURL:            f.SocialURL,
		SocialHandle:         f.SocialHandle,
		PoliticalGroup:       f.PoliticalGroup,
		Country:              f.Country,
		NationalParty:        f.NationalParty,
		RawCountryPartyBlock: f.RawCountryPartyBlock,
	}
}

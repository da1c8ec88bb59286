package harvest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/leavex/mepscan/internal/config"
	"github.com/leavex/mepscan/internal/extract"
	"github.com/leavex/mepscan/internal/fetch"
	"github.com/leavex/mepscan/internal/types"
)

// profilePage renders a member profile with the site's markers.
func profilePage(name, group, countryBlock, email, social string) string {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	if name != "" {
		sb.WriteString("<h1>" + name + "</h1>")
	}
	if group != "" {
		sb.WriteString(`<h3 class="erpl_title-h3 mt-1 sln-political-group-name">` + group + "</h3>")
	}
	if countryBlock != "" {
		sb.WriteString(`<div class="erpl_title-h3 mt-1 mb-1">` + countryBlock + "</div>")
	}
	if email != "" {
		sb.WriteString(`<a class="link_email mr-2" href="mailto:` + email + `">Email</a>`)
	}
	if social != "" {
		sb.WriteString(`<a class="link_twitt mr-2" href="` + social + `">X</a>`)
	}
	sb.WriteString("</body></html>")
	return sb.String()
}

// newSite builds a fixture server with a roster page and per-id profile
// pages. Profiles mapped to an empty string return HTTP 500.
func newSite(t *testing.T, rosterIDs []string, profiles map[string]string) (*httptest.Server, config.Config) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/meps/en/full-list/all", func(w http.ResponseWriter, _ *http.Request) {
		var sb strings.Builder
		sb.WriteString("<html><body>")
		for _, id := range rosterIDs {
			sb.WriteString(fmt.Sprintf(`<a href="/meps/en/%s">Member %s</a>`, id, id))
		}
		sb.WriteString("</body></html>")
		_, _ = w.Write([]byte(sb.String()))
	})
	mux.HandleFunc("/meps/en/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/meps/en/")
		page, ok := profiles[id]
		if !ok || page == "" {
			http.Error(w, "unavailable", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(page))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.BaseURL = srv.URL
	cfg.RequestDelayMillis = 0
	cfg.TimeoutSeconds = 2
	cfg.ProgressEvery = 100
	return srv, cfg
}

func newHarvester(cfg *config.Config) *Harvester {
	log := zap.NewNop().Sugar()
	return New(cfg, fetch.New(cfg, log), log)
}

func TestRun_EndToEnd(t *testing.T) {
	// Roster lists 100 twice; profile 200 has none of the structured markers.
	_, cfg := newSite(t, []string{"100", "100", "200"}, map[string]string{
		"100": profilePage("Mika Aaltola",
			"Group of the European People's Party (Christian Democrats)",
			"Finland - Kansallinen Kokoomus (Finland)",
			"mika.aaltola@europarl.europa.eu",
			"https://x.com/MikaAaltola"),
		"200": "<html><body><p>nothing here</p></body></html>",
	})

	records, counters, err := newHarvester(&cfg).Run(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 2, counters.Attempted)
	assert.Equal(t, 2, counters.Fetched)
	assert.Equal(t, 1, counters.Duplicates)
	assert.Zero(t, counters.Skipped)
	assert.Zero(t, counters.Filtered)

	first := records[0]
	assert.Equal(t, "100", first.ID)
	assert.Equal(t, "Mika Aaltola", first.Name)
	assert.Equal(t, cfg.BaseURL+"/meps/en/100", first.ProfileAddress)
	assert.Equal(t, "Finland", first.Country)
	assert.Equal(t, "Kansallinen Kokoomus (Finland)", first.NationalParty)
	assert.Equal(t, "MikaAaltola", first.SocialHandle)

	second := records[1]
	assert.Equal(t, "200", second.ID)
	assert.Equal(t, "MEP-200", second.Name)
	assert.Empty(t, second.Email)
	assert.Empty(t, second.SocialURL)
	assert.Empty(t, second.PoliticalGroup)
	assert.Empty(t, second.Country)
}

func TestRun_SingleFetchFailureIsSkippedNotFatal(t *testing.T) {
	_, cfg := newSite(t, []string{"1", "2", "3"}, map[string]string{
		"1": profilePage("Jane Doe", "", "", "", ""),
		"2": "", // 500
		"3": profilePage("John Smith", "", "", "", ""),
	})

	records, counters, err := newHarvester(&cfg).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, 3, counters.Attempted)
	assert.Equal(t, 2, counters.Fetched)
	assert.Equal(t, 1, counters.Skipped)
}

func TestRun_InclusionPredicate(t *testing.T) {
	_, cfg := newSite(t, []string{"1", "2"}, map[string]string{
		"1": profilePage("Jane Doe", "", "", "", "https://x.com/JaneDoe"),
		"2": profilePage("John Smith", "", "", "", ""),
	})

	records, counters, err := newHarvester(&cfg).Run(context.Background(), HasSocial)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "1", records[0].ID)
	assert.Equal(t, 1, counters.Filtered)
	assert.Equal(t, 2, counters.Fetched)
}

func TestRun_RosterUnreachableIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	cfg := config.Default()
	cfg.BaseURL = srv.URL
	cfg.RequestDelayMillis = 0
	cfg.TimeoutSeconds = 1

	_, _, err := newHarvester(&cfg).Run(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "roster page unreachable")
}

func TestRun_EmptyRosterIsNotFatal(t *testing.T) {
	_, cfg := newSite(t, nil, nil)

	records, counters, err := newHarvester(&cfg).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Zero(t, counters.Attempted)
}

func TestRun_WorkersPreserveDiscoveryOrder(t *testing.T) {
	ids := []string{"10", "20", "30", "40", "50"}
	profiles := make(map[string]string, len(ids))
	for _, id := range ids {
		profiles[id] = profilePage("Member "+id, "", "", "", "")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/meps/en/full-list/all", func(w http.ResponseWriter, _ *http.Request) {
		var sb strings.Builder
		for _, id := range ids {
			sb.WriteString(fmt.Sprintf(`<a href="/meps/en/%s">m</a>`, id))
		}
		_, _ = w.Write([]byte(sb.String()))
	})
	mux.HandleFunc("/meps/en/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/meps/en/")
		// Earlier ids respond slower so completion order inverts.
		if id == "10" {
			time.Sleep(80 * time.Millisecond)
		} else if id == "20" {
			time.Sleep(40 * time.Millisecond)
		}
		_, _ = w.Write([]byte(profiles[id]))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.BaseURL = srv.URL
	cfg.RequestDelayMillis = 0
	cfg.TimeoutSeconds = 2
	cfg.Workers = 4

	records, counters, err := newHarvester(&cfg).Run(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, records, len(ids))
	assert.Equal(t, len(ids), counters.Fetched)
	for i, id := range ids {
		assert.Equal(t, id, records[i].ID)
	}
}

func TestAssemble(t *testing.T) {
	f := extract.Fields{
		Name:                 "Jane Doe",
		Email:                "jane.doe@example.org",
		SocialURL:            "https://x.com/JaneDoe",
		SocialHandle:         "JaneDoe",
		PoliticalGroup:       "Group of the Greens/European Free Alliance",
		Country:              "Finland",
		NationalParty:        "Kansallinen Kokoomus (Finland)",
		RawCountryPartyBlock: "Finland - Kansallinen Kokoomus (Finland)",
	}

	rec := Assemble("100", "https://example.org/meps/en/100", f)
	assert.Equal(t, types.MemberRecord{
		ID:                   "100",
		Name:                 "Jane Doe",
		ProfileAddress:       "https://example.org/meps/en/100",
		Email:                "jane.doe@example.org",
		SocialURL:            "https://x.com/JaneDoe",
		SocialHandle:         "JaneDoe",
		PoliticalGroup:       "Group of the Greens/European Free Alliance",
		Country:              "Finland",
		NationalParty:        "Kansallinen Kokoomus (Finland)",
		RawCountryPartyBlock: "Finland - Kansallinen Kokoomus (Finland)",
	}, rec)
}

func TestAssemble_EmptyFieldsStillValid(t *testing.T) {
	rec := Assemble("200", "https://example.org/meps/en/200", extract.Fields{Name: "MEP-200"})
	assert.Equal(t, "200", rec.ID)
	assert.Equal(t, "MEP-200", rec.Name)
	assert.NotEmpty(t, rec.ProfileAddress)
	assert.False(t, rec.HasSocial())
}

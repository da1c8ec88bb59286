// Package types defines the member record schema shared by the harvester,
// the override merge and the ranking reports.
package types

// MemberRecord is one harvested member. A record is assembled once per
// member per run and never mutated afterward; every field beyond ID, Name
// and ProfileAddress is optional, and an empty value means "not found on
// the profile page", which is a normal state rather than an error.
type MemberRecord struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	ProfileAddress       string `json:"profile_address"`
	Email                string `json:"email,omitempty"`
	SocialURL            string `json:"social_url,omitempty"`
	SocialHandle         string `json:"social_handle,omitempty"`
	PoliticalGroup       string `json:"political_group,omitempty"`
	Country              string `json:"country,omitempty"`
	NationalParty        string `json:"national_party,omitempty"`
	RawCountryPartyBlock string `json:"raw_country_party_block,omitempty"`
}

// HasSocial reports whether the member has a social media link.
func (r MemberRecord) HasSocial() bool {
	return r.SocialURL != ""
}

// FieldNames returns the output column names in canonical order. The CSV
// header and the JSON keys are derived from the same list, so the two
// outputs always agree on the schema.
func FieldNames() []string {
	return []string{
		"id",
		"name",
		"profile_address",
		"email",
		"social_url",
		"social_handle",
		"political_group",
		"country",
		"national_party",
		"raw_country_party_block",
	}
}

// Row returns the record values in FieldNames order. Absent fields render
// as empty strings.
func (r MemberRecord) Row() []string {
	return []string{
		r.ID,
		r.Name,
		r.ProfileAddress,
		r.Email,
		r.SocialURL,
		r.SocialHandle,
		r.PoliticalGroup,
		r.Country,
		r.NationalParty,
		r.RawCountryPartyBlock,
	}
}

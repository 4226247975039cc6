package models

// LookupRequest is the query string accepted by the weather endpoints.
// City is validated by the lookup service so that blank input yields the
// same message on every surface. Match is parsed with the same rules as
// the GEOCODING_MATCH_POLICY setting.
type LookupRequest struct {
	City  string `form:"city"`
	Match string `form:"match"`
}

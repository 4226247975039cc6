package geocoding

import (
	"fmt"
	"strings"
)

// MatchPolicy decides whether the top geocoding candidate is acceptable.
type MatchPolicy string

const (
	// MatchStrict accepts the candidate only when its name equals the query,
	// ignoring case.
	MatchStrict MatchPolicy = "strict"
	// MatchLoose accepts the top candidate unconditionally.
	MatchLoose MatchPolicy = "loose"
)

// DefaultMatchPolicy is used whenever no policy is configured or requested.
const DefaultMatchPolicy = MatchStrict

// ParseMatchPolicy converts user or config input into a MatchPolicy.
// Empty input yields DefaultMatchPolicy.
func ParseMatchPolicy(value string) (MatchPolicy, error) {
	switch MatchPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "":
		return DefaultMatchPolicy, nil
	case MatchStrict:
		return MatchStrict, nil
	case MatchLoose:
		return MatchLoose, nil
	default:
		return "", fmt.Errorf("unknown match policy %q", value)
	}
}

// ParseOverride parses a per-call policy. Empty input yields the empty
// policy so the configured default stays in force.
func ParseOverride(value string) (MatchPolicy, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	return ParseMatchPolicy(value)
}

// Decode lets envconfig populate a MatchPolicy field.
func (p *MatchPolicy) Decode(value string) error {
	parsed, err := ParseMatchPolicy(value)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p MatchPolicy) accepts(query, candidate string) bool {
	if p == MatchLoose {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(candidate), query)
}

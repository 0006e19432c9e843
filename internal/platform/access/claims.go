package access

import "strings"

// GroupsClaim is the token claim carrying group memberships.
const GroupsClaim = "cognito:groups"

// GroupsFromClaim normalizes the raw groups claim into a list of group names.
//
// Cognito is inconsistent about the claim shape: API Gateway authorizers
// flatten it to a comma-joined string, while a directly decoded ID token
// carries a native JSON array. Both are handled here; anything else yields
// nil, which downstream derivation treats as no access.
func GroupsFromClaim(claim any) []string {
	switch v := claim.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		parts := strings.Split(v, ",")
		groups := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				groups = append(groups, p)
			}
		}
		return groups
	case []string:
		return v
	case []any:
		groups := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				groups = append(groups, s)
			}
		}
		return groups
	default:
		return nil
	}
}

package identity

import (
	"encoding/base64"
	"encoding/json"
	"strings"
)

// Status is the decode outcome. Decode failures are values, not errors:
// nothing in this package can fail a request.
type Status int

const (
	// StatusAbsent: no authorization header (or no bearer scheme).
	StatusAbsent Status = iota
	// StatusOK: claims decoded, identity populated.
	StatusOK
	// StatusMalformed: header present but the token did not decode.
	StatusMalformed
)

// Result is what ParseAuthorization always returns. Reason is set only
// for StatusMalformed and is safe to log (it never echoes the token).
type Result struct {
	Identity Identity
	Status   Status
	Reason   string
}

const bearerPrefix = "Bearer "

// ParseAuthorization decodes the claims segment of a bearer token from
// a raw Authorization header value. No signature check, no expiry
// enforcement: decode is opportunistic and total.
func ParseAuthorization(header string) Result {
	if header == "" {
		return Result{Status: StatusAbsent}
	}
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return Result{Status: StatusMalformed, Reason: "authorization header is not a bearer credential"}
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return Result{Status: StatusMalformed, Reason: "empty token after bearer prefix"}
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Result{Status: StatusMalformed, Reason: "token is not three dot-separated segments"}
	}

	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return Result{Status: StatusMalformed, Reason: "claims segment is not valid base64url"}
	}

	var claims map[string]any
	if err := json.Unmarshal(payload, &claims); err != nil {
		return Result{Status: StatusMalformed, Reason: "claims segment is not a JSON object"}
	}

	return Result{Status: StatusOK, Identity: mapClaims(claims)}
}

// recognized claim names; everything else lands in Extra
var knownClaims = map[string]bool{
	"sub": true, "preferred_username": true, "username": true,
	"email": true, "roles": true, "realm_access": true, "groups": true,
	"permissions": true, "scope": true, "typ": true, "token_type": true,
	"iat": true, "exp": true,
}

func mapClaims(claims map[string]any) Identity {
	id := Identity{}

	id.Subject, _ = claims["sub"].(string)
	if v, ok := claims["preferred_username"].(string); ok {
		id.Username = v
	} else if v, ok := claims["username"].(string); ok {
		id.Username = v
	}
	id.Email, _ = claims["email"].(string)

	// roles: direct claim, then Keycloak realm_access, then groups
	if v, ok := claims["roles"]; ok {
		id.Roles = stringList(v)
	} else if ra, ok := claims["realm_access"].(map[string]any); ok {
		id.Roles = stringList(ra["roles"])
	} else if v, ok := claims["groups"]; ok {
		id.Roles = stringList(v)
	}

	// permissions: direct claim, then OAuth2 scope (space-separated)
	if v, ok := claims["permissions"]; ok {
		id.Permissions = stringList(v)
	} else if s, ok := claims["scope"].(string); ok {
		id.Permissions = strings.Fields(s)
	} else if v, ok := claims["scope"]; ok {
		id.Permissions = stringList(v)
	}

	if v, ok := claims["typ"].(string); ok {
		id.TokenType = v
	} else if v, ok := claims["token_type"].(string); ok {
		id.TokenType = v
	}
	id.IssuedAt = intClaim(claims["iat"])
	id.ExpiresAt = intClaim(claims["exp"])

	for k, v := range claims {
		if knownClaims[k] {
			continue
		}
		if id.Extra == nil {
			id.Extra = make(map[string]any)
		}
		id.Extra[k] = v
	}
	return id
}

// stringList coerces a claim into a string slice: JSON arrays,
// comma- or space-separated strings, or a bare scalar.
func stringList(v any) []string {
	switch x := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			if s, ok := item.(string); ok {
				if s != "" {
					out = append(out, s)
				}
			} else if item != nil {
				out = append(out, stringify(item))
			}
		}
		return out
	case []string:
		return x
	case string:
		if strings.Contains(x, ",") {
			return splitTrim(x, ",")
		}
		if strings.Contains(x, " ") {
			return strings.Fields(x)
		}
		if x == "" {
			return nil
		}
		return []string{x}
	default:
		return []string{stringify(x)}
	}
}

func splitTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func stringify(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return strings.Trim(string(b), `"`)
}

// intClaim returns nil when the claim is absent or not numeric, so a
// literal 0 still counts as present.
func intClaim(v any) *int64 {
	var n int64
	switch x := v.(type) {
	case float64:
		n = int64(x)
	case int64:
		n = x
	case int:
		n = int64(x)
	case json.Number:
		n, _ = x.Int64()
	default:
		return nil
	}
	return &n
}

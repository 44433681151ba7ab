package identity

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"
)

// token builds a structurally valid unsigned token around the claims.
func token(t *testing.T, claims map[string]any) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

func TestParse_AbsentHeader(t *testing.T) {
	res := ParseAuthorization("")
	if res.Status != StatusAbsent {
		t.Fatalf("status = %v, want StatusAbsent", res.Status)
	}
	if res.Identity.IsAuthenticated() {
		t.Fatal("absent header produced an authenticated identity")
	}
}

func TestParse_NonBearerScheme(t *testing.T) {
	res := ParseAuthorization("Basic dXNlcjpwYXNz")
	if res.Status != StatusMalformed {
		t.Fatalf("status = %v, want StatusMalformed", res.Status)
	}
	if res.Reason == "" {
		t.Fatal("malformed result missing reason")
	}
}

func TestParse_EmptyToken(t *testing.T) {
	res := ParseAuthorization("Bearer   ")
	if res.Status != StatusMalformed {
		t.Fatalf("status = %v", res.Status)
	}
}

func TestParse_NotAJWT(t *testing.T) {
	res := ParseAuthorization("Bearer not-a-jwt")
	if res.Status != StatusMalformed {
		t.Fatalf("status = %v, want StatusMalformed", res.Status)
	}
	if res.Identity.IsAuthenticated() {
		t.Fatal("malformed token produced an identity")
	}
}

func TestParse_BadBase64Payload(t *testing.T) {
	res := ParseAuthorization("Bearer aaa.!!!.ccc")
	if res.Status != StatusMalformed {
		t.Fatalf("status = %v", res.Status)
	}
}

func TestParse_NonJSONPayload(t *testing.T) {
	seg := base64.RawURLEncoding.EncodeToString([]byte("plain text"))
	res := ParseAuthorization("Bearer aaa." + seg + ".ccc")
	if res.Status != StatusMalformed {
		t.Fatalf("status = %v", res.Status)
	}
}

func TestParse_FullClaims(t *testing.T) {
	res := ParseAuthorization("Bearer " + token(t, map[string]any{
		"sub":                "user123",
		"preferred_username": "alice",
		"email":              "alice@example.com",
		"roles":              []string{"user", "admin"},
		"permissions":        []string{"read:items"},
		"typ":                "access",
		"iat":                1700000000,
		"exp":                1700003600,
		"tenant":             "acme",
	}))
	if res.Status != StatusOK {
		t.Fatalf("status = %v (%s)", res.Status, res.Reason)
	}
	id := res.Identity
	if id.Subject != "user123" || id.Username != "alice" || id.Email != "alice@example.com" {
		t.Fatalf("identity = %+v", id)
	}
	if !id.HasRole("admin") || id.HasRole("root") {
		t.Fatalf("roles = %v", id.Roles)
	}
	if !id.HasPermission("read:items") {
		t.Fatalf("permissions = %v", id.Permissions)
	}
	if id.TokenType != "access" {
		t.Fatalf("token type = %q", id.TokenType)
	}
	if id.IssuedAt == nil || *id.IssuedAt != 1700000000 {
		t.Fatalf("iat = %v", id.IssuedAt)
	}
	if id.ExpiresAt == nil || *id.ExpiresAt != 1700003600 {
		t.Fatalf("exp = %v", id.ExpiresAt)
	}
	if id.Extra["tenant"] != "acme" {
		t.Fatalf("extra = %v", id.Extra)
	}
}

func TestParse_UsernameFallback(t *testing.T) {
	res := ParseAuthorization("Bearer " + token(t, map[string]any{"sub": "u1", "username": "bob"}))
	if res.Identity.Username != "bob" {
		t.Fatalf("username = %q", res.Identity.Username)
	}
}

func TestParse_KeycloakRealmRoles(t *testing.T) {
	res := ParseAuthorization("Bearer " + token(t, map[string]any{
		"sub":          "u1",
		"realm_access": map[string]any{"roles": []string{"offline_access", "user"}},
	}))
	if !res.Identity.HasRole("offline_access") {
		t.Fatalf("roles = %v", res.Identity.Roles)
	}
}

func TestParse_GroupsAsRoles(t *testing.T) {
	res := ParseAuthorization("Bearer " + token(t, map[string]any{
		"sub":    "u1",
		"groups": []string{"ops", "dev"},
	}))
	if !res.Identity.HasAnyRole("ops") {
		t.Fatalf("roles = %v", res.Identity.Roles)
	}
}

func TestParse_ScopeAsPermissions(t *testing.T) {
	res := ParseAuthorization("Bearer " + token(t, map[string]any{
		"sub":   "u1",
		"scope": "read:items write:items",
	}))
	if !res.Identity.HasPermission("write:items") {
		t.Fatalf("permissions = %v", res.Identity.Permissions)
	}
}

func TestParse_CommaSeparatedRoles(t *testing.T) {
	res := ParseAuthorization("Bearer " + token(t, map[string]any{
		"sub":   "u1",
		"roles": "user, admin",
	}))
	if !res.Identity.HasRole("admin") {
		t.Fatalf("roles = %v", res.Identity.Roles)
	}
}

func TestParse_ScalarRoleCoerced(t *testing.T) {
	res := ParseAuthorization("Bearer " + token(t, map[string]any{
		"sub":   "u1",
		"roles": "viewer",
	}))
	if len(res.Identity.Roles) != 1 || res.Identity.Roles[0] != "viewer" {
		t.Fatalf("roles = %v", res.Identity.Roles)
	}
}

func TestParse_ExpiredStillDecodes(t *testing.T) {
	// exp at the epoch: present, long past, and still fully decoded
	res := ParseAuthorization("Bearer " + token(t, map[string]any{
		"sub": "user123",
		"exp": 0,
	}))
	if res.Status != StatusOK {
		t.Fatalf("status = %v", res.Status)
	}
	if !res.Identity.Expired(time.Now()) {
		t.Fatal("exp=0 should report expired")
	}
	if res.Identity.Subject != "user123" {
		t.Fatal("expired token lost its claims")
	}
}

func TestExpired_AbsentClaimNeverExpires(t *testing.T) {
	var id Identity
	if id.Expired(time.Now()) {
		t.Fatal("identity without exp reported expired")
	}
}

func TestIdentityContext_RoundTrip(t *testing.T) {
	want := Identity{Subject: "u1", Roles: []string{"user"}}
	ctx := NewContext(t.Context(), want)
	got := FromContext(ctx)
	if got.Subject != "u1" || !got.HasRole("user") {
		t.Fatalf("identity = %+v", got)
	}
}

func TestFromContext_Zero(t *testing.T) {
	got := FromContext(t.Context())
	if got.IsAuthenticated() {
		t.Fatal("bare context produced an authenticated identity")
	}
}

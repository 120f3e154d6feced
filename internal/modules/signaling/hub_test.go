package signaling

import "testing"

func TestTokenFromHandshakePrecedence(t *testing.T) {
	auth := map[string]interface{}{"token": "Bearer auth-token"}
	query := map[string][]string{"token": {"query-token"}}
	headers := map[string][]string{"Authorization": {"Bearer header-token"}}

	if got := tokenFromHandshake(auth, query, headers); got != "auth-token" {
		t.Errorf("auth payload must win, got %q", got)
	}
	if got := tokenFromHandshake(nil, query, headers); got != "query-token" {
		t.Errorf("query string is the next fallback, got %q", got)
	}
	if got := tokenFromHandshake(nil, nil, headers); got != "header-token" {
		t.Errorf("authorization header is the last fallback, got %q", got)
	}
	if got := tokenFromHandshake(map[string]interface{}{"token": "  "}, nil, nil); got != "" {
		t.Errorf("blank auth token must yield empty, got %q", got)
	}
	if got := tokenFromHandshake("not-a-map", nil, nil); got != "" {
		t.Errorf("non-object auth payload must yield empty, got %q", got)
	}
}

func TestNormalizeTokenStripsBearer(t *testing.T) {
	cases := map[string]string{
		"Bearer abc":   "abc",
		"bearer abc":   "abc",
		"  abc  ":      "abc",
		"Bearer   abc": "abc",
		"":             "",
		"   ":          "",
	}
	for in, want := range cases {
		if got := normalizeToken(in); got != want {
			t.Errorf("normalizeToken(%q) = %q, want %q", in, got, want)
		}
	}
}

package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                           "/",
		"/metrics":                   "/metrics",
		"/v1/clients/abc":            "/v1/clients/:id",
		"/v1/clients/abc?search=x":   "/v1/clients/:id",
		"/v1/identities/abc/role":    "/v1/identities/:id/role",
		"/v1/identities/abc/extra":   "/v1/identities/abc/extra",
		"/v1/programs":               "/v1/programs",
		"/v1/enrollments":            "/v1/enrollments",
		"/v1/clients?search=jane":    "/v1/clients",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}

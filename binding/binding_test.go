package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubstitute(t *testing.T) {
	values := Values{
		"SITE_NAME":      "Test Site",
		"CLEARANCE_TYPE": "Friable",
		"CLIENT_NAME":    "   ",
	}
	cases := []struct {
		name, in, placeholder, want string
	}{
		{"known tokens", "{CLEARANCE_TYPE} clearance at {SITE_NAME}.", "", "Friable clearance at Test Site."},
		{"missing value", "Client: {CLIENT_NAME}", "", "Client: [Not provided]"},
		{"unknown token", "Assessor: {ASSESSOR_NAME}", "n/a", "Assessor: n/a"},
		{"repeated token", "{SITE_NAME}/{SITE_NAME}", "", "Test Site/Test Site"},
		{"not a token", "{lower} and {} and { SITE_NAME }", "", "{lower} and {} and { SITE_NAME }"},
		{"no braces", "plain text", "", "plain text"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Substitute(tc.in, values, tc.placeholder))
		})
	}
}

func TestTokens(t *testing.T) {
	text := "{SITE_NAME} on {CLEARANCE_DATE} ({SITE_NAME}) {bad}"
	assert.Equal(t, []string{"SITE_NAME", "CLEARANCE_DATE"}, Tokens(text))
	assert.Equal(t, []string{"CLEARANCE_DATE"}, Unknown(text, Values{"SITE_NAME": "x"}))
	assert.Empty(t, Tokens("nothing here"))
}

package redact

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmail(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"monet@giverny.fr": "mo***@giverny.fr",
		"ab@x.io":          "***@x.io",
		"not-an-email":     "***",
		"a@b@c":            "***",
	}

	for in, want := range cases {
		require.Equal(t, want, Email(in), in)
	}
}

func TestToken(t *testing.T) {
	t.Parallel()

	require.Equal(t, "", Token(""))
	require.Equal(t, "[REDACTED_TOKEN]", Token("eyJhbGciOi..."))
}

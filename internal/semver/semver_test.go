package semver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdmeta/internal/change"
	"git.home.luguber.info/inful/mdmeta/internal/errors"
)

func TestBumpTiers(t *testing.T) {
	cases := []struct {
		version string
		tier    change.Tier
		want    string
	}{
		{"1.2.3", change.TierMajor, "2.0.0"},
		{"1.2.3", change.TierMedium, "1.3.0"},
		{"1.2.3", change.TierMinor, "1.2.4"},
		{"0.9.9", change.TierMedium, "0.10.0"},
		{"9.0.0", change.TierMajor, "10.0.0"},
	}

	for _, tc := range cases {
		got, err := Bump(tc.version, tc.tier)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s + %s", tc.version, tc.tier)
	}
}

func TestBumpZeroShortCircuits(t *testing.T) {
	for _, tier := range []change.Tier{change.TierMajor, change.TierMedium, change.TierMinor} {
		got, err := Bump("0.0.0", tier)
		require.NoError(t, err)
		assert.Equal(t, "0.0.1", got)

		got, err = Bump("", tier)
		require.NoError(t, err)
		assert.Equal(t, "0.0.1", got)
	}
}

func TestBumpMissingComponentsDefaultToZero(t *testing.T) {
	got, err := Bump("2", change.TierMinor)
	require.NoError(t, err)
	assert.Equal(t, "2.0.1", got)

	got, err = Bump("1.5", change.TierMedium)
	require.NoError(t, err)
	assert.Equal(t, "1.6.0", got)
}

func TestBumpMalformedVersion(t *testing.T) {
	for _, in := range []string{"a.b.c", "1.x.0", "1.2.-3", "one"} {
		_, err := Bump(in, change.TierMinor)
		require.Error(t, err, "input %q", in)
		assert.True(t, errors.IsCategory(err, errors.CategoryVersion), "input %q", in)
	}
}

package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sha256hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestHeadings(t *testing.T) {
	t.Run("levels and order", func(t *testing.T) {
		body := "# Title\n\nprose\n## Section\n### Deep\nnot # a heading\n###### Six"
		got := Headings(body)
		require.Equal(t, []Heading{
			{1, "Title"},
			{2, "Section"},
			{3, "Deep"},
			{6, "Six"},
		}, got)
	})

	t.Run("duplicates preserved", func(t *testing.T) {
		got := Headings("# A\n# A\n## B")
		assert.Len(t, got, 3)
		assert.Equal(t, got[0], got[1])
	})

	t.Run("seven hashes is not a heading", func(t *testing.T) {
		assert.Empty(t, Headings("####### Too deep"))
	})

	t.Run("hash without space is not a heading", func(t *testing.T) {
		assert.Empty(t, Headings("#hashtag"))
	})

	t.Run("text is trimmed", func(t *testing.T) {
		got := Headings("##   Padded Text   ")
		require.Len(t, got, 1)
		assert.Equal(t, Heading{2, "Padded Text"}, got[0])
	})

	t.Run("no headings", func(t *testing.T) {
		assert.Empty(t, Headings("just prose\nand more prose"))
	})
}

func TestHeadingKeyRoundTrip(t *testing.T) {
	h := Heading{Level: 2, Text: "Usage: advanced"}
	assert.Equal(t, "2:Usage: advanced", h.Key())
	// Text containing colons survives because only the first colon splits.
	assert.Equal(t, h, ParseKey(h.Key()))
}

func TestParseKeyMalformed(t *testing.T) {
	got := ParseKey("garbage")
	assert.Equal(t, Heading{Level: 0, Text: "garbage"}, got)

	got = ParseKey("x:oops")
	assert.Equal(t, Heading{Level: 0, Text: "x:oops"}, got)
}

func TestCompute(t *testing.T) {
	body := "# Title\n\nHello\n## Sub"

	fp, err := Compute(body)
	require.NoError(t, err)

	assert.Equal(t, sha256hex(body), fp.ContentHash)
	// headers_hash covers the sorted '|'-joined heading key set.
	assert.Equal(t, sha256hex("1:Title|2:Sub"), fp.HeadersHash)
	assert.JSONEq(t, `["1:Title","2:Sub"]`, fp.Headers)
}

func TestComputeHeadersHashIsOrderIndependent(t *testing.T) {
	a, err := Compute("# One\n## Two\ntext")
	require.NoError(t, err)
	b, err := Compute("## Two\n# One\nother text")
	require.NoError(t, err)

	assert.Equal(t, a.HeadersHash, b.HeadersHash)
	assert.NotEqual(t, a.ContentHash, b.ContentHash)
}

func TestComputeDuplicateHeadingsCollapseInHash(t *testing.T) {
	a, err := Compute("# A\n# A")
	require.NoError(t, err)
	b, err := Compute("# A")
	require.NoError(t, err)

	assert.Equal(t, a.HeadersHash, b.HeadersHash)
	// The stored ordered list keeps the duplicate.
	assert.Len(t, a.HeadingList(), 2)
	assert.Len(t, b.HeadingList(), 1)
}

func TestEncodeDecode(t *testing.T) {
	fp, err := Compute("# Title\n\nbody")
	require.NoError(t, err)

	s, err := fp.Encode()
	require.NoError(t, err)

	got, ok := Decode(s)
	require.True(t, ok)
	assert.Equal(t, fp, got)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "not json", "{}", `{"headers_hash":"x"}`} {
		_, ok := Decode(in)
		assert.False(t, ok, "input %q should not decode", in)
	}
}

func TestHeadingListFromStoredFingerprint(t *testing.T) {
	fp := Fingerprint{ContentHash: "x", HeadersHash: "y", Headers: `["1:A","2:B"]`}
	got := fp.HeadingList()
	require.Equal(t, []Heading{{1, "A"}, {2, "B"}}, got)

	assert.Nil(t, Fingerprint{}.HeadingList())
	assert.Nil(t, Fingerprint{Headers: "not json"}.HeadingList())
}

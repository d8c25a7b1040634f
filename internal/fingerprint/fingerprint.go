// Package fingerprint computes content and heading hashes used to detect
// whether a document body changed between revisions, and to which degree.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/mdmeta/internal/util/sets"
)

// headingPattern matches an ATX heading line: 1-6 '#' characters, whitespace, text.
// Heading detection is deliberately line-based, not a markdown parse: the hash
// must be stable against parser version changes.
var headingPattern = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// Heading is a single markdown heading in document order.
type Heading struct {
	Level int
	Text  string
}

// Key returns the canonical "level:text" form used in hashes and stored lists.
func (h Heading) Key() string {
	return fmt.Sprintf("%d:%s", h.Level, h.Text)
}

// ParseKey decodes a "level:text" string back into a Heading.
// Malformed keys degrade to level 0 with the raw string as text so a corrupt
// stored list never aborts classification.
func ParseKey(key string) Heading {
	level, text, ok := strings.Cut(key, ":")
	if ok {
		if n, err := strconv.Atoi(level); err == nil {
			return Heading{Level: n, Text: text}
		}
	}
	return Heading{Level: 0, Text: key}
}

// Headings extracts every heading line from body, in document order,
// duplicates preserved. Text is trimmed of surrounding whitespace.
func Headings(body string) []Heading {
	var out []Heading
	for _, line := range strings.Split(body, "\n") {
		m := headingPattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		out = append(out, Heading{Level: len(m[1]), Text: strings.TrimSpace(m[2])})
	}
	return out
}

// Fingerprint captures a document body's content hash and heading structure.
// Headers holds the ordered "level:text" list as a serialized JSON array so
// the whole fingerprint embeds into a metadata block as one string field.
type Fingerprint struct {
	ContentHash string `json:"content_hash"`
	HeadersHash string `json:"headers_hash"`
	Headers     string `json:"headers,omitempty"`
}

// Compute fingerprints the exact body bytes.
//
// ContentHash covers the body verbatim. HeadersHash covers the sorted,
// '|'-joined set of heading keys (set semantics: duplicates collapse,
// order-independent). Headers keeps the unsorted document-order list for
// later ordered comparison.
func Compute(body string) (Fingerprint, error) {
	headings := Headings(body)

	keySet := sets.New[string]()
	ordered := make([]string, 0, len(headings))
	for _, h := range headings {
		keySet.Add(h.Key())
		ordered = append(ordered, h.Key())
	}

	encoded, err := json.Marshal(ordered)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("encode headers list: %w", err)
	}

	return Fingerprint{
		ContentHash: hashString(body),
		HeadersHash: hashString(strings.Join(sets.SortedStrings(keySet), "|")),
		Headers:     string(encoded),
	}, nil
}

// HeadingList decodes the stored Headers field back into document order.
// An absent or unparseable field yields nil.
func (f Fingerprint) HeadingList() []Heading {
	if f.Headers == "" {
		return nil
	}
	var keys []string
	if err := json.Unmarshal([]byte(f.Headers), &keys); err != nil {
		return nil
	}
	out := make([]Heading, 0, len(keys))
	for _, k := range keys {
		out = append(out, ParseKey(k))
	}
	return out
}

// Encode serializes the fingerprint for embedding in a metadata block.
func (f Fingerprint) Encode() (string, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("encode fingerprint: %w", err)
	}
	return string(b), nil
}

// Decode parses an embedded fingerprint string. ok is false when the field
// is absent or unparseable; callers treat that as "no prior fingerprint".
func Decode(s string) (Fingerprint, bool) {
	if strings.TrimSpace(s) == "" {
		return Fingerprint{}, false
	}
	var f Fingerprint
	if err := json.Unmarshal([]byte(s), &f); err != nil {
		return Fingerprint{}, false
	}
	if f.ContentHash == "" {
		return Fingerprint{}, false
	}
	return f, true
}

func hashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

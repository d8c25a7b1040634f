// Package metadata locates, parses, merges, and serializes the trailing
// metadata block embedded in markdown documents.
package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"git.home.luguber.info/inful/mdmeta/internal/semver"
)

// Well-known block fields.
const (
	FieldCreatedAt   = "created_at"
	FieldUpdatedAt   = "updated_at"
	FieldAuthor      = "author"
	FieldVersion     = "version"
	FieldUID         = "uid"
	FieldFingerprint = "_fingerprint"
)

// TimeLayout is the timestamp format used for created_at/updated_at,
// rendered in local time.
const TimeLayout = "2006-01-02 15:04:05"

// Block is an insertion-ordered mapping of metadata keys to string values.
// Serialization emits keys in the order the mapping holds, so an ordered map
// is load-bearing here, not cosmetic.
type Block struct {
	fields *orderedmap.OrderedMap[string, string]
}

// NewBlock returns an empty block.
func NewBlock() *Block {
	return &Block{fields: orderedmap.New[string, string]()}
}

// DefaultSkeleton returns a fresh copy of the default metadata template.
// Always a new value: the skeleton must never be shared or mutated in place.
func DefaultSkeleton() *Block {
	b := NewBlock()
	b.Set(FieldCreatedAt, "")
	b.Set(FieldUpdatedAt, "")
	b.Set(FieldAuthor, "")
	b.Set(FieldVersion, semver.Initial)
	return b
}

// Get returns the value for key, or "" when absent.
func (b *Block) Get(key string) string {
	v, _ := b.fields.Get(key)
	return v
}

// Has reports whether key is present.
func (b *Block) Has(key string) bool {
	_, ok := b.fields.Get(key)
	return ok
}

// Set stores key=value. An existing key keeps its position; a new key is
// appended.
func (b *Block) Set(key, value string) {
	b.fields.Set(key, value)
}

// Delete removes key if present.
func (b *Block) Delete(key string) {
	b.fields.Delete(key)
}

// Len returns the number of fields.
func (b *Block) Len() int {
	return b.fields.Len()
}

// Keys returns the field names in insertion order.
func (b *Block) Keys() []string {
	out := make([]string, 0, b.fields.Len())
	for pair := b.fields.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// Clone returns an independent copy preserving order.
func (b *Block) Clone() *Block {
	out := NewBlock()
	for pair := b.fields.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, pair.Value)
	}
	return out
}

// Merge overlays other onto a copy of b; other wins on key collision. Keys
// already in b keep their position, new keys append in other's order.
func (b *Block) Merge(other *Block) *Block {
	out := b.Clone()
	if other == nil {
		return out
	}
	for pair := other.fields.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, pair.Value)
	}
	return out
}

// EqualExcluding reports whether both blocks hold the same key/value pairs,
// ignoring the listed keys. Order is not significant for equality.
func (b *Block) EqualExcluding(other *Block, exclude ...string) bool {
	skip := make(map[string]struct{}, len(exclude))
	for _, k := range exclude {
		skip[k] = struct{}{}
	}

	count := func(blk *Block) int {
		n := 0
		for pair := blk.fields.Oldest(); pair != nil; pair = pair.Next() {
			if _, ok := skip[pair.Key]; !ok {
				n++
			}
		}
		return n
	}
	if count(b) != count(other) {
		return false
	}

	for pair := b.fields.Oldest(); pair != nil; pair = pair.Next() {
		if _, ok := skip[pair.Key]; ok {
			continue
		}
		ov, ok := other.fields.Get(pair.Key)
		if !ok || ov != pair.Value {
			return false
		}
	}
	return true
}

// StampTimes sets updated_at to now and created_at to now when unset.
func (b *Block) StampTimes(now time.Time) {
	stamp := now.Format(TimeLayout)
	if b.Get(FieldCreatedAt) == "" {
		b.Set(FieldCreatedAt, stamp)
	}
	b.Set(FieldUpdatedAt, stamp)
}

// Render pretty-prints the block as 2-space-indented JSON. Keys appear in
// insertion order; non-ASCII characters and <, >, & are written literally.
func (b *Block) Render() string {
	var buf bytes.Buffer
	buf.WriteString("{")
	first := true
	for pair := b.fields.Oldest(); pair != nil; pair = pair.Next() {
		if !first {
			buf.WriteString(",")
		}
		first = false
		buf.WriteString("\n  ")
		buf.WriteString(encodeJSONString(pair.Key))
		buf.WriteString(": ")
		buf.WriteString(encodeJSONString(pair.Value))
	}
	if !first {
		buf.WriteString("\n")
	}
	buf.WriteString("}")
	return buf.String()
}

// encodeJSONString encodes s as a JSON string without HTML escaping, so
// non-ASCII text and comparison operators survive round trips literally.
func encodeJSONString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encode never fails for a plain string.
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

// stringify coerces an arbitrary JSON value to the string model used by Block.
func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return ""
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	default:
		// Nested structures flatten to their compact JSON form.
		raw, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(raw)
	}
}

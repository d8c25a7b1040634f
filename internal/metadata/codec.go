package metadata

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// blockPattern locates the trailing metadata block: a case-insensitive
// "<!-- METADATA" opener, the block content, and a "-->" delimiter anchored at
// end of document (trailing whitespace tolerated). No multiline flag: an
// apparent block in the middle of the document is not a metadata block.
var blockPattern = regexp.MustCompile(`(?is)<!--\s*METADATA\s*\n(.*?)\n-->\s*$`)

// Extract finds the trailing metadata block and returns the document body
// without it, plus the parsed block. When no block matches, raw is returned
// unchanged with a nil block. Extract never fails: unparseable block content
// degrades to line-based key:value parsing.
func Extract(raw string) (body string, block *Block) {
	if raw == "" {
		return raw, nil
	}

	loc := blockPattern.FindStringSubmatchIndex(raw)
	if loc == nil {
		return raw, nil
	}

	content := strings.TrimSpace(raw[loc[2]:loc[3]])
	body = raw[:loc[0]] + raw[loc[1]:]
	return body, Parse(content)
}

// Parse interprets block content as metadata fields overlaid on the default
// skeleton. JSON is tried first; on failure each "key: value" line is split at
// the first colon with the key lower-cased and trimmed.
func Parse(content string) *Block {
	block := DefaultSkeleton()
	if strings.TrimSpace(content) == "" {
		return block
	}

	parsed := orderedmap.New[string, any]()
	if err := json.Unmarshal([]byte(content), parsed); err == nil {
		for pair := parsed.Oldest(); pair != nil; pair = pair.Next() {
			block.Set(pair.Key, stringify(pair.Value))
		}
		return block
	}

	for _, line := range strings.Split(content, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		block.Set(strings.ToLower(strings.TrimSpace(key)), strings.TrimSpace(value))
	}
	return block
}

// Serialize stamps timestamps and wraps the rendered block in its comment
// markers. The block is mutated: created_at is preserved when already set,
// updated_at always becomes now.
func Serialize(block *Block, now time.Time) string {
	block.StampTimes(now)
	return Compose(block)
}

// Compose wraps the rendered block in comment markers without touching
// timestamps.
func Compose(block *Block) string {
	return "<!-- METADATA\n" + block.Render() + "\n-->"
}

// Remove strips the trailing metadata block, trims trailing whitespace, and
// enforces exactly one trailing newline.
func Remove(raw string) string {
	body, _ := Extract(raw)
	return strings.TrimRight(body, " \t\r\n") + "\n"
}

// ComposeDocument joins a body and a serialized block into the canonical
// full-document form: trimmed body, blank line, block, trailing newline.
func ComposeDocument(body, renderedBlock string) string {
	trimmed := strings.TrimRight(body, " \t\r\n")
	return trimmed + "\n\n" + renderedBlock + "\n"
}

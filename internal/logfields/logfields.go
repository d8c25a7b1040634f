// Package logfields centralizes slog attribute constructors so field names
// stay consistent across packages.
package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPath     = "path"
	KeyFile     = "file"
	KeyAuthor   = "author"
	KeyVersion  = "version"
	KeyTier     = "tier"
	KeyAction   = "action"
	KeyCount    = "count"
	KeyModified = "modified"
	KeyErrored  = "errored"
	KeyError    = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Path(p string) slog.Attr    { return slog.String(KeyPath, p) }
func File(f string) slog.Attr    { return slog.String(KeyFile, f) }
func Author(a string) slog.Attr  { return slog.String(KeyAuthor, a) }
func Version(v string) slog.Attr { return slog.String(KeyVersion, v) }
func Tier(t string) slog.Attr    { return slog.String(KeyTier, t) }
func Action(a string) slog.Attr  { return slog.String(KeyAction, a) }
func Count(n int) slog.Attr      { return slog.Int(KeyCount, n) }
func Modified(n int) slog.Attr   { return slog.Int(KeyModified, n) }
func Errored(n int) slog.Attr    { return slog.Int(KeyErrored, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

// Package fileio reads and writes document files with encoding fallback.
package fileio

import (
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"git.home.luguber.info/inful/mdmeta/internal/errors"
)

// ReadDocument reads a file as UTF-8 text. Content that is not valid UTF-8 is
// retried once through a Windows-1252 decode before failing, mirroring the
// "platform default" fallback most legacy markdown in the wild needs.
func ReadDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.ReadFailed(path, err)
	}

	if utf8.Valid(data) {
		return string(data), nil
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", errors.EncodingFailed(path, err)
	}
	return string(decoded), nil
}

// WriteDocument writes the fully composed content in a single call, so an
// interrupt leaves the file either complete or untouched, never partially
// rewritten from our side.
func WriteDocument(path, content string) error {
	info, err := os.Stat(path)
	mode := os.FileMode(0o644)
	if err == nil {
		mode = info.Mode().Perm()
	}

	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return errors.WriteFailed(path, err)
	}
	return nil
}

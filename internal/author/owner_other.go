//go:build !unix

package author

import (
	"errors"
	"os"
)

func ownerOf(_ os.FileInfo) (string, error) {
	return "", errors.New("file ownership lookup not supported on this platform")
}

//go:build unix

package author

import (
	"errors"
	"os"
	"os/user"
	"strconv"
	"syscall"
)

func ownerOf(info os.FileInfo) (string, error) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return "", errors.New("no ownership information available")
	}
	u, err := user.LookupId(strconv.FormatUint(uint64(stat.Uid), 10))
	if err != nil {
		return "", err
	}
	return u.Username, nil
}

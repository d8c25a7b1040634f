// Package semver advances three-part document version numbers by change tier.
package semver

import (
	"fmt"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/mdmeta/internal/change"
	"git.home.luguber.info/inful/mdmeta/internal/errors"
)

// Initial is the version assigned by the default metadata skeleton.
const Initial = "1.0.0"

// Bump advances version by one component according to tier and zeroes every
// component to its right.
//
// An empty version or the literal "0.0.0" short-circuits to "0.0.1" regardless
// of tier. Missing trailing components default to 0. A non-numeric component
// fails with a version-category MetaError.
func Bump(version string, tier change.Tier) (string, error) {
	version = strings.TrimSpace(version)
	if version == "" || version == "0.0.0" {
		return "0.0.1", nil
	}

	major, minor, patch, err := parse(version)
	if err != nil {
		return "", err
	}

	switch tier {
	case change.TierMajor:
		return fmt.Sprintf("%d.0.0", major+1), nil
	case change.TierMedium:
		return fmt.Sprintf("%d.%d.0", major, minor+1), nil
	default:
		return fmt.Sprintf("%d.%d.%d", major, minor, patch+1), nil
	}
}

func parse(version string) (major, minor, patch int, err error) {
	parts := strings.Split(version, ".")
	for len(parts) < 3 {
		parts = append(parts, "0")
	}

	nums := make([]int, 3)
	for i := 0; i < 3; i++ {
		n, convErr := strconv.Atoi(strings.TrimSpace(parts[i]))
		if convErr != nil || n < 0 {
			return 0, 0, 0, errors.VersionFormat(version, convErr)
		}
		nums[i] = n
	}
	return nums[0], nums[1], nums[2], nil
}

// Package version provides the build version of the tools
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Build values, overridden at build time with
// -ldflags "-X github.com/effective-security/pkicodec/internal/version.Version=v0.1.2"
var (
	Version = "v0.0.0"
	Commit  = ""
)

// Info describes the version
type Info struct {
	Major  int
	Minor  int
	Patch  int
	Commit string
}

// Current returns the current version
func Current() Info {
	return Parse(Version, Commit)
}

// Parse returns Info from semver text, unparsed parts are zero
func Parse(ver, commit string) Info {
	v := Info{Commit: commit}
	parts := strings.SplitN(strings.TrimPrefix(ver, "v"), ".", 3)
	nums := []*int{&v.Major, &v.Minor, &v.Patch}
	for i, p := range parts {
		// drop pre-release suffix
		if idx := strings.IndexAny(p, "-+"); idx >= 0 {
			p = p[:idx]
		}
		*nums[i], _ = strconv.Atoi(p)
	}
	return v
}

func (v Info) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Commit != "" {
		s += "-" + v.Commit
	}
	return s
}

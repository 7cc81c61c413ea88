// SPDX-License-Identifier: MIT
//
// Package build exposes metadata embedded at link time:
//
//	go build -ldflags "-X spectra/pkg/build.buildName=spectra \
//	    -X spectra/pkg/build.buildVersion=0.3.0 ..."
//
// Development builds carry "unknown" for every field.
package build

import (
	"errors"
	"fmt"
)

// Info describes the running binary.
type Info struct {
	Name    string
	Time    string
	Commit  string
	Version string
}

const unknown = "unknown"

// Set by -ldflags.
var (
	buildName    string
	buildTime    string
	buildCommit  string
	buildVersion string
	buildInfo    = Info{
		Name:    unknown,
		Time:    unknown,
		Commit:  unknown,
		Version: unknown,
	}
)

// Initialize copies the linker-provided values into the build info. Fields
// that were provided are copied even when others are missing; the returned
// error names every missing flag.
func Initialize() error {
	var errs []error
	set := func(dst *string, val, flag string) {
		if val == "" {
			errs = append(errs, fmt.Errorf("%s is required", flag))
			return
		}
		*dst = val
	}
	set(&buildInfo.Name, buildName, "BuildName")
	set(&buildInfo.Time, buildTime, "BuildTime")
	set(&buildInfo.Commit, buildCommit, "BuildCommit")
	set(&buildInfo.Version, buildVersion, "BuildVersion")
	return errors.Join(errs...)
}

// Get returns the build info.
func Get() Info {
	return buildInfo
}

// NameOr returns the binary name, or fallback for development builds.
func (i Info) NameOr(fallback string) string {
	if i.Name == unknown || i.Name == "" {
		return fallback
	}
	return i.Name
}

// String formats the info for --version output.
func (i Info) String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", i.Version, i.Commit, i.Time)
}

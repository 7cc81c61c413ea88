// SPDX-License-Identifier: MIT
package build

import (
	"os"
	"strings"
	"testing"
)

var (
	origName    string
	origTime    string
	origCommit  string
	origVersion string
	origInfo    Info
)

func TestMain(m *testing.M) {
	origName = buildName
	origTime = buildTime
	origCommit = buildCommit
	origVersion = buildVersion
	origInfo = buildInfo

	exitCode := m.Run()

	buildName = origName
	buildTime = origTime
	buildCommit = origCommit
	buildVersion = origVersion
	buildInfo = origInfo

	os.Exit(exitCode)
}

func TestInitialize(t *testing.T) {
	tests := []struct {
		name        string
		buildName   string
		buildTime   string
		buildCommit string
		buildVer    string
		wantErrs    []string
	}{
		{"Missing BuildName", "", "2025-04-13", "abcdef123", "v1.0.0", []string{"BuildName is required"}},
		{"Missing BuildTime", "spectra", "", "abcdef123", "v1.0.0", []string{"BuildTime is required"}},
		{"Missing Commit And Version", "spectra", "2025-04-13", "", "", []string{"BuildCommit is required", "BuildVersion is required"}},
		{"Success Case", "spectra", "2025-04-13", "abcdef123", "v1.0.0", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buildInfo = Info{Name: unknown, Time: unknown, Commit: unknown, Version: unknown}
			buildName = tt.buildName
			buildTime = tt.buildTime
			buildCommit = tt.buildCommit
			buildVersion = tt.buildVer

			err := Initialize()

			if len(tt.wantErrs) > 0 {
				if err == nil {
					t.Fatal("Initialize() expected error, got nil")
				}
				for _, want := range tt.wantErrs {
					if !strings.Contains(err.Error(), want) {
						t.Errorf("Initialize() error = %v, want it to mention %q", err, want)
					}
				}
				return
			}
			if err != nil {
				t.Fatalf("Initialize() unexpected error: %v", err)
			}

			got := Get()
			if got.Name != tt.buildName || got.Time != tt.buildTime || got.Commit != tt.buildCommit || got.Version != tt.buildVer {
				t.Errorf("Get() = %+v", got)
			}
		})
	}
}

func TestInitializeKeepsProvidedFields(t *testing.T) {
	buildInfo = Info{Name: unknown, Time: unknown, Commit: unknown, Version: unknown}
	buildName, buildTime, buildCommit, buildVersion = "spectra", "", "", "v0.3.0"

	if err := Initialize(); err == nil {
		t.Fatal("expected error")
	}
	if got := Get(); got.Name != "spectra" || got.Version != "v0.3.0" || got.Time != unknown {
		t.Errorf("Get() = %+v", got)
	}
}

func TestInfoFormatting(t *testing.T) {
	dev := Info{Name: unknown, Time: unknown, Commit: unknown, Version: unknown}
	if got := dev.NameOr("spectra"); got != "spectra" {
		t.Errorf("NameOr = %q, want fallback", got)
	}
	rel := Info{Name: "spectra-pro", Time: "2025-04-13", Commit: "abc", Version: "v1.0.0"}
	if got := rel.NameOr("spectra"); got != "spectra-pro" {
		t.Errorf("NameOr = %q", got)
	}
	if got, want := rel.String(), "v1.0.0 (commit abc, built 2025-04-13)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

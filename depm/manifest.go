package depm

import (
	"os"
	"unicode"

	"github.com/pelletier/go-toml"
	"golang.org/x/mod/semver"

	"github.com/nynrathod/mylang/report"
)

// tomlManifest represents a Doo project manifest as it is encoded in TOML.
// Unknown keys are ignored.
type tomlManifest struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Output  string `toml:"output"`
}

// Manifest represents a loaded and validated Doo project manifest.
type Manifest struct {
	// Name is the project name.
	Name string

	// Version is the project version.  This may be empty: the version is
	// optional.
	Version string

	// Output is the default output name for built executables.  This may be
	// empty, in which case the project name is used.
	Output string
}

// LoadManifest loads and validates the project manifest at the given absolute
// path.  A missing or malformed manifest is a fatal configuration error, not
// a compile diagnostic: this function only returns on success.
func LoadManifest(absPath string) *Manifest {
	buff, err := os.ReadFile(absPath)
	if err != nil {
		report.ReportFatal("unable to read project manifest at `%s`: %s", absPath, err)
	}

	tomlMan := &tomlManifest{}
	if err := toml.Unmarshal(buff, tomlMan); err != nil {
		report.ReportFatal("error parsing project manifest at `%s`: %s", absPath, err)
	}

	man := &Manifest{
		Name:    tomlMan.Name,
		Version: tomlMan.Version,
		Output:  tomlMan.Output,
	}

	validateManifest(absPath, man)
	return man
}

// validateManifest checks that the manifest contents are valid.
func validateManifest(absPath string, man *Manifest) {
	if man.Name == "" {
		report.ReportFatal("project manifest at `%s` is missing a name", absPath)
	}

	if !IsValidIdentifier(man.Name) {
		report.ReportFatal("project name `%s` must be a valid identifier", man.Name)
	}

	// Manifest versions are spelled without the leading `v` semver demands.
	if man.Version != "" && !semver.IsValid("v"+man.Version) {
		report.ReportFatal("project version `%s` is not valid semver", man.Version)
	}
}

// IsValidIdentifier returns whether the given string is usable as a Doo
// identifier.
func IsValidIdentifier(s string) bool {
	for i, c := range s {
		if i == 0 {
			if !unicode.IsLetter(c) && c != '_' {
				return false
			}
		} else if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' {
			return false
		}
	}

	return s != ""
}

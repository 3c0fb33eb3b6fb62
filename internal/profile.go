package internal

import (
	"fmt"
	"github.com/gobeam/stringy"
	"path/filepath"
	"strings"
)

const (
	DevelopmentProfile     = "development"
	ProductionMinProfile   = "production-min"
	ProductionUnminProfile = "production-unmin"

	DefaultEntryPath = "./entry.js"
	DefaultDevPort   = 8888
)

// BuildProfile is one named set of bundler parameters.
type BuildProfile struct {
	Name           string `yaml:"name"`
	EntryPath      string `yaml:"entryPath"`
	OutputDir      string `yaml:"outputDir"`
	OutputFilename string `yaml:"outputFilename"`
	Minify         bool   `yaml:"minify"`
	DevServerPort  *int   `yaml:"devServerPort,omitempty"`
	Mode           string `yaml:"mode"`
	LibraryTarget  string `yaml:"libraryTarget"`
}

// Overrides are the user supplied settings that may replace profile defaults.
// Zero values leave the profile untouched.
type Overrides struct {
	EntryPath  string
	OutputRoot string
	DevPort    int
	// Minify replaces the profile's minify flag when set.
	Minify *bool
}

type ConfigNotFoundError struct {
	Name string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("build profile '%s' not found, known profiles: %s", e.Name, strings.Join(Names(), ", "))
}

type OutputCollisionError struct {
	Path   string
	First  string
	Second string
}

func (e *OutputCollisionError) Error() string {
	return fmt.Sprintf("profiles '%s' and '%s' both write to '%s'", e.First, e.Second, e.Path)
}

func devPort(p int) *int {
	return &p
}

// profiles is never handed out directly, callers get copies.
var profiles = []BuildProfile{
	{
		Name:           DevelopmentProfile,
		EntryPath:      DefaultEntryPath,
		OutputDir:      "dev",
		OutputFilename: "dev.inc.js",
		Minify:         false,
		DevServerPort:  devPort(DefaultDevPort),
		Mode:           "development",
		LibraryTarget:  "this",
	},
	{
		Name:           ProductionMinProfile,
		EntryPath:      DefaultEntryPath,
		OutputDir:      "prod",
		OutputFilename: "prod.inc.js",
		Minify:         true,
		Mode:           "production",
		LibraryTarget:  "this",
	},
	{
		Name:           ProductionUnminProfile,
		EntryPath:      DefaultEntryPath,
		OutputDir:      filepath.Join("prod", "unmin"),
		OutputFilename: "prod.inc.js",
		Minify:         false,
		Mode:           "production",
		LibraryTarget:  "this",
	},
}

// NormalizeName maps spellings like "Production_Min" onto the kebab case profile names.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return stringy.New(name).KebabCase().ToLower()
}

// Lookup returns the profile registered under name or a *ConfigNotFoundError.
func Lookup(name string) (BuildProfile, error) {
	normalized := NormalizeName(name)
	for _, p := range profiles {
		if p.Name == normalized {
			return p.clone(), nil
		}
	}
	return BuildProfile{}, &ConfigNotFoundError{Name: name}
}

func Names() []string {
	names := make([]string, len(profiles))
	for i, p := range profiles {
		names[i] = p.Name
	}
	return names
}

func Profiles() []BuildProfile {
	ps := make([]BuildProfile, len(profiles))
	for i, p := range profiles {
		ps[i] = p.clone()
	}
	return ps
}

func (p BuildProfile) clone() BuildProfile {
	if p.DevServerPort != nil {
		p.DevServerPort = devPort(*p.DevServerPort)
	}
	return p
}

// OutputPath is the file the bundler writes for this profile.
func (p BuildProfile) OutputPath() string {
	return filepath.Join(p.OutputDir, p.OutputFilename)
}

// WithOverrides returns a copy of p with the non-zero overrides applied.
// The dev server port is only replaced on profiles that run a dev server.
func (p BuildProfile) WithOverrides(o Overrides) BuildProfile {
	p = p.clone()
	if o.EntryPath != "" {
		p.EntryPath = o.EntryPath
	}
	if o.OutputRoot != "" {
		p.OutputDir = filepath.Join(o.OutputRoot, p.OutputDir)
	}
	if o.DevPort != 0 && p.DevServerPort != nil {
		p.DevServerPort = devPort(o.DevPort)
	}
	if o.Minify != nil {
		p.Minify = *o.Minify
	}
	return p
}

// CheckOutputsUnique fails if two of the given profiles would write the same file.
// Relative output folders are resolved against workDir, or the cwd when workDir is empty.
func CheckOutputsUnique(workDir string, ps []BuildProfile) error {
	seen := make(map[string]string, len(ps))
	for _, p := range ps {
		key := p.OutputPath()
		if !filepath.IsAbs(key) && workDir != "" {
			key = filepath.Join(workDir, key)
		}
		key, err := filepath.Abs(key)
		if err != nil {
			return err
		}
		if other, ok := seen[key]; ok {
			return &OutputCollisionError{Path: key, First: other, Second: p.Name}
		}
		seen[key] = p.Name
	}
	return nil
}

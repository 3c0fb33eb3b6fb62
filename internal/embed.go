package internal

import (
	"bytes"
	"fmt"
	"github.com/gobeam/stringy"
	"go/token"
	"golang.org/x/tools/imports"
	"text/template"
)

// Build constraints selecting which profile's bundle a Go package compiles in.
// A plain `go build` gets the minified production bundle.
const (
	DevBuildTag   = "incbundle_dev"
	UnminBuildTag = "incbundle_unmin"
)

var buildConstraints = map[string]string{
	DevelopmentProfile:     DevBuildTag,
	ProductionMinProfile:   "!" + DevBuildTag + " && !" + UnminBuildTag,
	ProductionUnminProfile: "!" + DevBuildTag + " && " + UnminBuildTag,
}

type EmbedOptions struct {
	// Package is the Go package name of the generated file.
	Package string
	// ConstName is the string constant holding the bundle.
	ConstName string
}

type embedVars struct {
	BuildProfile
	Package    string
	ConstName  string
	Constraint string
	Contents   string
}

var embedTmpl = template.Must(template.New("embedTemplate").Parse(`// Code generated by incbundle; DO NOT EDIT.

//go:build {{.Constraint}}

package {{.Package}}

// {{.ConstName}} is the {{.Name}} bundle of {{.EntryPath}} ({{.OutputFilename}}, minify={{.Minify}}).
const {{.ConstName}} = {{printf "%q" .Contents}}
`))

// BuildConstraint is the //go:build expression under which the profile's embed file compiles.
func BuildConstraint(p BuildProfile) (string, error) {
	c, ok := buildConstraints[p.Name]
	if !ok {
		return "", &ConfigNotFoundError{Name: p.Name}
	}
	return c, nil
}

// EmbedFilename names the generated file after the profile, e.g. incbundle_production_min.go.
func EmbedFilename(p BuildProfile) string {
	return "incbundle_" + stringy.New(p.Name).SnakeCase().ToLower() + ".go"
}

// GenerateEmbed renders a formatted Go source file holding bundle as a string constant.
func GenerateEmbed(p BuildProfile, bundle []byte, opts EmbedOptions) ([]byte, error) {
	if opts.Package == "" {
		opts.Package = "bundle"
	}
	if opts.ConstName == "" {
		opts.ConstName = "JS"
	}
	if !token.IsIdentifier(opts.Package) || !token.IsIdentifier(opts.ConstName) {
		return nil, fmt.Errorf("package '%s' and const '%s' must be Go identifiers", opts.Package, opts.ConstName)
	}
	constraint, err := BuildConstraint(p)
	if err != nil {
		return nil, err
	}

	src := new(bytes.Buffer)
	err = embedTmpl.Execute(src, embedVars{
		BuildProfile: p,
		Package:      opts.Package,
		ConstName:    opts.ConstName,
		Constraint:   constraint,
		Contents:     string(bundle),
	})
	if err != nil {
		return nil, err
	}
	return imports.Process(EmbedFilename(p), src.Bytes(), &imports.Options{Comments: true, TabIndent: true, TabWidth: 8, FormatOnly: true})
}

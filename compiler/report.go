package compiler

import (
	"github.com/AnatoleLucet/sig/compiler/analyze"
)

// Report describes how a component's root bindings are compiled.
type Report struct {
	Filename string    `yaml:"filename,omitempty" json:"filename,omitempty"`
	Tag      string    `yaml:"tag" json:"tag"`
	Props    []string  `yaml:"props,omitempty" json:"props,omitempty"`
	Bindings []Binding `yaml:"bindings" json:"bindings"`
}

type Binding struct {
	Name string `yaml:"name" json:"name"`
	Kind string `yaml:"kind" json:"kind"`
	// Class is the classification of the binding: plain, mutable, prop,
	// computed or store, possibly combined.
	Class    string `yaml:"class" json:"class"`
	Reactive bool   `yaml:"reactive" json:"reactive"`
	Export   string `yaml:"export,omitempty" json:"export,omitempty"`
	Source   string `yaml:"source,omitempty" json:"source,omitempty"`
}

// NewReport builds the report of a compiled component.
func NewReport(filename string, res *Result) *Report {
	r := &Report{Filename: filename, Tag: res.Tag, Props: res.Props}
	if res.Analysis == nil {
		return r
	}

	root := res.Analysis.Root
	for _, name := range root.Names() {
		b := root.Bindings[name]
		if !userBinding(b) {
			continue
		}
		r.Bindings = append(r.Bindings, Binding{
			Name:     b.Name,
			Kind:     b.Kind,
			Class:    b.Flags.String(),
			Reactive: b.Reactive(),
			Export:   b.Export,
			Source:   b.Source,
		})
	}
	return r
}

// userBinding reports whether b comes from the component script rather than
// from the lowered markup, whose declarations carry no source position.
func userBinding(b *analyze.Binding) bool {
	if b.Flags&analyze.Store != 0 {
		return true
	}
	return b.Decl != nil && b.Decl.Span().End > 0
}

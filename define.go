package sig

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SetupFunc builds a component instance. It runs inside the instance scope,
// so everything it creates is disposed on unmount.
type SetupFunc func(host *Instance)

// Definition is a registered component type.
type Definition struct {
	Tag         string
	Setup       SetupFunc
	Props       []string
	Stylesheets []string

	index map[string]int
}

var (
	registryMu sync.RWMutex
	registry   = map[string]*Definition{}
)

// Define registers a component type under tag. Property names are given in
// declaration order, which is also the index used by Instance.PropSignal.
func Define(tag string, setup SetupFunc, props []string, stylesheets ...string) (*Definition, error) {
	if err := validateTag(tag); err != nil {
		return nil, err
	}

	def := &Definition{
		Tag:         tag,
		Setup:       setup,
		Props:       props,
		Stylesheets: stylesheets,
		index:       make(map[string]int, len(props)),
	}
	for i, name := range props {
		if _, ok := def.index[name]; ok {
			return nil, fmt.Errorf("sig: duplicate property %q on <%s>", name, tag)
		}
		def.index[name] = i
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, ok := registry[tag]; ok {
		return nil, fmt.Errorf("sig: <%s> is already defined", tag)
	}
	registry[tag] = def

	return def, nil
}

// Lookup returns the definition registered under tag.
func Lookup(tag string) (*Definition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[tag]
	return def, ok
}

func validateTag(tag string) error {
	if tag == "" || !unicode.IsLower(rune(tag[0])) || !strings.Contains(tag, "-") {
		return fmt.Errorf("sig: invalid tag %q, expected a lowercase name containing a hyphen", tag)
	}

	for _, r := range tag {
		if !(unicode.IsLower(r) || unicode.IsDigit(r) || r == '-' || r == '.' || r == '_') {
			return fmt.Errorf("sig: invalid character %q in tag %q", r, tag)
		}
	}

	return nil
}

// Instance is a mounted component.
type Instance struct {
	def   *Definition
	scope *Scope
	props []*Signal[any]
}

// New creates an instance, runs the setup function in its own scope and returns it.
// initial values are keyed by property name. A panicking setup is returned as
// an error and the instance is disposed.
func (d *Definition) New(initial map[string]any) (*Instance, error) {
	inst := &Instance{
		def:   d,
		scope: NewScope(),
		props: make([]*Signal[any], len(d.Props)),
	}

	for i, name := range d.Props {
		inst.props[i] = NewSignal(initial[name])
	}

	err := inst.scope.Run(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = asError(r)
			}
		}()
		if d.Setup != nil {
			d.Setup(inst)
		}
		return nil
	})
	if err != nil {
		inst.scope.Dispose()
		return nil, err
	}

	return inst, nil
}

func (i *Instance) Definition() *Definition {
	return i.def
}

// PropSignal returns the signal backing the property declared at index.
func (i *Instance) PropSignal(index int) *Signal[any] {
	return i.props[index]
}

// Get reads a property by name.
func (i *Instance) Get(name string) (any, bool) {
	idx, ok := i.def.index[name]
	if !ok {
		return nil, false
	}

	return i.props[idx].Read(), true
}

// Set writes a property by name.
func (i *Instance) Set(name string, value any) error {
	idx, ok := i.def.index[name]
	if !ok {
		return fmt.Errorf("sig: <%s> has no property %q", i.def.Tag, name)
	}

	i.props[idx].Write(value)
	return nil
}

// SetAttribute writes the property matching a hyphen-case attribute name.
func (i *Instance) SetAttribute(attr string, value string) error {
	return i.Set(PropertyName(attr), value)
}

// Unmount disposes everything the instance created.
func (i *Instance) Unmount() {
	i.scope.Dispose()
}

// PropertyName converts a hyphen-case attribute name to its camelCase property name.
func PropertyName(attr string) string {
	parts := strings.Split(strings.ToLower(attr), "-")

	caser := cases.Title(language.Und, cases.NoLower)

	var b strings.Builder
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i == 0 {
			b.WriteString(part)
			continue
		}
		b.WriteString(caser.String(part))
	}

	return b.String()
}

// AttributeName converts a camelCase property name to its hyphen-case attribute name.
func AttributeName(prop string) string {
	var b strings.Builder

	for i, r := range prop {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}

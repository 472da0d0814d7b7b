// Package switches names the codes of remote-controlled outlets.
package switches

import (
	"fmt"
	"io/ioutil"
	"sort"

	"gopkg.in/yaml.v2"

	"github.com/robotalks/rfsend/pkg/rf"
)

// States of a switch.
const (
	StateOn  = "on"
	StateOff = "off"
)

// Switch holds the codes turning an outlet on and off.
type Switch struct {
	On  []rf.Code `yaml:"on" json:"on"`
	Off []rf.Code `yaml:"off" json:"off"`
}

// Book maps switch names to codes. In YAML:
//
//	lamp:
//	  on: [5393]
//	  off: [5396]
type Book map[string]Switch

// Parse parses and validates a YAML book.
func Parse(data []byte) (Book, error) {
	var b Book
	if err := yaml.UnmarshalStrict(data, &b); err != nil {
		return nil, err
	}
	for name, sw := range b {
		for state, codes := range map[string][]rf.Code{StateOn: sw.On, StateOff: sw.Off} {
			if err := rf.NewRequest(codes...).Validate(); err != nil {
				return nil, fmt.Errorf("switch %s %s: %w", name, state, err)
			}
		}
	}
	return b, nil
}

// Load reads a YAML book from file.
func Load(filename string) (Book, error) {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Codes returns the codes of the named switch for state.
func (b Book) Codes(name, state string) ([]rf.Code, error) {
	sw, ok := b[name]
	if !ok {
		return nil, &rf.ArgumentError{Arg: "switch", Reason: fmt.Sprintf("%q is unknown", name)}
	}
	switch state {
	case StateOn:
		return sw.On, nil
	case StateOff:
		return sw.Off, nil
	}
	return nil, &rf.ArgumentError{Arg: "state", Reason: fmt.Sprintf("%q is neither on nor off", state)}
}

// Names returns switch names in order.
func (b Book) Names() []string {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package xhd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidPath is returned when a path string cannot be parsed.
var ErrInvalidPath = errors.New("invalid derivation path")

// Path is a derivation path of any length. Unlike BIP44Path it carries no
// per-level meaning.
type Path []DerivationIndex

// ParsePath parses a path such as "m/44'/283'/0'/0/0". A trailing ' or h marks
// a hardened component. "m" alone is the empty path. Paths without the "m/"
// prefix are accepted as a plain list of components.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	components := strings.Split(s, "/")
	switch strings.TrimSpace(components[0]) {
	case "":
		return nil, fmt.Errorf("%w: ambiguous path, use the 'm/' prefix for absolute paths", ErrInvalidPath)
	case "m", "M":
		components = components[1:]
	}

	if len(components) == 0 {
		return Path{}, nil
	}

	path := make(Path, 0, len(components))
	for _, component := range components {
		index, err := parseComponent(component)
		if err != nil {
			return nil, err
		}
		path = append(path, index)
	}
	return path, nil
}

func parseComponent(component string) (DerivationIndex, error) {
	component = strings.TrimSpace(component)
	if component == "" {
		return 0, fmt.Errorf("%w: empty component", ErrInvalidPath)
	}

	hardened := false
	if last := component[len(component)-1]; last == '\'' || last == 'h' || last == 'H' {
		hardened = true
		component = strings.TrimSpace(component[:len(component)-1])
	}

	value, err := strconv.ParseUint(component, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: component %q: %w", ErrInvalidPath, component, err)
	}
	index := DerivationIndex(value)

	if !hardened {
		return index, nil
	}
	index, err = Harden(index)
	if err != nil {
		return 0, fmt.Errorf("%w: component %q: %w", ErrInvalidPath, component, err)
	}
	return index, nil
}

// String formats the path with ' marking hardened components.
func (p Path) String() string {
	var b strings.Builder
	b.WriteString("m")
	for _, index := range p {
		b.WriteString("/")
		b.WriteString(strconv.FormatUint(uint64(Unharden(index)), 10))
		if IsHardened(index) {
			b.WriteString("'")
		}
	}
	return b.String()
}

// MarshalText implements encoding.TextMarshaler.
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Path) UnmarshalText(text []byte) error {
	parsed, err := ParsePath(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

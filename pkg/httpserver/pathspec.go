package httpserver

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultPathSpec matches every request path
const DefaultPathSpec = "/*"

// ErrInvalidPathSpec is returned for path specs outside the servlet mapping grammar
var ErrInvalidPathSpec = errors.New("invalid path spec")

type pathSpecKind int

const (
	specExact pathSpecKind = iota
	specPrefix
	specSuffix
	specDefault
)

// PathSpec is a parsed servlet-style path mapping
type PathSpec struct {
	raw   string
	kind  pathSpecKind
	value string
}

// ParsePathSpec parses "/exact", "/prefix/*", "*.ext", "/" or "/*"
func ParsePathSpec(spec string) (PathSpec, error) {
	switch {
	case spec == "/" || spec == "/*":
		return PathSpec{raw: spec, kind: specDefault}, nil

	case strings.HasPrefix(spec, "*."):
		ext := spec[1:]
		if len(ext) < 2 || strings.ContainsAny(ext, "/*") {
			return PathSpec{}, fmt.Errorf("%w: %q", ErrInvalidPathSpec, spec)
		}
		return PathSpec{raw: spec, kind: specSuffix, value: ext}, nil

	case strings.HasPrefix(spec, "/") && strings.HasSuffix(spec, "/*"):
		prefix := strings.TrimSuffix(spec, "/*")
		if strings.Contains(prefix, "*") {
			return PathSpec{}, fmt.Errorf("%w: %q", ErrInvalidPathSpec, spec)
		}
		return PathSpec{raw: spec, kind: specPrefix, value: prefix}, nil

	case strings.HasPrefix(spec, "/") && !strings.Contains(spec, "*"):
		return PathSpec{raw: spec, kind: specExact, value: spec}, nil
	}

	return PathSpec{}, fmt.Errorf("%w: %q", ErrInvalidPathSpec, spec)
}

// Matches reports whether the request path falls under the spec
func (p PathSpec) Matches(path string) bool {
	switch p.kind {
	case specDefault:
		return true
	case specExact:
		return path == p.value
	case specPrefix:
		return path == p.value || strings.HasPrefix(path, p.value+"/")
	case specSuffix:
		last := path[strings.LastIndex(path, "/")+1:]
		return strings.HasSuffix(last, p.value)
	}
	return false
}

// String returns the spec as it was given
func (p PathSpec) String() string {
	return p.raw
}

// key identifies mappings that would shadow each other ("/" and "/*" collide)
func (p PathSpec) key() string {
	if p.kind == specDefault {
		return "/*"
	}
	return p.raw
}

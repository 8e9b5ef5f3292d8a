package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sirosfoundation/go-http-factory/pkg/middleware"
)

var (
	// ErrContextStarted is returned when routes or filters are attached after the context began serving
	ErrContextStarted = errors.New("context is already serving requests")
	// ErrDuplicateMapping is returned when a path spec already has a handler
	ErrDuplicateMapping = errors.New("path spec already mapped")
)

// KeyPathSpec is set on the gin context to the path spec that selected the handler
const KeyPathSpec = middleware.KeyRoute

// FilterInfo describes a filter attached to a Context
type FilterInfo struct {
	Name     string
	PathSpec string
}

type filter struct {
	name    string
	spec    PathSpec
	handler gin.HandlerFunc
}

type mapping struct {
	spec    PathSpec
	handler gin.HandlerFunc
}

// Context is the request-handling unit of a Server. Filters and handlers
// are recorded until the first request (or Start) materializes them into
// a gin engine; after that the context is frozen.
type Context struct {
	logger *zap.Logger

	mu       sync.Mutex
	base     []gin.HandlerFunc
	filters  []filter
	exact    map[string]mapping
	mappings []mapping // prefix and suffix specs
	fallback *mapping  // default spec

	once   sync.Once
	engine *gin.Engine
}

func newContext(logger *zap.Logger, base ...gin.HandlerFunc) *Context {
	return &Context{
		logger: logger,
		base:   base,
		exact:  make(map[string]mapping),
	}
}

// AddFilter attaches a gin handler that runs for requests matching pathSpec.
// Every call adds a new filter, even for the same name and spec.
func (c *Context) AddFilter(name, pathSpec string, h gin.HandlerFunc) error {
	spec, err := ParsePathSpec(pathSpec)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.engine != nil {
		return ErrContextStarted
	}
	c.filters = append(c.filters, filter{name: name, spec: spec, handler: h})
	c.logger.Debug("Added filter",
		zap.String("name", name),
		zap.String("path_spec", spec.String()),
		zap.Int("filters", len(c.filters)))
	return nil
}

// Filters lists the attached filters in execution order
func (c *Context) Filters() []FilterInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]FilterInfo, 0, len(c.filters))
	for _, f := range c.filters {
		out = append(out, FilterInfo{Name: f.name, PathSpec: f.spec.String()})
	}
	return out
}

// Handle maps an http.Handler to pathSpec
func (c *Context) Handle(pathSpec string, h http.Handler) error {
	return c.HandleFunc(pathSpec, gin.WrapH(h))
}

// HandleFunc maps a gin handler to pathSpec. All HTTP methods are routed
// to the handler.
func (c *Context) HandleFunc(pathSpec string, h gin.HandlerFunc) error {
	spec, err := ParsePathSpec(pathSpec)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.engine != nil {
		return ErrContextStarted
	}
	if c.mapped(spec) {
		return fmt.Errorf("%w: %s", ErrDuplicateMapping, spec)
	}

	m := mapping{spec: spec, handler: h}
	switch {
	case spec.kind == specExact && !strings.Contains(spec.value, ":"):
		c.exact[spec.value] = m
	case spec.kind == specDefault:
		c.fallback = &m
	default:
		// gin would read ':' as a parameter, so such exact paths are matched here
		c.mappings = append(c.mappings, m)
	}
	return nil
}

func (c *Context) mapped(spec PathSpec) bool {
	if _, ok := c.exact[spec.value]; ok && spec.kind == specExact {
		return true
	}
	if spec.kind == specDefault {
		return c.fallback != nil
	}
	for _, m := range c.mappings {
		if m.spec.key() == spec.key() {
			return true
		}
	}
	return false
}

// ServeHTTP implements http.Handler
func (c *Context) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.build().ServeHTTP(w, r)
}

// build freezes the context into a gin engine
func (c *Context) build() *gin.Engine {
	c.once.Do(func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		engine := gin.New()
		engine.RedirectTrailingSlash = false
		engine.RedirectFixedPath = false
		engine.Use(c.base...)
		for _, f := range c.filters {
			engine.Use(scoped(f))
		}

		exact := make([]string, 0, len(c.exact))
		for path := range c.exact {
			exact = append(exact, path)
		}
		sort.Strings(exact)
		for _, path := range exact {
			m := c.exact[path]
			engine.Any(path, tagged(m.spec), m.handler)
		}

		// Exact paths first, then longest prefix, then extensions in registration order
		sort.SliceStable(c.mappings, func(i, j int) bool {
			a, b := c.mappings[i].spec, c.mappings[j].spec
			if a.kind != b.kind {
				return a.kind < b.kind
			}
			if a.kind == specPrefix {
				return len(a.value) > len(b.value)
			}
			return false
		})
		engine.NoRoute(c.dispatch)

		c.engine = engine
	})
	return c.engine
}

// dispatch resolves requests the exact routes did not claim. It runs after
// the engine is built, when mappings are no longer mutated.
func (c *Context) dispatch(gc *gin.Context) {
	path := gc.Request.URL.Path
	// Any covers the standard methods only, extension methods land here
	if m, ok := c.exact[path]; ok {
		c.invoke(gc, &m)
		return
	}
	for i := range c.mappings {
		if c.mappings[i].spec.Matches(path) {
			c.invoke(gc, &c.mappings[i])
			return
		}
	}
	if c.fallback != nil {
		c.invoke(gc, c.fallback)
		return
	}
	gc.AbortWithStatus(http.StatusNotFound)
}

func (c *Context) invoke(gc *gin.Context, m *mapping) {
	// gin presets 404 on the no-route chain
	gc.Status(http.StatusOK)
	gc.Set(KeyPathSpec, m.spec.String())
	m.handler(gc)
}

func scoped(f filter) gin.HandlerFunc {
	return func(gc *gin.Context) {
		if !f.spec.Matches(gc.Request.URL.Path) {
			return
		}
		f.handler(gc)
	}
}

func tagged(spec PathSpec) gin.HandlerFunc {
	return func(gc *gin.Context) {
		gc.Set(KeyPathSpec, spec.String())
	}
}

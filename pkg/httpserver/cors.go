package httpserver

import (
	"net/http"

	"github.com/gin-contrib/cors"
)

// CORSFilterName is the name CORS filters are registered under
const CORSFilterName = "cors"

// CORSAllowedMethods and CORSAllowedHeaders are the cross-origin policy of AddCORS
var (
	CORSAllowedMethods = []string{http.MethodGet, http.MethodPost}
	CORSAllowedHeaders = []string{"X-Requested-With", "Content-Type", "Accept", "Origin"}
)

// AddCORS attaches a cross-origin filter for requests under pathSpec,
// allowing any origin. An empty pathSpec means DefaultPathSpec. Calling it
// twice attaches two filters.
func (c *Context) AddCORS(pathSpec string) error {
	if pathSpec == "" {
		pathSpec = DefaultPathSpec
	}
	return c.AddFilter(CORSFilterName, pathSpec, cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    CORSAllowedMethods,
		AllowHeaders:    CORSAllowedHeaders,
	}))
}

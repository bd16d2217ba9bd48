package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar mounts its routes on the versioned API group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router mounts resource groups under /api/<version> behind a shared handler chain
type Router struct {
	engine     *gin.Engine
	apiVersion string
	chain      []gin.HandlerFunc
	registrars []RouteRegistrar
}

// RouterOption configures a Router
type RouterOption func(*Router)

// WithAPIVersion sets the version segment of the API prefix
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a Router on engine, defaulting to /api/v1
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Use appends handlers that run before every API route
func (r *Router) Use(chain ...gin.HandlerFunc) *Router {
	r.chain = append(r.chain, chain...)
	return r
}

// Register queues a group for Setup
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup mounts every registered group under the versioned prefix
func (r *Router) Setup() {
	api := r.engine.Group("/api/"+r.apiVersion, r.chain...)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// Mount serves h at an absolute path outside the versioned prefix,
// still behind the shared chain
func (r *Router) Mount(method, path string, h gin.HandlerFunc) {
	handlers := make([]gin.HandlerFunc, 0, len(r.chain)+1)
	handlers = append(handlers, r.chain...)
	r.engine.Handle(method, path, append(handlers, h)...)
}

// ResourceGroup collects the routes of one resource under a path prefix
type ResourceGroup struct {
	prefix string
	routes []route
}

type route struct {
	method  string
	path    string
	handler gin.HandlerFunc
}

// NewResourceGroup creates an empty group mounted at prefix
func NewResourceGroup(prefix string) *ResourceGroup {
	return &ResourceGroup{prefix: prefix}
}

// GET adds a GET route
func (g *ResourceGroup) GET(path string, h gin.HandlerFunc) *ResourceGroup {
	g.routes = append(g.routes, route{method: "GET", path: path, handler: h})
	return g
}

// POST adds a POST route
func (g *ResourceGroup) POST(path string, h gin.HandlerFunc) *ResourceGroup {
	g.routes = append(g.routes, route{method: "POST", path: path, handler: h})
	return g
}

// RegisterRoutes implements RouteRegistrar
func (g *ResourceGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(g.prefix)
	for _, rt := range g.routes {
		group.Handle(rt.method, rt.path, rt.handler)
	}
}

// Package routes declares route groups and registers them on a ServeMux.
package routes

import (
	"net/http"

	"github.com/JaimeStill/intake/pkg/openapi"
)

// Group organizes routes under a common prefix with shared tags.
type Group struct {
	Prefix   string
	Tags     []string
	Routes   []Route
	Children []Group
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	walk(groups, func(path string, _ []string, route Route) {
		mux.HandleFunc(route.Method+" "+path, route.Handler)
	})
}

// Describe adds every documented route to spec, tagging operations with
// their group's tags when the operation declares none.
func Describe(spec *openapi.Spec, groups ...Group) {
	walk(groups, func(path string, tags []string, route Route) {
		if route.OpenAPI == nil {
			return
		}
		op := *route.OpenAPI
		if len(op.Tags) == 0 {
			op.Tags = tags
		}
		spec.AddOperation(route.Method, path, &op)
	})
}

func walk(groups []Group, fn func(path string, tags []string, route Route)) {
	for _, group := range groups {
		walkGroup("", group, fn)
	}
}

func walkGroup(parentPrefix string, group Group, fn func(string, []string, Route)) {
	fullPrefix := parentPrefix + group.Prefix
	for _, route := range group.Routes {
		fn(fullPrefix+route.Pattern, group.Tags, route)
	}
	for _, child := range group.Children {
		walkGroup(fullPrefix, child, fn)
	}
}

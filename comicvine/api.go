package comicvine

import (
	"context"
)

// API defines the interface for Comic Vine operations
type API interface {
	// APIVersion returns the version reported by the API
	APIVersion(ctx context.Context) (string, error)

	// Search searches one or more resources for a query
	Search(ctx context.Context, resource Resource, query string, params Params) (*SearchResult, error)

	// Types returns the cached type descriptors
	Types(ctx context.Context) ([]TypeDescriptor, error)

	// FindDetail looks up a type descriptor by detail resource name
	FindDetail(ctx context.Context, resource Resource) (TypeDescriptor, bool, error)

	// FindList looks up a type descriptor by list resource name
	FindList(ctx context.Context, resource Resource) (TypeDescriptor, bool, error)

	// List retrieves one page of a list resource
	List(ctx context.Context, resource Resource, params Params) (*ListResult, error)

	// Details retrieves a single instance of a resource
	Details(ctx context.Context, resource Resource, id string, params Params) (Object, error)

	// DetailsByURL retrieves the object behind an API URL
	DetailsByURL(ctx context.Context, rawURL string) (Object, error)

	// Fetch loads the full detail of a partial object
	Fetch(ctx context.Context, obj Object) (Object, error)

	// DetailsMany retrieves several instances concurrently
	DetailsMany(ctx context.Context, resource Resource, ids []string, params Params) ([]Object, error)

	// FetchMany loads the full detail of several partial objects concurrently
	FetchMany(ctx context.Context, objs []Object) ([]Object, error)

	// ListPages follows a list resource across several pages
	ListPages(ctx context.Context, resource Resource, params Params, maxPages int) ([]Object, *ListResult, error)
}

var _ API = (*Client)(nil)

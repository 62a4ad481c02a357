package comicvine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultUserAgent identifies the client to the API.
const DefaultUserAgent = "comicvine-go"

// Client represents a Comic Vine API client
type Client struct {
	apiKey    string
	baseURL   string
	transport Transport
	types     *TypeCache
	logger    zerolog.Logger
}

// NewClient creates a new Comic Vine client
func NewClient(apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: API key is required", ErrInvalidConfig)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	transport := o.transport
	if transport == nil {
		transport = NewHTTPTransport(logger, o)
	}

	types := o.typeCache
	if types == nil {
		types = NewTypeCache(WithTTL(o.typesTTL), WithCacheLogger(logger))
	}

	return &Client{
		apiKey:    apiKey,
		baseURL:   o.baseURL,
		transport: transport,
		types:     types,
		logger:    logger,
	}, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// TypeCache returns the cache backing type lookups.
func (c *Client) TypeCache() *TypeCache {
	return c.types
}

// FetchTypes requests the types resource and returns its results. It
// implements TypeSource and bypasses the cache.
func (c *Client) FetchTypes(ctx context.Context) ([]TypeDescriptor, error) {
	resp, err := c.Request(ctx, ResourceTypes, nil)
	if err != nil {
		return nil, err
	}

	var types []TypeDescriptor
	if err := json.Unmarshal(resp.Results, &types); err != nil {
		return nil, fmt.Errorf("failed to parse types: %w", err)
	}
	return types, nil
}

// APIVersion returns the version reported by the API.
func (c *Client) APIVersion(ctx context.Context) (string, error) {
	resp, err := c.Request(ctx, ResourceCharacters, Params{ParamLimit: 1})
	if err != nil {
		return "", err
	}
	return resp.Version, nil
}

// Types returns the type descriptors, served from the cache while fresh.
func (c *Client) Types(ctx context.Context) ([]TypeDescriptor, error) {
	return c.types.Get(ctx, c)
}

// FindDetail returns the descriptor whose detail resource name is resource.
func (c *Client) FindDetail(ctx context.Context, resource Resource) (TypeDescriptor, bool, error) {
	return c.types.FindDetail(ctx, c, resource)
}

// FindList returns the descriptor whose list resource name is resource.
func (c *Client) FindList(ctx context.Context, resource Resource) (TypeDescriptor, bool, error) {
	return c.types.FindList(ctx, c, resource)
}

// Search searches resource for query. resource may be a comma-separated list
// of detail resources, e.g. "volume,issue".
func (c *Client) Search(ctx context.Context, resource Resource, query string, params Params) (*SearchResult, error) {
	names := strings.Split(string(resource), ",")
	for i, r := range names {
		names[i] = strings.TrimSpace(r)
		if !IsSupported(names[i]) {
			return nil, fmt.Errorf("%w: %q", ErrResourceNotSupported, r)
		}
	}
	resource = Resource(strings.Join(names, ","))

	opts := Params{
		ParamResources: string(resource),
		ParamQuery:     query,
	}.Merge(params)

	resp, err := c.Request(ctx, ResourceSearch, opts)
	if err != nil {
		return nil, err
	}

	list, err := newListResult(c, resource, opts, resp)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("resource", string(resource)).
		Str("query", query).
		Int("count", list.Len()).
		Int("total", list.TotalResults).
		Msg("Retrieved search results from Comic Vine")

	return &SearchResult{ListResult: *list, Query: query}, nil
}

// List returns one page of a list resource. A detail resource name is
// mapped to its plural form.
func (c *Client) List(ctx context.Context, resource Resource, params Params) (*ListResult, error) {
	resource = resource.ListName()

	resp, err := c.Request(ctx, resource, params)
	if err != nil {
		return nil, err
	}

	list, err := newListResult(c, resource, params.Clone(), resp)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("resource", string(resource)).
		Int("count", list.Len()).
		Int("offset", list.Offset).
		Int("total", list.TotalResults).
		Msg("Retrieved list from Comic Vine")

	return list, nil
}

// Details returns a single instance of resource. A list resource name is
// mapped to its singular form.
func (c *Client) Details(ctx context.Context, resource Resource, id string, params Params) (Object, error) {
	resp, err := c.Request(ctx, resource.DetailName(), params.With(ParamID, id))
	if err != nil {
		return nil, err
	}
	return decodeObject(resp.Results)
}

// DetailsByURL returns the object behind a fully-qualified API URL, such as
// an api_detail_url.
func (c *Client) DetailsByURL(ctx context.Context, rawURL string) (Object, error) {
	resp, err := c.RequestURL(ctx, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return decodeObject(resp.Results)
}

// Fetch loads the full detail of a partial object, as found in lists and in
// nested references.
func (c *Client) Fetch(ctx context.Context, obj Object) (Object, error) {
	detailURL := obj.APIDetailURL()
	if detailURL == "" {
		return nil, ErrNoDetailURL
	}
	return c.DetailsByURL(ctx, detailURL)
}

package comicvine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cast"
)

// Object is a single resource as returned by the API. Only a handful of
// fields are common to every resource; the rest are reached by key.
type Object map[string]any

// Get returns the raw value of key.
func (o Object) Get(key string) any {
	return o[key]
}

// Has reports whether key is present and not null.
func (o Object) Has(key string) bool {
	v, ok := o[key]
	return ok && v != nil
}

// String returns key as a string, or "" if absent.
func (o Object) String(key string) string {
	return cast.ToString(o[key])
}

// Int returns key as an int64, or 0 if absent or not numeric.
func (o Object) Int(key string) int64 {
	return cast.ToInt64(o[key])
}

// Object returns a nested object, or nil.
func (o Object) Object(key string) Object {
	if m, ok := o[key].(map[string]any); ok {
		return Object(m)
	}
	return nil
}

// Objects returns a nested list of objects. Non-object elements are skipped.
func (o Object) Objects(key string) []Object {
	list, ok := o[key].([]any)
	if !ok {
		return nil
	}
	out := make([]Object, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, Object(m))
		}
	}
	return out
}

// ID returns the object's instance id.
func (o Object) ID() int64 {
	return o.Int("id")
}

// Name returns the object's name.
func (o Object) Name() string {
	return o.String("name")
}

// APIDetailURL returns the URL of the object's full detail resource.
func (o Object) APIDetailURL() string {
	return o.String("api_detail_url")
}

// SiteDetailURL returns the object's page on the Comic Vine website.
func (o Object) SiteDetailURL() string {
	return o.String("site_detail_url")
}

// ResourceType returns the resource_type field set on search results.
func (o Object) ResourceType() string {
	return o.String("resource_type")
}

// DisplayName returns the best human-readable label for the object.
func (o Object) DisplayName() string {
	if name := o.Name(); name != "" {
		return name
	}
	if title := o.String("title"); title != "" {
		return title
	}
	if vol := o.Object("volume"); vol != nil && o.Has("issue_number") {
		return fmt.Sprintf("%s #%s", vol.Name(), o.String("issue_number"))
	}
	return fmt.Sprintf("#%d", o.ID())
}

// Plain returns a deep copy of the object with json.Number values replaced
// by int64 or float64.
func (o Object) Plain() Object {
	return Normalize(map[string]any(o)).(map[string]any)
}

// Normalize converts the json.Number values inside a decoded value to int64,
// or float64 when the number is not integral. Maps and slices are copied.
func Normalize(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		f, _ := val.Float64()
		return f
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = Normalize(item)
		}
		return out
	case Object:
		return Normalize(map[string]any(val))
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Normalize(item)
		}
		return out
	default:
		return v
	}
}

func newDecoder(raw []byte) *json.Decoder {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec
}

// decodeObject decodes a detail payload's results. Comic Vine answers some
// detail requests with an array; its first element is used.
func decodeObject(raw json.RawMessage) (Object, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Object{}, nil
	}
	if trimmed[0] == '[' {
		objs, err := decodeObjects(trimmed)
		if err != nil {
			return nil, err
		}
		if len(objs) == 0 {
			return Object{}, nil
		}
		return objs[0], nil
	}

	var obj Object
	if err := newDecoder(trimmed).Decode(&obj); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}
	return obj, nil
}

// decodeObjects decodes a list payload's results.
func decodeObjects(raw json.RawMessage) ([]Object, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []Object{}, nil
	}
	if trimmed[0] == '{' {
		obj, err := decodeObject(trimmed)
		if err != nil {
			return nil, err
		}
		return []Object{obj}, nil
	}

	var objs []Object
	if err := newDecoder(trimmed).Decode(&objs); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}
	return objs, nil
}

// ListResult is one page of a list resource.
type ListResult struct {
	Resource     Resource
	Params       Params
	Limit        int
	Offset       int
	PageResults  int
	TotalResults int
	Results      []Object

	client *Client
}

func newListResult(c *Client, resource Resource, params Params, resp *Response) (*ListResult, error) {
	objs, err := decodeObjects(resp.Results)
	if err != nil {
		return nil, err
	}
	return &ListResult{
		Resource:     resource,
		Params:       params,
		Limit:        resp.Limit,
		Offset:       resp.Offset,
		PageResults:  resp.NumberOfPageResults,
		TotalResults: resp.NumberOfTotalResults,
		Results:      objs,
		client:       c,
	}, nil
}

// Len returns the number of objects on this page.
func (l *ListResult) Len() int {
	return len(l.Results)
}

// Page returns the 1-based page number.
func (l *ListResult) Page() int {
	if l.Limit <= 0 {
		return 1
	}
	return l.Offset/l.Limit + 1
}

// PageCount returns the number of pages for the full result set.
func (l *ListResult) PageCount() int {
	if l.Limit <= 0 || l.TotalResults == 0 {
		return 1
	}
	return (l.TotalResults + l.Limit - 1) / l.Limit
}

// HasNext reports whether more results follow this page.
func (l *ListResult) HasNext() bool {
	return l.PageResults > 0 && l.Offset+l.PageResults < l.TotalResults
}

// HasPrev reports whether this page is preceded by another.
func (l *ListResult) HasPrev() bool {
	return l.Offset > 0
}

// NextPage fetches the following page.
func (l *ListResult) NextPage(ctx context.Context) (*ListResult, error) {
	if !l.HasNext() {
		return nil, ErrNoMorePages
	}
	return l.client.List(ctx, l.Resource, l.Params.With(ParamOffset, l.Offset+l.step()))
}

// PrevPage fetches the preceding page.
func (l *ListResult) PrevPage(ctx context.Context) (*ListResult, error) {
	if !l.HasPrev() {
		return nil, ErrNoMorePages
	}
	return l.client.List(ctx, l.Resource, l.Params.With(ParamOffset, max(l.Offset-l.step(), 0)))
}

func (l *ListResult) step() int {
	if l.Limit > 0 {
		return l.Limit
	}
	return l.PageResults
}

// SearchResult is one page of a search, keeping the query for paging.
type SearchResult struct {
	ListResult
	Query string
}

// NextPage fetches the following page of the search.
func (s *SearchResult) NextPage(ctx context.Context) (*SearchResult, error) {
	if !s.HasNext() {
		return nil, ErrNoMorePages
	}
	return s.client.Search(ctx, s.Resource, s.Query, s.pageParams(s.Page()+1))
}

// PrevPage fetches the preceding page of the search.
func (s *SearchResult) PrevPage(ctx context.Context) (*SearchResult, error) {
	if !s.HasPrev() || s.Page() <= 1 {
		return nil, ErrNoMorePages
	}
	return s.client.Search(ctx, s.Resource, s.Query, s.pageParams(s.Page()-1))
}

// pageParams strips the options Search adds itself and sets the page.
func (s *SearchResult) pageParams(page int) Params {
	params := s.Params.Clone()
	delete(params, ParamResources)
	delete(params, ParamQuery)
	delete(params, ParamOffset)
	params[ParamPage] = page
	return params
}

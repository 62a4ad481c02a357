package comicvine

import (
	"maps"
	"net/url"
	"slices"

	"github.com/spf13/cast"
)

// Query parameter names with special meaning.
const (
	ParamAPIKey    = "api_key"
	ParamFormat    = "format"
	ParamID        = "id"
	ParamLimit     = "limit"
	ParamOffset    = "offset"
	ParamPage      = "page"
	ParamQuery     = "query"
	ParamResources = "resources"
	ParamSort      = "sort"
	ParamFieldList = "field_list"
	ParamFilter    = "filter"

	formatJSON = "json"
)

// reservedParams cannot be overridden by caller parameters.
var reservedParams = map[string]struct{}{
	ParamAPIKey: {},
	ParamFormat: {},
}

// Params holds caller-supplied query parameters. Values may be strings or
// any scalar; they are stringified when the request is built.
type Params map[string]any

// Clone returns a shallow copy of p that is safe to modify.
func (p Params) Clone() Params {
	out := make(Params, len(p)+2)
	maps.Copy(out, p)
	return out
}

// With returns a copy of p with key set to value.
func (p Params) With(key string, value any) Params {
	out := p.Clone()
	out[key] = value
	return out
}

// Merge returns a copy of p extended and overridden by other.
func (p Params) Merge(other Params) Params {
	out := p.Clone()
	maps.Copy(out, other)
	return out
}

// String returns the stringified value of key and whether it was present.
func (p Params) String(key string) (string, bool) {
	v, ok := p[key]
	if !ok || v == nil {
		return "", false
	}
	return cast.ToString(v), true
}

// Int returns the integer value of key, or 0.
func (p Params) Int(key string) int {
	return cast.ToInt(p[key])
}

// mergeParams builds the final query: the API defaults first, then caller
// params in key order. Caller values for reserved keys are dropped.
func mergeParams(apiKey string, caller Params) (url.Values, []string) {
	values := url.Values{}
	values.Set(ParamAPIKey, apiKey)
	values.Set(ParamFormat, formatJSON)

	var dropped []string
	for _, key := range slices.Sorted(maps.Keys(caller)) {
		if _, reserved := reservedParams[key]; reserved {
			dropped = append(dropped, key)
			continue
		}
		v := caller[key]
		if v == nil {
			continue
		}
		values.Set(key, cast.ToString(v))
	}
	return values, dropped
}

// redactQuery returns the encoded query with the API key masked, for logging.
func redactQuery(values url.Values) string {
	masked := url.Values{}
	for k, v := range values {
		if k == ParamAPIKey {
			masked.Set(k, "REDACTED")
			continue
		}
		masked[k] = v
	}
	return masked.Encode()
}

package comicvine

import (
	"context"
	"fmt"
	"strconv"
)

// APIURL is the root of the Comic Vine API.
const APIURL = "http://comicvine.gamespot.com/api"

// BuildBaseURL returns the request URL for resource. Without an id it is the
// list/search address; with an id the resource's type id is looked up and the
// detail address {resource}/{typeID}-{id} is returned.
func (c *Client) BuildBaseURL(ctx context.Context, resource Resource, id string) (string, error) {
	if !resource.Supported() {
		return "", fmt.Errorf("%w: %q", ErrResourceNotSupported, resource)
	}
	if id == "" {
		return joinURL(c.baseURL, resource), nil
	}

	td, found, err := c.types.FindDetail(ctx, c, resource)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("%w: %q", ErrTypeNotFound, resource)
	}
	return detailURL(c.baseURL, resource, td.ID, id), nil
}

func joinURL(base string, resource Resource) string {
	return base + "/" + string(resource)
}

func detailURL(base string, resource Resource, typeID int, id string) string {
	return joinURL(base, resource) + "/" + strconv.Itoa(typeID) + "-" + id
}

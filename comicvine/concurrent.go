package comicvine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the requests a batch operation has in flight.
const DefaultConcurrency = 5

// DetailsMany fetches several instances of resource concurrently. Results
// keep the order of ids; the first failure cancels the remaining requests.
func (c *Client) DetailsMany(ctx context.Context, resource Resource, ids []string, params Params) ([]Object, error) {
	results := make([]Object, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultConcurrency)

	for i, id := range ids {
		g.Go(func() error {
			obj, err := c.Details(ctx, resource, id, params)
			if err != nil {
				return fmt.Errorf("%s %s: %w", resource.DetailName(), id, err)
			}
			results[i] = obj
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// FetchMany loads the full detail of several partial objects concurrently.
// Objects without an api_detail_url are returned unchanged.
func (c *Client) FetchMany(ctx context.Context, objs []Object) ([]Object, error) {
	results := make([]Object, len(objs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultConcurrency)

	for i, obj := range objs {
		if obj.APIDetailURL() == "" {
			results[i] = obj
			continue
		}
		g.Go(func() error {
			full, err := c.Fetch(ctx, obj)
			if err != nil {
				c.logger.Warn().
					Err(err).
					Int64("id", obj.ID()).
					Str("name", obj.DisplayName()).
					Msg("Failed to fetch object details")
				return err
			}
			results[i] = full
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ListPages follows a list resource for up to maxPages pages, starting from
// the offset in params, and returns every object collected along with the
// last page fetched.
func (c *Client) ListPages(ctx context.Context, resource Resource, params Params, maxPages int) ([]Object, *ListResult, error) {
	page, err := c.List(ctx, resource, params)
	if err != nil {
		return nil, nil, err
	}

	all := append([]Object(nil), page.Results...)
	for n := 1; n < maxPages && page.HasNext(); n++ {
		page, err = page.NextPage(ctx)
		if err != nil {
			return nil, nil, err
		}
		all = append(all, page.Results...)
	}
	return all, page, nil
}

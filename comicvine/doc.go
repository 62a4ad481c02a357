// Package comicvine provides a client for interacting with the Comic Vine API.
//
// Comic Vine is a comic book database exposing characters, issues, volumes,
// publishers and more through a JSON web API. This package builds resource
// URLs, authenticates requests with an API key and turns payloads into
// typed results.
//
// # Architecture
//
// The package is organized into several components:
//
//   - Resources: the fixed registry of resource names the API understands
//   - TypeCache: type descriptors used to build detail URLs, refreshed every four hours
//   - Client: URL building, request execution and response classification
//   - Transport: the HTTP layer, replaceable for tests or custom stacks
//   - Results: Object, ListResult and SearchResult wrappers with paging
//
// # Usage
//
//	logger := zerolog.New(os.Stdout)
//	client, err := comicvine.NewClient("your-api-key", logger,
//		comicvine.WithTimeout(30*time.Second),
//		comicvine.WithRateLimit(1, 1),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	volumes, err := client.Search(ctx, comicvine.ResourceVolume, "Avengers", comicvine.Params{"limit": 5})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	issue, err := client.Details(ctx, comicvine.ResourceIssue, "371103", nil)
//
// # Detail URLs
//
// Detail resources are addressed as {resource}/{typeID}-{id}. The type id is
// looked up in the TypeCache, which fetches the types resource on first use
// and again once its contents are older than the TTL. A TypeCache can be
// shared across clients with WithTypeCache.
//
// # Error Handling
//
// The package defines several error types:
//
//   - ErrResourceNotSupported: the resource is not in the registry; no request is made
//   - ErrTypeNotFound: no type descriptor exists for a detail resource
//   - APIError: any failed request, classified by Kind
//
// API errors include helper methods for classification:
//
//	var apiErr *comicvine.APIError
//	if errors.As(err, &apiErr) && apiErr.IsRateLimited() {
//		// back off
//	}
package comicvine

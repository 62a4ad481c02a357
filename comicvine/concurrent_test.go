package comicvine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetailsMany(t *testing.T) {
	mock := newMockTransport()
	mock.routes["/issue/4000-1"] = &RawResponse{StatusCode: 200, Body: payload(map[string]any{"id": 1, "name": "One"})}
	mock.routes["/issue/4000-2"] = &RawResponse{StatusCode: 200, Body: payload(map[string]any{"id": 2, "name": "Two"})}
	mock.routes["/issue/4000-3"] = &RawResponse{StatusCode: 200, Body: payload(map[string]any{"id": 3, "name": "Three"})}
	client := newTestClient(t, mock)

	objs, err := client.DetailsMany(context.Background(), ResourceIssues, []string{"3", "1", "2"}, nil)
	require.NoError(t, err)
	require.Len(t, objs, 3)
	assert.Equal(t, "Three", objs[0].Name())
	assert.Equal(t, "One", objs[1].Name())
	assert.Equal(t, "Two", objs[2].Name())
	assert.Equal(t, 1, mock.count("/types"))

	_, err = client.DetailsMany(context.Background(), ResourceIssue, []string{"1", "99"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "issue 99")
}

func TestFetchMany(t *testing.T) {
	mock := newMockTransport()
	mock.routes["/volume/4050-1/"] = &RawResponse{StatusCode: 200, Body: payload(map[string]any{"id": 1, "deck": "full"})}
	client := newTestClient(t, mock)

	objs, err := client.FetchMany(context.Background(), []Object{
		{"id": 1, "api_detail_url": APIURL + "/volume/4050-1/"},
		{"id": 2},
	})
	require.NoError(t, err)
	assert.Equal(t, "full", objs[0].String("deck"))
	assert.Equal(t, Object{"id": 2}, objs[1])
}

func TestListPages(t *testing.T) {
	mock := newMockTransport()
	mock.routes["/volumes"] = &RawResponse{StatusCode: 200, Body: payloadWith(
		[]map[string]any{{"id": 1}, {"id": 2}},
		map[string]any{"limit": 2, "offset": 0, "number_of_page_results": 2, "number_of_total_results": 10},
	)}
	client := newTestClient(t, mock)

	all, last, err := client.ListPages(context.Background(), ResourceVolumes, Params{ParamLimit: 2}, 3)
	require.NoError(t, err)
	assert.Len(t, all, 6)
	assert.NotNil(t, last)
	assert.Equal(t, 3, mock.count("/volumes"))
}

package comicvine

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectAccessors(t *testing.T) {
	obj, err := decodeObject(json.RawMessage(`{
		"id": 1234,
		"name": null,
		"issue_number": "7",
		"volume": {"id": 1, "name": "X-Men"},
		"character_credits": [{"id": 1, "name": "Wolverine"}, "junk"],
		"api_detail_url": "http://comicvine.gamespot.com/api/issue/4000-1234/"
	}`))
	require.NoError(t, err)

	assert.Equal(t, int64(1234), obj.ID())
	assert.False(t, obj.Has("name"))
	assert.True(t, obj.Has("issue_number"))
	assert.Equal(t, "X-Men #7", obj.DisplayName())
	assert.Equal(t, "X-Men", obj.Object("volume").Name())
	assert.Nil(t, obj.Object("issue_number"))
	require.Len(t, obj.Objects("character_credits"), 1)
	assert.Equal(t, "Wolverine", obj.Objects("character_credits")[0].Name())
	assert.Equal(t, "http://comicvine.gamespot.com/api/issue/4000-1234/", obj.APIDetailURL())

	assert.Equal(t, "#5", Object{"id": 5}.DisplayName())
	assert.Equal(t, "Hello", Object{"title": "Hello"}.DisplayName())
}

func TestObjectPlain(t *testing.T) {
	obj, err := decodeObject(json.RawMessage(`{
		"id": 1234,
		"rating": 4.5,
		"volume": {"id": 1},
		"credits": [{"id": 2}, 3]
	}`))
	require.NoError(t, err)

	plain := obj.Plain()
	assert.Equal(t, int64(1234), plain["id"])
	assert.Equal(t, 4.5, plain["rating"])
	assert.Equal(t, map[string]any{"id": int64(1)}, plain["volume"])
	assert.Equal(t, []any{map[string]any{"id": int64(2)}, int64(3)}, plain["credits"])

	assert.Equal(t, json.Number("1234"), obj["id"])
	assert.Empty(t, Object(nil).Plain())
}

func TestDecodeResults(t *testing.T) {
	obj, err := decodeObject(json.RawMessage(`[{"id": 1}, {"id": 2}]`))
	require.NoError(t, err)
	assert.Equal(t, int64(1), obj.ID())

	obj, err = decodeObject(json.RawMessage(`[]`))
	require.NoError(t, err)
	assert.Empty(t, obj)

	obj, err = decodeObject(nil)
	require.NoError(t, err)
	assert.Empty(t, obj)

	objs, err := decodeObjects(json.RawMessage(`{"id": 3}`))
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, int64(3), objs[0].ID())

	objs, err = decodeObjects(json.RawMessage(`null`))
	require.NoError(t, err)
	assert.Empty(t, objs)

	_, err = decodeObjects(json.RawMessage(`[1, 2`))
	assert.Error(t, err)
}

func TestListResultPaging(t *testing.T) {
	mock := newMockTransport()
	mock.routes["/volumes"] = &RawResponse{StatusCode: 200, Body: payloadWith(
		[]map[string]any{{"id": 3}, {"id": 4}},
		map[string]any{"limit": 2, "offset": 2, "number_of_page_results": 2, "number_of_total_results": 5},
	)}
	client := newTestClient(t, mock)
	ctx := context.Background()

	list, err := client.List(ctx, ResourceVolumes, Params{ParamLimit: 2, ParamOffset: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, list.Page())
	assert.Equal(t, 3, list.PageCount())
	assert.True(t, list.HasNext())
	assert.True(t, list.HasPrev())

	_, err = list.NextPage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "4", mock.last().Query.Get(ParamOffset))
	assert.Equal(t, "2", mock.last().Query.Get(ParamLimit))

	_, err = list.PrevPage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0", mock.last().Query.Get(ParamOffset))

	last := &ListResult{Limit: 2, Offset: 4, PageResults: 1, TotalResults: 5, client: client}
	_, err = last.NextPage(ctx)
	assert.ErrorIs(t, err, ErrNoMorePages)

	first := &ListResult{Limit: 2, PageResults: 2, TotalResults: 5, client: client}
	_, err = first.PrevPage(ctx)
	assert.ErrorIs(t, err, ErrNoMorePages)
}

func TestSearchResultPaging(t *testing.T) {
	mock := newMockTransport()
	mock.routes["/search"] = &RawResponse{StatusCode: 200, Body: payloadWith(
		[]map[string]any{{"id": 1}},
		map[string]any{"limit": 1, "offset": 0, "number_of_page_results": 1, "number_of_total_results": 3},
	)}
	client := newTestClient(t, mock)
	ctx := context.Background()

	result, err := client.Search(ctx, "volume,issue", "Batman", Params{ParamLimit: 1})
	require.NoError(t, err)

	next, err := result.NextPage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Batman", next.Query)

	query := mock.last().Query
	assert.Equal(t, "2", query.Get(ParamPage))
	assert.Equal(t, "volume,issue", query.Get(ParamResources))
	assert.Equal(t, "Batman", query.Get(ParamQuery))
	assert.False(t, query.Has(ParamOffset))

	_, err = result.PrevPage(ctx)
	assert.ErrorIs(t, err, ErrNoMorePages)
}

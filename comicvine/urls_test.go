package comicvine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildBaseURL(t *testing.T) {
	mock := newMockTransport()
	client := newTestClient(t, mock)
	ctx := context.Background()

	tests := []struct {
		name     string
		resource Resource
		id       string
		want     string
		wantErr  error
	}{
		{name: "list", resource: ResourceIssues, want: APIURL + "/issues"},
		{name: "search", resource: ResourceSearch, want: APIURL + "/search"},
		{name: "types", resource: ResourceTypes, want: APIURL + "/types"},
		{name: "detail without id", resource: ResourceIssue, want: APIURL + "/issue"},
		{
			name:     "detail",
			resource: ResourceIssue,
			id:       "371103",
			want:     "http://comicvine.gamespot.com/api/issue/4000-371103",
		},
		{name: "series detail", resource: ResourceSeries, id: "7", want: APIURL + "/series/4075-7"},
		{name: "unsupported", resource: "comic", wantErr: ErrResourceNotSupported},
		{name: "no descriptor", resource: ResourceTeam, id: "1", wantErr: ErrTypeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := client.BuildBaseURL(ctx, tt.resource, tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, 1, mock.count("/types"))
}

func TestBuildBaseURLCustomRoot(t *testing.T) {
	client := newTestClient(t, newMockTransport(), WithBaseURL("https://example.test/api/"))

	got, err := client.BuildBaseURL(context.Background(), ResourceVolume, "2127")
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/api/volume/4050-2127", got)
}

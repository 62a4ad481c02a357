package comicvine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSupported(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"issue", true},
		{"issues", true},
		{"series_list", true},
		{"people", true},
		{"search", true},
		{"types", true},
		{"video_categories", true},
		{"comic", false},
		{"", false},
		{"Issue", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSupported(tt.name))
		})
	}
}

func TestResources(t *testing.T) {
	all := Resources()
	assert.Len(t, all, 42)
	assert.Contains(t, all, ResourceSearch)
	assert.Contains(t, all, ResourceTypes)

	// Returned slice is a copy
	all[0] = "mutated"
	assert.Equal(t, ResourceCharacter, Resources()[0])
}

func TestResourceNames(t *testing.T) {
	assert.Equal(t, ResourceIssues, ResourceIssue.ListName())
	assert.Equal(t, ResourceIssues, ResourceIssues.ListName())
	assert.Equal(t, ResourcePeople, ResourcePerson.ListName())
	assert.Equal(t, ResourceSeriesList, ResourceSeries.ListName())
	assert.Equal(t, ResourceSearch, ResourceSearch.ListName())

	assert.Equal(t, ResourceVolume, ResourceVolumes.DetailName())
	assert.Equal(t, ResourceVolume, ResourceVolume.DetailName())
	assert.Equal(t, ResourceStoryArc, ResourceStoryArcs.DetailName())
	assert.Equal(t, ResourceTypes, ResourceTypes.DetailName())

	assert.True(t, ResourceTeams.IsList())
	assert.False(t, ResourceTeam.IsList())
	assert.False(t, ResourceTypes.IsList())
}

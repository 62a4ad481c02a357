package comicvine

// Resource is a resource name understood by the Comic Vine API.
type Resource string

const (
	ResourceCharacter       Resource = "character"
	ResourceCharacters      Resource = "characters"
	ResourceChat            Resource = "chat"
	ResourceChats           Resource = "chats"
	ResourceConcept         Resource = "concept"
	ResourceConcepts        Resource = "concepts"
	ResourceEpisode         Resource = "episode"
	ResourceEpisodes        Resource = "episodes"
	ResourceIssue           Resource = "issue"
	ResourceIssues          Resource = "issues"
	ResourceLocation        Resource = "location"
	ResourceLocations       Resource = "locations"
	ResourceMovie           Resource = "movie"
	ResourceMovies          Resource = "movies"
	ResourceObject          Resource = "object"
	ResourceObjects         Resource = "objects"
	ResourceOrigin          Resource = "origin"
	ResourceOrigins         Resource = "origins"
	ResourcePerson          Resource = "person"
	ResourcePeople          Resource = "people"
	ResourcePower           Resource = "power"
	ResourcePowers          Resource = "powers"
	ResourcePromo           Resource = "promo"
	ResourcePromos          Resource = "promos"
	ResourcePublisher       Resource = "publisher"
	ResourcePublishers      Resource = "publishers"
	ResourceSeries          Resource = "series"
	ResourceSeriesList      Resource = "series_list"
	ResourceSearch          Resource = "search"
	ResourceStoryArc        Resource = "story_arc"
	ResourceStoryArcs       Resource = "story_arcs"
	ResourceTeam            Resource = "team"
	ResourceTeams           Resource = "teams"
	ResourceTypes           Resource = "types"
	ResourceVideo           Resource = "video"
	ResourceVideos          Resource = "videos"
	ResourceVideoType       Resource = "video_type"
	ResourceVideoTypes      Resource = "video_types"
	ResourceVideoCategory   Resource = "video_category"
	ResourceVideoCategories Resource = "video_categories"
	ResourceVolume          Resource = "volume"
	ResourceVolumes         Resource = "volumes"
)

// resourcePairs lists every detail resource next to its list form.
var resourcePairs = [...][2]Resource{
	{ResourceCharacter, ResourceCharacters},
	{ResourceChat, ResourceChats},
	{ResourceConcept, ResourceConcepts},
	{ResourceEpisode, ResourceEpisodes},
	{ResourceIssue, ResourceIssues},
	{ResourceLocation, ResourceLocations},
	{ResourceMovie, ResourceMovies},
	{ResourceObject, ResourceObjects},
	{ResourceOrigin, ResourceOrigins},
	{ResourcePerson, ResourcePeople},
	{ResourcePower, ResourcePowers},
	{ResourcePromo, ResourcePromos},
	{ResourcePublisher, ResourcePublishers},
	{ResourceSeries, ResourceSeriesList},
	{ResourceStoryArc, ResourceStoryArcs},
	{ResourceTeam, ResourceTeams},
	{ResourceVideo, ResourceVideos},
	{ResourceVideoType, ResourceVideoTypes},
	{ResourceVideoCategory, ResourceVideoCategories},
	{ResourceVolume, ResourceVolumes},
}

var (
	supported  = make(map[Resource]struct{}, len(resourcePairs)*2+2)
	toList     = make(map[Resource]Resource, len(resourcePairs))
	toDetail   = make(map[Resource]Resource, len(resourcePairs))
	registered []Resource
)

func init() {
	for _, pair := range resourcePairs {
		toList[pair[0]] = pair[1]
		toDetail[pair[1]] = pair[0]
		registered = append(registered, pair[0], pair[1])
	}
	registered = append(registered, ResourceSearch, ResourceTypes)
	for _, r := range registered {
		supported[r] = struct{}{}
	}
}

// IsSupported reports whether name is one of the resources the API understands.
func IsSupported(name string) bool {
	_, ok := supported[Resource(name)]
	return ok
}

// Resources returns every supported resource, detail form first in each pair.
func Resources() []Resource {
	out := make([]Resource, len(registered))
	copy(out, registered)
	return out
}

// Supported reports whether r is in the registry.
func (r Resource) Supported() bool {
	return IsSupported(string(r))
}

// IsList reports whether r is the plural form of a resource.
func (r Resource) IsList() bool {
	_, ok := toDetail[r]
	return ok
}

// ListName returns the plural form of r. List resources and resources
// without a pair (search, types) are returned unchanged.
func (r Resource) ListName() Resource {
	if l, ok := toList[r]; ok {
		return l
	}
	return r
}

// DetailName returns the singular form of r. Detail resources and resources
// without a pair are returned unchanged.
func (r Resource) DetailName() Resource {
	if d, ok := toDetail[r]; ok {
		return d
	}
	return r
}

// String returns the resource token
func (r Resource) String() string {
	return string(r)
}

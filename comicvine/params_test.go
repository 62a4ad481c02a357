package comicvine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeParams(t *testing.T) {
	t.Run("defaults only", func(t *testing.T) {
		values, dropped := mergeParams("KEY", nil)
		assert.Equal(t, "KEY", values.Get(ParamAPIKey))
		assert.Equal(t, "json", values.Get(ParamFormat))
		assert.Len(t, values, 2)
		assert.Empty(t, dropped)
	})

	t.Run("caller params stringified", func(t *testing.T) {
		values, _ := mergeParams("KEY", Params{
			ParamLimit:  5,
			ParamQuery:  "Avengers",
			ParamFilter: "name:Spider",
		})
		assert.Equal(t, "5", values.Get(ParamLimit))
		assert.Equal(t, "Avengers", values.Get(ParamQuery))
		assert.Equal(t, "name:Spider", values.Get(ParamFilter))
	})

	t.Run("reserved keys cannot be overridden", func(t *testing.T) {
		values, dropped := mergeParams("KEY", Params{
			ParamAPIKey: "other",
			ParamFormat: "xml",
		})
		assert.Equal(t, "KEY", values.Get(ParamAPIKey))
		assert.Equal(t, "json", values.Get(ParamFormat))
		assert.Equal(t, []string{ParamAPIKey, ParamFormat}, dropped)
	})

	t.Run("nil values skipped", func(t *testing.T) {
		values, _ := mergeParams("KEY", Params{ParamSort: nil})
		assert.False(t, values.Has(ParamSort))
	})
}

func TestParamsHelpers(t *testing.T) {
	base := Params{ParamLimit: 10}

	with := base.With(ParamOffset, 20)
	assert.Equal(t, 20, with.Int(ParamOffset))
	assert.NotContains(t, base, ParamOffset)

	merged := base.Merge(Params{ParamLimit: 5, ParamSort: "name:asc"})
	assert.Equal(t, 5, merged.Int(ParamLimit))
	assert.Equal(t, 10, base.Int(ParamLimit))

	s, ok := merged.String(ParamSort)
	assert.True(t, ok)
	assert.Equal(t, "name:asc", s)

	_, ok = merged.String(ParamID)
	assert.False(t, ok)

	var nilParams Params
	assert.NotNil(t, nilParams.Clone())
	assert.Equal(t, 0, nilParams.Int(ParamLimit))
}

func TestRedactQuery(t *testing.T) {
	values, _ := mergeParams("secret", Params{ParamQuery: "x"})
	redacted := redactQuery(values)
	assert.NotContains(t, redacted, "secret")
	assert.Contains(t, redacted, "api_key=REDACTED")
	assert.Contains(t, redacted, "query=x")

	assert.Equal(t, "http://h/api/issues?api_key=REDACTED&format=json",
		scrubURL("http://h/api/issues?api_key=secret&format=json"))
	assert.Equal(t, "not a url", scrubURL("not a url"))
}

package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRef(t *testing.T) {
	t.Run("name only defaults to id", func(t *testing.T) {
		ref, ok := parseRef("$proj")
		assert.True(t, ok)
		assert.Equal(t, refExpr{name: "proj", field: "id"}, ref)
	})

	t.Run("name and field", func(t *testing.T) {
		ref, ok := parseRef("$sprint1.project_id")
		assert.True(t, ok)
		assert.Equal(t, refExpr{name: "sprint1", field: "project_id"}, ref)
	})

	t.Run("literals are not references", func(t *testing.T) {
		_, ok := parseRef("plain string")
		assert.False(t, ok)
		_, ok = parseRef(float64(7))
		assert.False(t, ok)
		_, ok = parseRef(nil)
		assert.False(t, ok)
	})
}

func TestResolveReferences(t *testing.T) {
	registry := map[string]map[string]any{
		"proj": {"id": int64(42), "name": "Alpha"},
	}

	t.Run("substitutes known references", func(t *testing.T) {
		resolved := resolveReferences(map[string]any{
			"project_id": "$proj.id",
			"label":      "$proj.name",
			"title":      "untouched",
		}, registry)

		assert.Equal(t, int64(42), resolved["project_id"])
		assert.Equal(t, "Alpha", resolved["label"])
		assert.Equal(t, "untouched", resolved["title"])
	})

	t.Run("bare reference resolves to id", func(t *testing.T) {
		resolved := resolveReferences(map[string]any{"project_id": "$proj"}, registry)
		assert.Equal(t, int64(42), resolved["project_id"])
	})

	t.Run("unknown reference omits the field", func(t *testing.T) {
		resolved := resolveReferences(map[string]any{
			"project_id": "$ghost.id",
			"name":       "S",
		}, registry)

		_, present := resolved["project_id"]
		assert.False(t, present)
		assert.Equal(t, "S", resolved["name"])
	})

	t.Run("unknown field omits the field", func(t *testing.T) {
		resolved := resolveReferences(map[string]any{"x": "$proj.nope"}, registry)
		_, present := resolved["x"]
		assert.False(t, present)
	})

	t.Run("input map is not mutated", func(t *testing.T) {
		data := map[string]any{"project_id": "$proj.id"}
		resolveReferences(data, registry)
		assert.Equal(t, "$proj.id", data["project_id"])
	})
}

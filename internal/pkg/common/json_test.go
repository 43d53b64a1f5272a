package common

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON(t *testing.T) {
	t.Run("rejects trailing data", func(t *testing.T) {
		var v map[string]interface{}
		err := ParseJSON(`{"a":1} {"b":2}`, &v)
		assert.Error(t, err)
	})

	t.Run("rejects non json", func(t *testing.T) {
		var v map[string]interface{}
		assert.Error(t, ParseJSON("Štai jūsų receptas", &v))
	})

	t.Run("keeps numbers as json.Number", func(t *testing.T) {
		var v map[string]interface{}
		require.NoError(t, ParseJSON(`{"a":1.50}`, &v))
		assert.Equal(t, json.Number("1.50"), v["a"])
	})
}

func TestFlexString_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    FlexString
		wantErr bool
	}{
		{name: "string", input: `"4 porcijos"`, want: "4 porcijos"},
		{name: "integer", input: `4`, want: "4"},
		{name: "float", input: `2.5`, want: "2.5"},
		{name: "null", input: `null`, want: ""},
		{name: "array", input: `[1]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s FlexString
			err := json.Unmarshal([]byte(tt.input), &s)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, s)
		})
	}
}

func TestRecipe_PassThrough(t *testing.T) {
	raw := `{"receptoPavadinimas":"Sriuba","instrukcijos":["Virti"],"porcijos":4,"papildomai":"x"}`

	var r Recipe
	require.NoError(t, ParseJSON(raw, &r))
	assert.Equal(t, "Sriuba", r.Title)
	assert.Equal(t, FlexString("4"), r.Servings)
	assert.Equal(t, []string{"Virti"}, r.Instructions)

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}

func TestRecipe_LenientOptionalFields(t *testing.T) {
	raw := `{"receptoPavadinimas":"Sriuba","instrukcijos":["Virti"],"patarimai":"Skanaus","sudetingumas":2,` +
		`"porcijos":"4","maistoInformacija":"n/a","ingredientai":[{"pavadinimas":"Bulvės"}]}`

	var r Recipe
	require.NoError(t, ParseJSON(raw, &r))
	assert.Equal(t, "Sriuba", r.Title)
	assert.Equal(t, []string{"Virti"}, r.Instructions)
	assert.Equal(t, FlexString("4"), r.Servings)
	assert.Nil(t, r.Tips)
	assert.Empty(t, r.Difficulty)
	assert.Nil(t, r.Nutrition)
	assert.Nil(t, r.Ingredients)

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}

func TestRecipe_RejectsNonObject(t *testing.T) {
	var r Recipe
	assert.Error(t, ParseJSON(`["Virti"]`, &r))
	assert.Error(t, ParseJSON(`"Sriuba"`, &r))
}

func TestRecipe_MarshalWithoutRaw(t *testing.T) {
	r := Recipe{Title: "X", Instructions: []string{"a"}}
	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"receptoPavadinimas":"X","instrukcijos":["a"]}`, string(out))
}

package sdk

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordKeepsInsertionOrder(t *testing.T) {
	rec := NewRecord()
	rec.Set("zeta", 1).Set("alpha", 2).Set("mid", 3)
	rec.Set("zeta", 4)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, rec.Keys())
	assert.Equal(t, 4, rec.Value("zeta"))

	rec.Delete("alpha")
	rec.Delete("missing")
	assert.Equal(t, []string{"zeta", "mid"}, rec.Keys())
	assert.Equal(t, 2, rec.Len())
}

func TestRecordJSONPreservesDocumentOrder(t *testing.T) {
	input := `{"plan_code":"basic","name":"Basic","recurring_price":10.5,"addons":[{"addon_code":"a"}],"plan":{"b":1,"a":2}}`

	rec, err := DecodeRecord([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"plan_code", "name", "recurring_price", "addons", "plan"}, rec.Keys())
	assert.Equal(t, json.Number("10.5"), rec.Value("recurring_price"))
	assert.Equal(t, []string{"b", "a"}, rec.Record("plan").Keys())

	out, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(out))
	assert.Equal(t, input, string(out))
}

func TestDecodeRecordRejectsNonObjects(t *testing.T) {
	for _, input := range []string{`[1,2]`, `"text"`, `{"a":`, ``} {
		_, err := DecodeRecord([]byte(input))
		assert.Error(t, err, input)
	}
}

func TestRecordSetNormalizesMaps(t *testing.T) {
	rec := NewRecord()
	rec.Set("card", map[string]any{"zip": "1", "city": "x"})
	rec.Set("addons", []map[string]any{{"addon_code": "a"}, {"addon_code": "b"}})

	card := rec.Record("card")
	require.NotNil(t, card)
	assert.Equal(t, []string{"city", "zip"}, card.Keys())

	addons := rec.Records("addons")
	require.Len(t, addons, 2)
	assert.Equal(t, "b", addons[1].String("addon_code"))
}

func TestRecordCloneIsDeep(t *testing.T) {
	rec := RecordOf("plan", RecordOf("plan_code", "basic"), "addons", []any{RecordOf("addon_code", "a")})
	clone := rec.Clone()

	clone.Record("plan").Set("plan_code", "pro")
	clone.Records("addons")[0].Set("addon_code", "b")

	assert.Equal(t, "basic", rec.Record("plan").String("plan_code"))
	assert.Equal(t, "a", rec.Records("addons")[0].String("addon_code"))
	assert.False(t, rec.Equal(clone))
}

func TestRecordEqual(t *testing.T) {
	a := RecordOf("price", 10, "name", "x")
	b := RecordOf("name", "x", "price", json.Number("10"))
	assert.True(t, a.Equal(b))

	assert.False(t, a.Equal(RecordOf("price", "10", "name", "x")))
	assert.False(t, a.Equal(RecordOf("price", 10)))
	assert.True(t, (*Record)(nil).Equal(NewRecord()))
}

func TestRecordTypedGetters(t *testing.T) {
	rec := RecordOf(
		"name", "Basic",
		"price", json.Number("12.5"),
		"interval", "3",
		"active", "true",
		"trial", 0,
		"nested", RecordOf("k", "v"),
	)

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"string", rec.String("name"), "Basic"},
		{"number as string", rec.String("price"), "12.5"},
		{"float", rec.Float("price"), 12.5},
		{"numeric string", rec.Int("interval"), int64(3)},
		{"bool string", rec.Bool("active"), true},
		{"zero is false", rec.Bool("trial"), false},
		{"nested is not a string", rec.String("nested"), ""},
		{"missing string", rec.String("missing"), ""},
		{"missing float", rec.Float("missing"), float64(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}

	assert.Nil(t, rec.Record("name"))
	assert.Nil(t, rec.Records("name"))
}

func TestRecordRecordsAcceptsKeyedMappings(t *testing.T) {
	rec := RecordOf("addons", RecordOf("x", RecordOf("addon_code", "a"), "y", "skip", "z", RecordOf("addon_code", "c")))

	addons := rec.Records("addons")
	require.Len(t, addons, 2)
	assert.Equal(t, "a", addons[0].String("addon_code"))
	assert.Equal(t, "c", addons[1].String("addon_code"))
}

func TestNilRecordIsReadable(t *testing.T) {
	var rec *Record

	assert.Zero(t, rec.Len())
	assert.Nil(t, rec.Keys())
	assert.False(t, rec.Has("a"))
	assert.Nil(t, rec.Value("a"))
	assert.Nil(t, rec.Clone())
	assert.NotPanics(t, func() { rec.Delete("a") })

	out, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestRecordOfPanicsOnBadPairs(t *testing.T) {
	assert.Panics(t, func() { RecordOf("a") })
	assert.Panics(t, func() { RecordOf(1, "a") })
}

package envelope_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arikaim/controllers/pkg/envelope"
)

func TestEnvelope_StatusInvariant(t *testing.T) {
	t.Parallel()

	e := envelope.New()
	assert.Equal(t, envelope.StatusOK, e.Status())
	assert.Equal(t, envelope.CodeOK, e.Code())
	assert.False(t, e.HasError())

	e.SetField("name", "widget")
	assert.Equal(t, envelope.StatusOK, e.Status())

	e.AddError("something broke")
	assert.Equal(t, envelope.StatusError, e.Status())
	assert.Equal(t, envelope.CodeError, e.Code())
	assert.True(t, e.HasError())
	assert.Equal(t, 1, e.ErrorCount())

	e.AddError("something broke")
	assert.Equal(t, 2, e.ErrorCount(), "duplicates are kept")
}

func TestEnvelope_ClearIdempotence(t *testing.T) {
	t.Parallel()

	e := envelope.New()
	e.SetField("uuid", "abc")
	e.AddError("boom")
	e.OverrideCode(404)

	e.Clear()
	first := e.Finalize(false).(envelope.Result)

	e.Clear()
	second := e.Finalize(false).(envelope.Result)

	assert.Equal(t, first.Result, second.Result)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.Code, second.Code)
	assert.Equal(t, first.Errors, second.Errors)
	assert.Nil(t, second.Result)
	assert.Equal(t, envelope.CodeOK, second.Code)
	assert.Empty(t, second.Errors)
}

func TestEnvelope_RawEqualsFullResult(t *testing.T) {
	t.Parallel()

	e := envelope.New()
	e.SetField("uuid", "u-1")
	e.SetField("status", 1)
	e.AddError("err")

	full := e.Finalize(false).(envelope.Result)
	raw := e.Finalize(true)

	assert.Equal(t, full.Result, raw)
}

func TestEnvelope_FieldOrderPreserved(t *testing.T) {
	t.Parallel()

	e := envelope.New()
	e.SetField("zebra", 1)
	e.SetField("alpha", 2)
	e.SetField("zebra", 3) // update keeps position

	data, err := e.Serialize(true)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"zebra":3`)

	raw, err := json.Marshal(e.Payload())
	require.NoError(t, err)
	assert.Equal(t, `{"zebra":3,"alpha":2}`, string(raw))
}

func TestEnvelope_ReplacePayload(t *testing.T) {
	t.Parallel()

	e := envelope.New()
	e.SetField("ignored", true)
	e.ReplacePayload([]string{"a", "b"})

	assert.Equal(t, []string{"a", "b"}, e.Payload())

	// Keyed set after replace rebuilds a field map.
	e.SetField("uuid", "x")
	v, ok := e.Field("uuid")
	require.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestEnvelope_MergeFields(t *testing.T) {
	t.Parallel()

	e := envelope.New()
	e.SetField("message", "read")
	e.MergeFields(map[string]any{"name": "x", "uuid": "u-1"})

	msg, ok := e.Field("message")
	require.True(t, ok)
	assert.Equal(t, "read", msg)

	name, ok := e.Field("name")
	require.True(t, ok)
	assert.Equal(t, "x", name)
}

func TestEnvelope_SetFieldsUnder(t *testing.T) {
	t.Parallel()

	e := envelope.New()
	e.SetFieldsUnder("options", map[string]any{"color": "red"})
	e.SetFieldsUnder("options", map[string]any{"size": "xl"})

	data, err := json.Marshal(e.Payload())
	require.NoError(t, err)
	assert.JSONEq(t, `{"options":{"color":"red","size":"xl"}}`, string(data))
}

func TestEnvelope_ExecutionTime(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	current := start
	e := envelope.New(
		envelope.WithStartTime(start),
		envelope.WithClock(func() time.Time { return current }),
	)

	current = start.Add(1500 * time.Millisecond)
	result := e.Finalize(false).(envelope.Result)
	assert.InDelta(t, 1.5, result.ExecutionTime, 0.0001)
}

func TestEnvelope_SerializeCompactAndPretty(t *testing.T) {
	t.Parallel()

	e := envelope.New()
	e.SetField("path", "a/b")

	compact, err := e.Serialize(false)
	require.NoError(t, err)
	assert.NotContains(t, string(compact), "\n")

	e.UsePrettyFormat()
	assert.True(t, e.Pretty())

	pretty, err := e.Serialize(false)
	require.NoError(t, err)
	assert.Contains(t, string(pretty), "\n")
	assert.Contains(t, string(pretty), `"a/b"`, "slashes stay unescaped in pretty mode")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(pretty, &decoded))
	assert.Equal(t, "ok", decoded["status"])
}

func TestEnvelope_OverrideCode(t *testing.T) {
	t.Parallel()

	e := envelope.New()
	e.OverrideCode(404)
	assert.Equal(t, 404, e.Code())

	e.AddError("still overridden")
	assert.Equal(t, 404, e.Code())

	e.Clear()
	assert.Equal(t, envelope.CodeOK, e.Code())
}

func TestEnvelope_ErrorsNeverNil(t *testing.T) {
	t.Parallel()

	e := envelope.New()
	data, err := e.Serialize(false)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"errors":[]`)
}

package internal

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arikaim/controllers/pkg/envelope"
)

func newFakeClockEnvelope() *envelope.Envelope {
	now := time.Unix(1000, 0)
	return envelope.New(
		envelope.WithClock(func() time.Time { return now }),
		envelope.WithStartTime(now),
	)
}

func TestProgressStream_Shape(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	env := newFakeClockEnvelope()
	stream := NewProgressStream(w, env, WithTotalSteps(3))

	for i := 1; i <= 3; i++ {
		env.SetField("step_name", i)
		require.NoError(t, stream.Flush())
	}

	body := w.Body.String()
	assert.Equal(t, byte('['), body[0])
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	// Wrapping the flushed stream with a closing bracket yields a valid
	// three-element array of envelopes.
	var frames []map[string]any
	require.NoError(t, json.Unmarshal([]byte(body+"]"), &frames))
	require.Len(t, frames, 3)

	for i, frame := range frames {
		assert.Equal(t, true, frame["progress"])
		assert.Equal(t, float64(i+1), frame["progress_step"])
		assert.Equal(t, float64(3), frame["progress_total_steps"])
		assert.Equal(t, "ok", frame["status"])
		assert.Equal(t, float64(200), frame["code"])
		assert.NotContains(t, frame, "progress_end")

		result := frame["result"].(map[string]any)
		assert.Equal(t, float64(i+1), result["step_name"])
	}
}

func TestProgressStream_End(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	env := newFakeClockEnvelope()
	stream := NewProgressStream(w, env)

	env.SetField("message", "working")
	require.NoError(t, stream.Flush())

	env.SetField("message", "done")
	require.NoError(t, stream.End())

	var frames []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &frames))
	require.Len(t, frames, 2)

	assert.NotContains(t, frames[0], "progress_end")
	assert.Equal(t, true, frames[1]["progress_end"])
	assert.Equal(t, nil, frames[0]["progress_total_steps"])

	// The stream rejects further writes after End.
	assert.Error(t, stream.Flush())
}

func TestProgressStream_ClearsEnvelopeBetweenSteps(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	env := newFakeClockEnvelope()
	stream := NewProgressStream(w, env)

	env.SetField("first", true)
	require.NoError(t, stream.Flush())

	// Nothing carried over from the first step.
	require.NoError(t, stream.End())

	var frames []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &frames))
	require.Len(t, frames, 2)
	assert.Nil(t, frames[1]["result"])
}

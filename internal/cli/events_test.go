package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleStream = "event: connected\nid: 0\ndata: {\"score\":0}\n\n" +
	": keepalive\n\n" +
	"event: fragment\nid: 1\ndata: <div id=\"timer\">\ndata: 89</div>\n\n" +
	"event: timer_tick\nid: 2\ndata: {\"remaining\":89}\n\n" +
	"event: session_closed\nid: 3\ndata: {\"status\":\"closed\"}\n\n"

func TestReadEventsParsesFrames(t *testing.T) {
	var got []SSEEvent
	err := readEvents(strings.NewReader(sampleStream), func(evt SSEEvent) bool {
		got = append(got, evt)
		return true
	})
	require.NoError(t, err)

	require.Len(t, got, 4)
	assert.Equal(t, "connected", got[0].Event)
	assert.Equal(t, "0", got[0].ID)
	assert.Equal(t, "<div id=\"timer\">\n89</div>", got[1].Data)
	assert.Equal(t, "2", got[2].ID)
	assert.Equal(t, "session_closed", got[3].Event)
}

func TestReadEventsStopsWhenCallbackDeclines(t *testing.T) {
	var names []string
	err := readEvents(strings.NewReader(sampleStream), func(evt SSEEvent) bool {
		names = append(names, evt.Event)
		return evt.Event != "timer_tick"
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"connected", "fragment", "timer_tick"}, names)
}

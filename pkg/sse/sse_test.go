package sse

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventMarshalTo(t *testing.T) {
	var buf bytes.Buffer
	event := Event{
		Event: []byte("collection"),
		Data:  []byte(`{"job_id":"j1"}`),
	}
	require.NoError(t, event.MarshalTo(&buf))
	assert.Equal(t, "event: collection\ndata: {\"job_id\":\"j1\"}\n\n", buf.String())
}

func TestEventMarshalTo_PingWithoutName(t *testing.T) {
	var buf bytes.Buffer
	event := Event{Data: []byte("")}
	require.NoError(t, event.MarshalTo(&buf))
	assert.Equal(t, "data: \n\n", buf.String())
}

package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPublisherRecordsEvents(t *testing.T) {
	t.Parallel()

	pub := New()
	id1, err := pub.Publish(context.Background(), "topic-a", map[string]string{"k": "v"})
	require.NoError(t, err)
	require.Equal(t, "local-1", id1)

	id2, err := pub.Publish(context.Background(), "topic-b", "payload")
	require.NoError(t, err)
	require.Equal(t, "local-2", id2)

	require.Equal(t, []string{"topic-a", "topic-b"}, pub.Topics())

	events := pub.Events()
	require.Len(t, events, 2)
	events[0].Topic = "modified"
	require.Equal(t, "topic-a", pub.Events()[0].Topic)
}

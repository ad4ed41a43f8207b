package ws

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// dialTestClient connects a websocket client and waits until the hub
// has registered it.
func dialTestClient(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	require.Equal(t, 1, hub.ClientCount())
	return conn
}

// =============================================================================
// Hub Broadcast Tests
// =============================================================================

func TestHubBroadcastsDefaultTopics(t *testing.T) {
	tests := []struct {
		topic   string
		msgType string
	}{
		{topic: "threats", msgType: "feed_refresh"},
		{topic: "vulnerabilities", msgType: "vuln_refresh"},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			hub := NewHub(testLogger())
			go hub.Run()
			conn := dialTestClient(t, hub)

			hub.BroadcastToTopic(tt.topic, tt.msgType, map[string]string{"sample": "payload"})

			conn.SetReadDeadline(time.Now().Add(2 * time.Second))
			_, data, err := conn.ReadMessage()
			require.NoError(t, err)

			var msg Message
			require.NoError(t, json.Unmarshal(data, &msg))
			assert.Equal(t, tt.msgType, msg.Type)
			assert.NotEmpty(t, msg.Timestamp)
		})
	}
}

func TestHubSkipsUnsubscribedTopic(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()
	conn := dialTestClient(t, hub)

	require.NoError(t, conn.WriteJSON(map[string]string{"action": "unsubscribe", "topic": "vulnerabilities"}))
	time.Sleep(50 * time.Millisecond) // let the read pump apply the change

	hub.BroadcastToTopic("vulnerabilities", "vuln_refresh", nil)
	hub.BroadcastToTopic("threats", "feed_refresh", nil)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "feed_refresh", msg.Type)
}

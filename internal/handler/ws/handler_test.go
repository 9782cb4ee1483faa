package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/career-companion/backend/internal/analysis/intent"
	"github.com/zhouzirui/career-companion/backend/internal/model/reply"
	chatservice "github.com/zhouzirui/career-companion/backend/internal/service/chat"
)

type frame struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId"`
	Data      json.RawMessage `json:"data"`
}

func setupServer(t *testing.T) (*httptest.Server, *chatservice.Service) {
	t.Helper()
	chatSvc := chatservice.NewService(reply.Seed(), nil, chatservice.WithReplyDelay(time.Millisecond))
	r := chi.NewRouter()
	New(chatSvc, nil).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	t.Cleanup(chatSvc.Close)
	return srv, chatSvc
}

func dial(t *testing.T, srv *httptest.Server, sessionID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + sessionID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	var f frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestWebSocketChatRoundTrip(t *testing.T) {
	srv, chatSvc := setupServer(t)
	session := chatSvc.CreateSession(context.Background())
	conn := dial(t, srv, session.ID)

	first := readFrame(t, conn)
	assert.Equal(t, "transcript", first.Type)
	assert.Equal(t, session.ID, first.SessionID)

	require.NoError(t, conn.WriteJSON(InboundMessage{Type: "submit", Text: "Which career path is best for me?"}))

	user := readFrame(t, conn)
	require.Equal(t, "message", user.Type)
	assert.Contains(t, string(user.Data), `"sender":"user"`)

	assert.Equal(t, "typing", readFrame(t, conn).Type)

	assistant := readFrame(t, conn)
	require.Equal(t, "message", assistant.Type)
	var msg struct {
		Sender string `json:"sender"`
		Text   string `json:"text"`
	}
	require.NoError(t, json.Unmarshal(assistant.Data, &msg))
	assert.Equal(t, "assistant", msg.Sender)
	assert.Equal(t, reply.Seed().Table.Resolve(intent.Career), msg.Text)
}

func TestWebSocketRejectsBlankAndUnknownFrames(t *testing.T) {
	srv, chatSvc := setupServer(t)
	session := chatSvc.CreateSession(context.Background())
	conn := dial(t, srv, session.ID)
	readFrame(t, conn)

	require.NoError(t, conn.WriteJSON(InboundMessage{Type: "submit", Text: "  "}))
	assert.Equal(t, "error", readFrame(t, conn).Type)

	require.NoError(t, conn.WriteJSON(InboundMessage{Type: "dance"}))
	assert.Equal(t, "error", readFrame(t, conn).Type)

	transcript, err := chatSvc.LoadTranscript(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Len(t, transcript, 1)
}

func TestWebSocketUnknownSession(t *testing.T) {
	srv, _ := setupServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/missing"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

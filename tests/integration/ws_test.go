//go:build integration
// +build integration

package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	wsmsg "github.com/gokatarajesh/vitaena/pkg/http/ws"
)

func TestWebSocketProgressUpdates(t *testing.T) {
	baseWS := envOrDefault("INTEGRATION_WS_URL", "ws://localhost:8080/ws/progress")

	conn := dialProgressWS(t, baseWS, "numbers")
	defer conn.Close()

	view := visit(t, "numbers", "2")
	sessionPath := fmt.Sprintf("/v1/sessions/%s", view.SessionID)
	doJSON(t, http.MethodPost, sessionPath+"/responses", map[string]interface{}{"slot": 0, "value": "4"}, http.StatusOK, nil)
	doJSON(t, http.MethodPost, sessionPath+"/check", nil, http.StatusOK, nil)

	update := waitForProgress(t, conn, "2", 5*time.Second)
	if update.TopicSlug != "numbers" || update.Incorrect == 0 {
		t.Fatalf("unexpected progress update: %+v", update)
	}
}

func dialProgressWS(t *testing.T, wsBase, topic string) *websocket.Conn {
	t.Helper()

	u, err := url.Parse(wsBase)
	if err != nil {
		t.Fatalf("invalid WS url: %v", err)
	}
	q := u.Query()
	q.Set("topic", topic)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	return conn
}

func waitForProgress(t *testing.T, conn *websocket.Conn, exerciseID string, timeout time.Duration) wsmsg.ProgressUpdatePayload {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(deadline)
		var msg wsmsg.Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read websocket message: %v", err)
		}
		if msg.Type != wsmsg.TypeProgressUpdate {
			continue
		}
		var payload wsmsg.ProgressUpdatePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			t.Fatalf("decode progress payload: %v", err)
		}
		if payload.ExerciseID == exerciseID {
			return payload
		}
	}
	t.Fatalf("timed out waiting for progress update on %s", exerciseID)
	return wsmsg.ProgressUpdatePayload{}
}

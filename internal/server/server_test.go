package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"amber-server/internal/engine"
	"amber-server/pkg/api"
	"amber-server/pkg/logger"

	"github.com/gorilla/websocket"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := engine.NewConfig()
	cfg.TickInterval = 5 * time.Millisecond
	svc, err := engine.NewService(cfg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return New(svc, "0")
}

func TestRoutes(t *testing.T) {
	router := newTestServer(t).Router()

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"health", "/health", http.StatusOK, "ok"},
		{"version", "/version", http.StatusOK, `"goVersion"`},
		{"sessions empty", "/debug/sessions", http.StatusOK, "[]"},
		{"missing session", "/debug/sessions/nope", http.StatusNotFound, "session not found"},
		{"balance", "/debug/balance", http.StatusOK, `"arena"`},
		{"replays", "/debug/replays", http.StatusOK, "[]"},
		{"stats", "/debug/stats", http.StatusOK, `"subscribers":0`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %s, want %s", rec.Body.String(), tt.wantBody)
			}
			if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
				t.Error("missing CORS header")
			}
		})
	}
}

func TestWebsocketEncounter(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(api.ClientCommand{Token: "ws1"}); err != nil {
		t.Fatal(err)
	}
	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatal(err)
	}

	var msg api.ServerResponse
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read INIT: %v", err)
	}
	if msg.Type != engine.MsgInit || msg.SessionID != "ws1" || msg.Arena == nil {
		t.Fatalf("first message = %+v", msg)
	}

	if _, ok := s.Engine.Session("ws1"); !ok {
		t.Fatal("session not registered")
	}

	payload, _ := json.Marshal(api.AbilityPayload{Ability: "break-free"})
	if err := conn.WriteJSON(api.ClientCommand{Action: "ABILITY", Payload: payload}); err != nil {
		t.Fatal(err)
	}

	for {
		var m api.ServerResponse
		if err := conn.ReadJSON(&m); err != nil {
			t.Fatalf("read: %v", err)
		}
		if m.Type != engine.MsgEnd {
			continue
		}
		if m.Result == nil || m.Result.Outcome != "success" || m.Result.Reason == "" {
			t.Errorf("END = %+v", m.Result)
		}
		break
	}
}

func dialSession(t *testing.T, url, token string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if err := conn.WriteJSON(api.ClientCommand{Token: token}); err != nil {
		t.Fatal(err)
	}
	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatal(err)
	}
	for {
		var msg api.ServerResponse
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read INIT: %v", err)
		}
		if msg.Type == engine.MsgInit {
			return conn
		}
	}
}

func TestWebsocketReconnectReplacesSession(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	first := dialSession(t, url, "tok")
	defer first.Close()
	second := dialSession(t, url, "tok")
	defer second.Close()

	// Старое соединение закрывается сервером
	for {
		var m api.ServerResponse
		if err := first.ReadJSON(&m); err != nil {
			break
		}
	}

	time.Sleep(200 * time.Millisecond)
	if _, ok := s.Engine.Session("tok"); !ok {
		t.Fatal("reconnected session was closed by the old connection")
	}

	payload, _ := json.Marshal(api.AbilityPayload{Ability: "break-free"})
	if err := second.WriteJSON(api.ClientCommand{Action: "ABILITY", Payload: payload}); err != nil {
		t.Fatal(err)
	}
	for {
		var m api.ServerResponse
		if err := second.ReadJSON(&m); err != nil {
			t.Fatalf("new connection lost: %v", err)
		}
		if m.Type == engine.MsgEnd {
			if m.Result == nil || m.Result.Outcome != "success" {
				t.Errorf("END = %+v", m.Result)
			}
			break
		}
	}
}

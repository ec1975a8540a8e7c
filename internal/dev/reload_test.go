package dev

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialReload(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return conn
}

func waitForClients(t *testing.T, rs *ReloadServer, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for rs.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("client count = %d, want %d", rs.ClientCount(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestReloadBroadcast(t *testing.T) {
	rs := NewReloadServer()
	defer rs.Close()
	srv := httptest.NewServer(http.HandlerFunc(rs.HandleWebSocket))
	defer srv.Close()

	conn := dialReload(t, srv)
	defer conn.Close()
	waitForClients(t, rs, 1)

	rs.NotifyReload()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg ReloadMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Type != ReloadTypeFull {
		t.Errorf("type = %q", msg.Type)
	}
}

func TestReloadCSSMessage(t *testing.T) {
	rs := NewReloadServer()
	defer rs.Close()
	srv := httptest.NewServer(http.HandlerFunc(rs.HandleWebSocket))
	defer srv.Close()

	conn := dialReload(t, srv)
	defer conn.Close()
	waitForClients(t, rs, 1)

	rs.NotifyCSS("styles.css")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg ReloadMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Type != ReloadTypeCSS || msg.File != "styles.css" {
		t.Errorf("msg = %+v", msg)
	}
}

func TestReloadClientDisconnect(t *testing.T) {
	rs := NewReloadServer()
	defer rs.Close()
	srv := httptest.NewServer(http.HandlerFunc(rs.HandleWebSocket))
	defer srv.Close()

	conn := dialReload(t, srv)
	waitForClients(t, rs, 1)
	conn.Close()
	waitForClients(t, rs, 0)
}

func TestClientScriptMentionsEndpoint(t *testing.T) {
	if !strings.Contains(ClientScript, ReloadPath) {
		t.Error("client snippet must dial the reload endpoint")
	}
}

package chat

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send: make(chan []byte, 10),
		Room: "room1",
	}

	hub.register <- client

	msg := outboundPayload{Action: "chat", Content: "hello test"}
	data, _ := json.Marshal(msg)
	hub.broadcast <- broadcastMsg{Room: "room1", Data: data}

	select {
	case got := <-client.Send:
		if string(got) != string(data) {
			t.Fatalf("expected %s, got %s", data, got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	hub.unregister <- client
}

func TestBroadcastIsScopedToRoom(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	a := &Client{Send: make(chan []byte, 10), Room: "a"}
	b := &Client{Send: make(chan []byte, 10), Room: "b"}
	hub.register <- a
	hub.register <- b

	hub.broadcast <- broadcastMsg{Room: "a", Data: []byte("only-a")}

	select {
	case got := <-a.Send:
		if string(got) != "only-a" {
			t.Fatalf("unexpected payload %q", got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	select {
	case got := <-b.Send:
		t.Fatalf("room b should not receive %q", got)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestMatchReply(t *testing.T) {
	cases := []struct {
		message string
		want    string
	}{
		{"Where can I find a good HOTEL in Kyoto?", "hotels and ryokan"},
		{"how do I export a pdf", "Export PDF"},
		{"what about the shinkansen?", "transport tickets"},
		{"asdfghjkl", "did not understand"},
	}

	for _, tc := range cases {
		got := MatchReply(tc.message)
		if !strings.Contains(got, tc.want) {
			t.Errorf("MatchReply(%q) = %q, want it to contain %q", tc.message, got, tc.want)
		}
	}
}

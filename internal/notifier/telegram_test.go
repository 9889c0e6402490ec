package notifier

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pfrederiksen/liquipedia-results/internal/tournament"
)

func testTelegram(t *testing.T, handler http.HandlerFunc) *TelegramNotifier {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	originalURL := telegramBaseURL
	telegramBaseURL = server.URL + "/bot"
	t.Cleanup(func() { telegramBaseURL = originalURL })

	return &TelegramNotifier{botToken: "test-token", chatID: "12345", httpClient: &http.Client{}}
}

func TestTelegramNotifier(t *testing.T) {
	var payloads []map[string]interface{}

	n := testTelegram(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if r.URL.Path != "/bottest-token/sendMessage" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected Content-Type application/json, got %s", r.Header.Get("Content-Type"))
		}

		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
		payloads = append(payloads, payload)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": true, "result": {"message_id": 1}}`)) // nolint:errcheck
	})

	err := n.Notify([]*tournament.Tournament{decided("/aoe/A", "Cup <A> & B", "Hera")})
	if err != nil {
		t.Fatalf("Notify() error = %v", err)
	}

	if len(payloads) != 1 {
		t.Fatalf("sent %d messages, want 1", len(payloads))
	}
	if payloads[0]["chat_id"] != "12345" || payloads[0]["parse_mode"] != "HTML" {
		t.Errorf("unexpected payload %v", payloads[0])
	}
	text, _ := payloads[0]["text"].(string)
	if !strings.HasPrefix(text, "🏆 <b>Cup &lt;A&gt; &amp; B</b>\n") {
		t.Errorf("text = %q", text)
	}
}

func TestTelegramNotifier_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"api error", http.StatusOK, `{"ok": false, "description": "Bad Request: chat not found"}`, "chat not found"},
		{"http error", http.StatusUnauthorized, `{"ok": false}`, "status 401"},
		{"invalid json", http.StatusOK, `not json`, "parsing response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := testTelegram(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body)) // nolint:errcheck
			})

			err := n.Notify([]*tournament.Tournament{decided("/aoe/A", "Cup", "Hera")})
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Notify() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewTelegramNotifier(t *testing.T) {
	if _, err := NewTelegramNotifier("", "1"); err == nil {
		t.Error("expected error for missing token")
	}
	if _, err := NewTelegramNotifier("token", ""); err == nil {
		t.Error("expected error for missing chat")
	}
	if n, err := NewTelegramNotifier("token", "1"); err != nil || n == nil {
		t.Errorf("NewTelegramNotifier() = %v, %v", n, err)
	}
}

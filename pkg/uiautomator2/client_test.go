package uiautomator2

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClientForURL(server.URL)
	return client, server
}

func TestStatus(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/status" {
			t.Errorf("expected /status, got %s", r.URL.Path)
		}
		if r.Method != "GET" {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"value": map[string]interface{}{
				"ready":   true,
				"message": "ready",
			},
		}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
	defer server.Close()

	ready, err := client.Status()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ready {
		t.Error("expected ready to be true")
	}
}

func TestStatusNotReady(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"value": map[string]interface{}{
				"ready":   false,
				"message": "instrumentation still starting",
			},
		}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
	defer server.Close()

	ready, err := client.Status()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ready {
		t.Error("expected ready to be false")
	}
}

func TestCreateSession(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/session" {
			t.Errorf("expected /session, got %s", r.URL.Path)
		}
		if r.Method != "POST" {
			t.Errorf("expected POST, got %s", r.Method)
		}

		var req SessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Capabilities.PlatformName != "Android" {
			t.Errorf("expected Android, got %s", req.Capabilities.PlatformName)
		}

		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"sessionId": "test-session-123",
		}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
	defer server.Close()

	err := client.CreateSession(Capabilities{PlatformName: "Android"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.SessionID() != "test-session-123" {
		t.Errorf("expected test-session-123, got %s", client.SessionID())
	}
}

func TestCreateSessionValueWrappedFormat(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"value": map[string]interface{}{
				"sessionId": "wrapped-session-456",
			},
		}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
	defer server.Close()

	err := client.CreateSession(Capabilities{PlatformName: "Android"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.SessionID() != "wrapped-session-456" {
		t.Errorf("expected wrapped-session-456, got %s", client.SessionID())
	}
}

func TestCreateSessionNoID(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewEncoder(w).Encode(map[string]interface{}{}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
	defer server.Close()

	if err := client.CreateSession(Capabilities{}); err == nil {
		t.Error("expected error when response has no session ID")
	}
}

func TestDeleteSession(t *testing.T) {
	deleted := false
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "DELETE" && r.URL.Path == "/session/sess-1" {
			deleted = true
		}
		if err := json.NewEncoder(w).Encode(map[string]interface{}{"value": nil}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
	defer server.Close()

	client.SetSession("sess-1")
	if err := client.DeleteSession(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Error("expected DELETE /session/sess-1")
	}
	if client.HasSession() {
		t.Error("expected session to be cleared")
	}
}

func TestDeleteSessionWithoutSession(t *testing.T) {
	client := NewClientForURL("http://127.0.0.1:0")
	if err := client.DeleteSession(); err != nil {
		t.Errorf("expected nil error without session, got %v", err)
	}
}

func TestServerError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"value": map[string]interface{}{
				"error":   "no such element",
				"message": "could not locate element",
			},
		}); err != nil {
			return
		}
	})
	defer server.Close()

	client.SetSession("sess-1")
	_, err := client.FindElement(StrategyAccessibilityID, "test-Username")
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	want := "no such element: could not locate element"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestSetImplicitWait(t *testing.T) {
	var got map[string]interface{}
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/session/sess-1/timeouts" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := json.NewEncoder(w).Encode(map[string]interface{}{"value": nil}); err != nil {
			return
		}
	})
	defer server.Close()

	client.SetSession("sess-1")
	if err := client.SetImplicitWait(5000000000); err != nil { // 5s
		t.Fatalf("unexpected error: %v", err)
	}
	if got["implicit"] != float64(5000) {
		t.Errorf("expected implicit 5000ms, got %v", got["implicit"])
	}
}

func TestSetImplicitWaitWithoutSession(t *testing.T) {
	client := NewClientForURL("http://127.0.0.1:0")
	if err := client.SetImplicitWait(0); err == nil {
		t.Error("expected error without session")
	}
}

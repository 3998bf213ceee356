package uiautomator2

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestFindElement(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/session/sess-1/element" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var req FindElementRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Strategy != StrategyAccessibilityID {
			t.Errorf("expected accessibility id strategy, got %s", req.Strategy)
		}
		if req.Selector != "test-Username" {
			t.Errorf("expected test-Username, got %s", req.Selector)
		}

		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"value": map[string]interface{}{"ELEMENT": "elem-42"},
		}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
	defer server.Close()

	client.SetSession("sess-1")
	el, err := client.FindElement(StrategyAccessibilityID, "test-Username")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if el.ID() != "elem-42" {
		t.Errorf("expected elem-42, got %s", el.ID())
	}
}

func TestFindElementEmptyResponse(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"value": map[string]interface{}{},
		}); err != nil {
			return
		}
	})
	defer server.Close()

	client.SetSession("sess-1")
	if _, err := client.FindElement(StrategyText, "PRODUCTS"); err == nil {
		t.Error("expected error for empty element response")
	}
}

func TestFindElements(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/session/sess-1/elements" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"value": []map[string]interface{}{
				{"ELEMENT": "e1"},
				{"ELEMENT": "e2"},
			},
		}); err != nil {
			return
		}
	})
	defer server.Close()

	client.SetSession("sess-1")
	els, err := client.FindElements(StrategyClassName, "android.widget.TextView")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(els) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(els))
	}
	if els[0].ID() != "e1" || els[1].ID() != "e2" {
		t.Errorf("unexpected element IDs: %s, %s", els[0].ID(), els[1].ID())
	}
}

func TestElementClick(t *testing.T) {
	clicked := false
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "POST" && r.URL.Path == "/session/sess-1/element/elem-1/click" {
			clicked = true
		}
		if err := json.NewEncoder(w).Encode(map[string]interface{}{"value": nil}); err != nil {
			return
		}
	})
	defer server.Close()

	client.SetSession("sess-1")
	el := NewTestElement("elem-1", client)
	if err := el.Click(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !clicked {
		t.Error("expected click request")
	}
}

func TestElementSendKeys(t *testing.T) {
	var req InputTextRequest
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/session/sess-1/element/elem-1/value" {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}
		if err := json.NewEncoder(w).Encode(map[string]interface{}{"value": nil}); err != nil {
			return
		}
	})
	defer server.Close()

	client.SetSession("sess-1")
	el := NewTestElement("elem-1", client)
	if err := el.SendKeys("standard_user"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Text != "standard_user" {
		t.Errorf("expected standard_user, got %s", req.Text)
	}
}

func TestElementText(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/session/sess-1/element/elem-1/text" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"value": "PRODUCTS",
		}); err != nil {
			return
		}
	})
	defer server.Close()

	client.SetSession("sess-1")
	el := NewTestElement("elem-1", client)
	text, err := el.Text()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "PRODUCTS" {
		t.Errorf("expected PRODUCTS, got %s", text)
	}
}

func TestElementIsDisplayed(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/session/sess-1/element/elem-1/attribute/displayed" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"value": "true",
		}); err != nil {
			return
		}
	})
	defer server.Close()

	client.SetSession("sess-1")
	el := NewTestElement("elem-1", client)
	displayed, err := el.IsDisplayed()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !displayed {
		t.Error("expected element to be displayed")
	}
}

func TestElementRect(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"value": map[string]int{"x": 10, "y": 20, "width": 100, "height": 50},
		}); err != nil {
			return
		}
	})
	defer server.Close()

	client.SetSession("sess-1")
	el := NewTestElement("elem-1", client)
	rect, err := el.Rect()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rect.X != 10 || rect.Y != 20 || rect.Width != 100 || rect.Height != 50 {
		t.Errorf("unexpected rect: %+v", rect)
	}
}

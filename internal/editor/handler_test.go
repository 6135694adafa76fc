package editor

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T, coll *fakeCollection) *httptest.Server {
	t.Helper()
	handler := NewHandler("items", func(r *http.Request) string {
		return r.Header.Get("X-Test-Session")
	}, func() *Session[testItem] {
		return NewSession(Options[testItem]{
			Collection: coll,
			Schema:     testSchema(),
			SortKey:    func(r testItem) string { return r.Name },
		})
	})

	mux := http.NewServeMux()
	handler.Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path string, body map[string]any) (int, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, srv.URL+path, bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("X-Test-Session", "session-1")
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return resp.StatusCode, decoded
}

func TestHandlerConfirmRoundTrip(t *testing.T) {
	coll := newFakeCollection(
		testItem{ID: 1, Name: "Arepa"},
		testItem{ID: 2, Name: "Bandeja"},
	)
	srv := newTestServer(t, coll)
	base := "/api/admin/edit/items"

	// Select record 1 and dirty it.
	if code, _ := post(t, srv, base+"/select", map[string]any{"id": 1}); code != http.StatusOK {
		t.Fatalf("Select failed with %d", code)
	}
	if code, _ := post(t, srv, base+"/field", map[string]any{"id": 1, "field": "name", "value": "Arepa v2"}); code != http.StatusOK {
		t.Fatalf("Field edit failed with %d", code)
	}

	// Switching without confirm answers 409 with the prompt.
	code, body := post(t, srv, base+"/select", map[string]any{"id": 2})
	if code != http.StatusConflict {
		t.Fatalf("Expected 409, got %d (%v)", code, body)
	}
	prompt, ok := body["confirm"].(map[string]any)
	if !ok || prompt["title"] == "" {
		t.Fatalf("Expected prompt in response, got %v", body)
	}

	// Declining keeps the draft and selection.
	code, body = post(t, srv, base+"/select", map[string]any{"id": 2, "confirm": false})
	if code != http.StatusOK {
		t.Fatalf("Declined select failed with %d", code)
	}
	if body["selected"].(float64) != 1 {
		t.Errorf("Selection changed after decline: %v", body["selected"])
	}
	if dirty := body["dirty"].([]any); len(dirty) != 1 {
		t.Errorf("Draft lost after decline: %v", dirty)
	}

	// Confirming discards the draft and switches.
	code, body = post(t, srv, base+"/select", map[string]any{"id": 2, "confirm": true})
	if code != http.StatusOK {
		t.Fatalf("Confirmed select failed with %d", code)
	}
	if body["selected"].(float64) != 2 {
		t.Errorf("Expected selection 2, got %v", body["selected"])
	}
	if dirty := body["dirty"].([]any); len(dirty) != 0 {
		t.Errorf("Draft survived confirmed switch: %v", dirty)
	}
}

func TestHandlerSaveFlow(t *testing.T) {
	coll := newFakeCollection(testItem{ID: 1, Name: "Arepa"})
	srv := newTestServer(t, coll)
	base := "/api/admin/edit/items"

	// Saving with no draft is a friendly no-op.
	code, body := post(t, srv, base+"/save", map[string]any{"id": 1})
	if code != http.StatusOK || body["notice"] == nil {
		t.Fatalf("Expected notice response, got %d %v", code, body)
	}

	post(t, srv, base+"/field", map[string]any{"id": 1, "field": "name", "value": "  Arepa v2 "})
	code, body = post(t, srv, base+"/save", map[string]any{"id": 1})
	if code != http.StatusOK {
		t.Fatalf("Save failed with %d: %v", code, body)
	}
	item := body["item"].(map[string]any)
	if item["name"] != "Arepa v2" {
		t.Errorf("Expected normalized name, got %v", item["name"])
	}

	// Blank required field comes back as a 400 naming the field.
	post(t, srv, base+"/field", map[string]any{"id": 1, "field": "name", "value": " "})
	code, body = post(t, srv, base+"/save", map[string]any{"id": 1})
	if code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d (%v)", code, body)
	}
	if body["field"] != "name" {
		t.Errorf("Expected failing field in response, got %v", body)
	}
}

func TestHandlerMissingSession(t *testing.T) {
	coll := newFakeCollection()
	srv := newTestServer(t, coll)

	resp, err := http.Get(srv.URL + "/api/admin/edit/items/records")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected 401 without session token, got %d", resp.StatusCode)
	}
}

func TestHandlerDelete(t *testing.T) {
	coll := newFakeCollection(testItem{ID: 1, Name: "Arepa"})
	srv := newTestServer(t, coll)
	base := "/api/admin/edit/items"

	code, body := post(t, srv, base+"/delete", map[string]any{"id": 1})
	if code != http.StatusConflict {
		t.Fatalf("Expected 409 without confirm, got %d (%v)", code, body)
	}

	code, body = post(t, srv, base+"/delete", map[string]any{"id": 1, "confirm": true})
	if code != http.StatusOK {
		t.Fatalf("Delete failed with %d: %v", code, body)
	}
	if items := body["items"].([]any); len(items) != 0 {
		t.Errorf("Record survived delete: %v", items)
	}

	code, _ = post(t, srv, base+"/delete", map[string]any{"id": 1, "confirm": true})
	if code != http.StatusNotFound {
		t.Errorf("Expected 404 for vanished record, got %d", code)
	}
}

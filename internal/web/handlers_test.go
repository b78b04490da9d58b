package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stationcms/import-service/internal/config"
	"github.com/stationcms/import-service/internal/core"
	_ "github.com/stationcms/import-service/internal/core/kinds"
	"github.com/stationcms/import-service/internal/store"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:           "127.0.0.1",
			Port:           8080,
			RequestTimeout: 10 * time.Second,
		},
		Import: config.ImportConfig{
			MaxPayloadSize: 1 << 20,
			ListLimit:      50,
			ListLimitMax:   500,
		},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) (*Server, *store.Memory) {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	mem := store.NewMemory()
	return NewServer(core.NewService(mem), mem, cfg), mem
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestHandleImport_Success(t *testing.T) {
	srv, mem := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/import", ImportRequest{
		RecordKind: "visitors",
		RawText:    "name,email\nJohn,john@x.com\nMary,mary@x.com\n",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var result core.ImportResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !result.Success || result.ImportedCount != 2 || result.ErrorCount != 0 {
		t.Errorf("result = %+v, want success with 2 imported", result)
	}

	count, _ := mem.CountDocuments(context.Background(), "visitors", nil)
	if count != 2 {
		t.Errorf("stored = %d, want 2", count)
	}
}

// A validation failure is still a 200: the batch was understood, just
// rejected.
func TestHandleImport_ValidationFailure(t *testing.T) {
	srv, mem := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/import", ImportRequest{
		RecordKind: "donations",
		RawText:    "donor_name,amount,amount_currency\nJohn,abc,USD\n",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result core.ImportResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Success || result.ImportedCount != 0 || result.ErrorCount != 1 {
		t.Errorf("result = %+v, want rejected batch", result)
	}
	if len(result.ValidationErrors) != 1 ||
		result.ValidationErrors[0] != "Row 2: Amount must be numeric: abc" {
		t.Errorf("ValidationErrors = %v", result.ValidationErrors)
	}

	count, _ := mem.CountDocuments(context.Background(), "donations", nil)
	if count != 0 {
		t.Errorf("stored = %d, want 0", count)
	}
}

func TestHandleImport_BadRequests(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	tests := []struct {
		name    string
		body    any
		raw     string
		wantErr string
	}{
		{
			name:    "unsupported kind",
			body:    ImportRequest{RecordKind: "podcasts", RawText: "a\n1\n"},
			wantErr: "unsupported record kind",
		},
		{
			name:    "empty payload",
			body:    ImportRequest{RecordKind: "visitors", RawText: ""},
			wantErr: "empty",
		},
		{
			name:    "invalid JSON",
			raw:     "{not json",
			wantErr: "invalid JSON body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec *httptest.ResponseRecorder
			if tt.raw != "" {
				req := httptest.NewRequest(http.MethodPost, "/api/import", strings.NewReader(tt.raw))
				rec = httptest.NewRecorder()
				srv.Router().ServeHTTP(rec, req)
			} else {
				rec = doJSON(t, srv, http.MethodPost, "/api/import", tt.body)
			}

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body: %s)", rec.Code, rec.Body.String())
			}
			var resp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if !strings.Contains(resp.Error, tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", resp.Error, tt.wantErr)
			}
		})
	}
}

func TestHandleImport_PayloadTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.Import.MaxPayloadSize = 64
	srv, _ := newTestServer(t, cfg)

	rec := doJSON(t, srv, http.MethodPost, "/api/import", ImportRequest{
		RecordKind: "visitors",
		RawText:    strings.Repeat("x", 256),
	})

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestHandleListKinds(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodGet, "/api/kinds", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var kinds []kindResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &kinds); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(kinds) != core.KindCount() {
		t.Fatalf("len(kinds) = %d, want %d", len(kinds), core.KindCount())
	}

	byKey := make(map[string]kindResponse, len(kinds))
	for _, k := range kinds {
		byKey[k.Key] = k
	}
	visitors, ok := byKey["visitors"]
	if !ok {
		t.Fatal("visitors kind missing from listing")
	}
	if visitors.Collection != "visitors" || len(visitors.Columns) == 0 {
		t.Errorf("visitors = %+v, want collection and columns populated", visitors)
	}
	if len(visitors.Required) != 2 {
		t.Errorf("visitors required = %v, want [name email]", visitors.Required)
	}
}

func TestHandleDownloadTemplate(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodGet, "/api/template/donations", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "donations_template.csv") {
		t.Errorf("Content-Disposition = %q, want donations_template.csv", cd)
	}
	header := strings.TrimSpace(rec.Body.String())
	if !strings.HasPrefix(header, "donor_name,amount,amount_currency") {
		t.Errorf("template header = %q, want donation columns", header)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/template/podcasts", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown kind status = %d, want 404", rec.Code)
	}
}

func TestHandleListRecords(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	doJSON(t, srv, http.MethodPost, "/api/import", ImportRequest{
		RecordKind: "users_roles",
		RawText:    "email,role\na@x.com,admin\nb@x.com,editor\nc@x.com,viewer\n",
	})

	rec := doJSON(t, srv, http.MethodGet, "/api/records/users_roles?limit=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Kind    string           `json:"kind"`
		Count   int              `json:"count"`
		Records []store.Document `json:"records"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Kind != "users_roles" || resp.Count != 2 || len(resp.Records) != 2 {
		t.Fatalf("resp = %+v, want 2 records", resp)
	}
	// Newest first.
	if resp.Records[0]["email"] != "c@x.com" {
		t.Errorf("records[0] email = %v, want c@x.com", resp.Records[0]["email"])
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/records/podcasts", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown kind status = %d, want 404", rec.Code)
	}
}

func TestHandleListRecords_EmptyCollection(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodGet, "/api/records/stories", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"records":[]`) {
		t.Errorf("body = %s, want empty array not null", rec.Body.String())
	}
}

func TestHandleStats(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	doJSON(t, srv, http.MethodPost, "/api/import", ImportRequest{
		RecordKind: "visitors",
		RawText:    "name,email\nJohn,john@x.com\n",
	})
	doJSON(t, srv, http.MethodPost, "/api/import", ImportRequest{
		RecordKind: "tasks_reminders",
		RawText:    "title\nCall sponsor\nFix antenna\n",
	})

	rec := doJSON(t, srv, http.MethodGet, "/api/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Collections map[string]int64 `json:"collections"`
		Total       int64            `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Collections["visitors"] != 1 || resp.Collections["tasks_reminders"] != 2 {
		t.Errorf("collections = %v, want visitors=1 tasks_reminders=2", resp.Collections)
	}
	if resp.Total != 3 {
		t.Errorf("total = %d, want 3", resp.Total)
	}
	if len(resp.Collections) != core.KindCount() {
		t.Errorf("len(collections) = %d, want %d (every kind listed)", len(resp.Collections), core.KindCount())
	}
}

func TestHandleHealth(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := doJSON(t, srv, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s, want status ok", rec.Body.String())
	}
}

func TestAPIKeyAuth(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RequireAPIKey = true
	cfg.Security.APIKeys = []string{"station-key"}
	srv, _ := newTestServer(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/kinds", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no key status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/kinds", nil)
	req.Header.Set("X-API-Key", "wrong-key")
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("wrong key status = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/kinds", nil)
	req.Header.Set("X-API-Key", "station-key")
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("valid key status = %d, want 200", rec.Code)
	}

	// Health stays open for probes.
	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d, want 200", rec.Code)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)

	if !rl.allow("10.0.0.1") || !rl.allow("10.0.0.1") {
		t.Fatal("first two requests should be allowed")
	}
	if rl.allow("10.0.0.1") {
		t.Error("third request within window should be denied")
	}
	// Other IPs keep their own bucket.
	if !rl.allow("10.0.0.2") {
		t.Error("different IP should be allowed")
	}
}

package web

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/stationcms/import-service/internal/core"
	"github.com/stationcms/import-service/internal/store"
)

// ImportRequest is the JSON body accepted by the import endpoint.
type ImportRequest struct {
	RecordKind string `json:"record_kind"`
	RawText    string `json:"raw_text"`
}

// handleImport runs one bulk import call. Input-shape problems return a
// 400; anything that reached validation returns a 200 with the structured
// result, whether or not the batch was accepted.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxPayloadSize)

	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("payload exceeds %d bytes", s.cfg.Import.MaxPayloadSize))
			return
		}
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := s.service.Import(r.Context(), req.RecordKind, req.RawText)
	if err != nil {
		var badReq *core.BadRequestError
		if errors.As(err, &badReq) {
			writeError(w, r, http.StatusBadRequest, badReq.Message)
			return
		}
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, r, result)
}

// kindResponse describes one importable record kind.
type kindResponse struct {
	Key        string   `json:"key"`
	Label      string   `json:"label"`
	Group      string   `json:"group"`
	Collection string   `json:"collection"`
	Columns    []string `json:"columns"`
	Required   []string `json:"required"`
}

// handleListKinds returns all importable record kinds with their columns.
func (s *Server) handleListKinds(w http.ResponseWriter, r *http.Request) {
	defs := core.All()
	kinds := make([]kindResponse, len(defs))
	for i, def := range defs {
		required := def.RequiredFields()
		if required == nil {
			required = []string{}
		}
		kinds[i] = kindResponse{
			Key:        def.Info.Key,
			Label:      def.Info.Label,
			Group:      def.Info.Group,
			Collection: def.Info.Collection,
			Columns:    def.Info.Columns,
			Required:   required,
		}
	}
	writeJSON(w, r, kinds)
}

// handleDownloadTemplate returns a CSV header template for a kind, so
// operators can start from the exact column set the importer expects.
func (s *Server) handleDownloadTemplate(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	def, ok := core.Get(kind)
	if !ok {
		writeError(w, r, http.StatusNotFound, fmt.Sprintf("unknown record kind: %s", kind))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s_template.csv"`, def.Info.Key))

	cw := csv.NewWriter(w)
	cw.Write(def.Info.Columns)
	cw.Flush()
}

// handleListRecords returns the most recent records of a kind.
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	def, ok := core.Get(kind)
	if !ok {
		writeError(w, r, http.StatusNotFound, fmt.Sprintf("unknown record kind: %s", kind))
		return
	}

	limit := parseIntParam(r, "limit", s.cfg.Import.ListLimit)
	if limit > s.cfg.Import.ListLimitMax {
		limit = s.cfg.Import.ListLimitMax
	}

	docs, err := s.store.Find(r.Context(), def.Info.Collection, store.Filter{}, int64(limit))
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to load records")
		return
	}
	if docs == nil {
		docs = []store.Document{}
	}

	writeJSON(w, r, map[string]any{
		"kind":    def.Info.Key,
		"count":   len(docs),
		"records": docs,
	})
}

// handleStats returns per-collection document counts for the dashboard.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	counts := make(map[string]int64)
	var total int64

	for _, def := range core.All() {
		count, err := s.store.CountDocuments(r.Context(), def.Info.Collection, store.Filter{})
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, "failed to count records")
			return
		}
		counts[def.Info.Collection] = count
		total += count
	}

	writeJSON(w, r, map[string]any{
		"collections": counts,
		"total":       total,
	})
}

// handleHealth reports liveness and store reachability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "store unreachable")
		return
	}
	writeJSON(w, r, map[string]string{"status": "ok"})
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

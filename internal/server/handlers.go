package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/recruiting-ops/funnel-cli/internal/analytics"
	"github.com/recruiting-ops/funnel-cli/internal/ingest"
	"github.com/recruiting-ops/funnel-cli/internal/model"
	"github.com/recruiting-ops/funnel-cli/internal/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	datasets, err := s.st.ListDatasets(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if datasets == nil {
		datasets = []store.Dataset{}
	}
	writeJSON(w, http.StatusOK, datasets)
}

// handleCreateDataset accepts a multipart upload with a "file" part holding
// the CSV export and an optional "name" field. The dataset is processed once
// at import time to record the resolved candidate count.
func (s *Server) handleCreateDataset(w http.ResponseWriter, r *http.Request) {
	maxBytes := int64(s.cfg.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("expected multipart upload with a file part"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("missing file part"))
		return
	}
	defer file.Close()

	name := r.FormValue("name")
	if name == "" {
		name = header.Filename
	}

	apps, err := ingest.ReadCSV(r.Context(), file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res := s.pipe.Run(apps)
	ds, err := s.st.CreateDataset(r.Context(), name, apps, res.Metrics.UniqueCandidates)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	zap.L().Info("server: dataset created",
		zap.String("id", ds.ID),
		zap.String("name", ds.Name),
		zap.Int("applications", ds.ApplicationCount),
	)
	writeJSON(w, http.StatusCreated, ds)
}

func (s *Server) handleDeleteDataset(w http.ResponseWriter, r *http.Request) {
	err := s.st.DeleteDataset(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrDatasetNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDatasetOptions(w http.ResponseWriter, r *http.Request) {
	a, ok := s.loadAnalytics(w, r)
	if !ok {
		return
	}

	sources := map[string]struct{}{}
	titles := map[string]struct{}{}
	for _, app := range a.Applications {
		if app.Source != "" {
			sources[app.Source] = struct{}{}
		}
		if app.JobTitle != "" {
			titles[app.JobTitle] = struct{}{}
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sources":    sortedSet(sources),
		"job_titles": sortedSet(titles),
		"dates":      a.DateRangeOptions(),
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var filter analytics.FilterSpec
	if !decodeOptionalBody(w, r, &filter) {
		return
	}

	a, ok := s.loadAnalytics(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, a.Report(applyFilter(a, filter)))
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filters []analytics.NamedFilter `json:"filters"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	if len(req.Filters) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("at least one filter is required"))
		return
	}

	a, ok := s.loadAnalytics(w, r)
	if !ok {
		return
	}

	results, err := a.Compare(r.Context(), req.Filters)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleStages(w http.ResponseWriter, r *http.Request) {
	var filter analytics.FilterSpec
	if !decodeOptionalBody(w, r, &filter) {
		return
	}

	a, ok := s.loadAnalytics(w, r)
	if !ok {
		return
	}

	filtered := applyFilter(a, filter)
	if r.URL.Query().Get("detailed") == "true" {
		writeJSON(w, http.StatusOK, a.CandidatesByStageDetailed(filtered))
		return
	}
	writeJSON(w, http.StatusOK, a.CandidatesByStage(filtered))
}

// loadAnalytics fetches the dataset named in the URL and runs the pipeline
// over it. Writes the error response itself when it returns false.
func (s *Server) loadAnalytics(w http.ResponseWriter, r *http.Request) (*analytics.Analytics, bool) {
	id := chi.URLParam(r, "id")
	_, apps, err := s.st.GetDataset(r.Context(), id)
	if errors.Is(err, store.ErrDatasetNotFound) {
		writeError(w, http.StatusNotFound, err)
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return nil, false
	}
	return s.pipe.Analyze(apps), true
}

// applyFilter resolves nil-vs-empty: an unrestricted filter analyses the
// whole table, a restrictive one may legitimately match nothing.
func applyFilter(a *analytics.Analytics, filter analytics.FilterSpec) []model.Candidate {
	filtered := filter.Apply(a.Candidates)
	if filtered == nil {
		filtered = []model.Candidate{}
	}
	return filtered
}

// decodeOptionalBody decodes a JSON body into v, treating an empty body as
// the zero value. Writes a 400 and returns false on malformed JSON.
func decodeOptionalBody(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == io.EOF {
		return true
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return false
	}
	return true
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

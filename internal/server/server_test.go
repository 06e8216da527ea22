package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recruiting-ops/funnel-cli/internal/analytics"
	"github.com/recruiting-ops/funnel-cli/internal/config"
	"github.com/recruiting-ops/funnel-cli/internal/pipeline"
	"github.com/recruiting-ops/funnel-cli/internal/store"
)

const sampleCSV = `Candidate Name,Date of Birth,Nationality,Country of Residence,Speak Arabic,Application Status,Application Source,Posting Title (Job Opening),Created Time (Application)
Jane Doe,2000-03-01,Lebanon,Lebanon,Yes,Hired,LinkedIn,Business Analyst,2024-01-10 09:30:00
Omar Haddad,2001-05-20,Lebanon,Lebanon,Yes,Applied,Referral,Business Analyst,2024-02-01 12:00:00
Carla Saad,1990-01-01,Lebanon,Lebanon,Yes,Unqualified,LinkedIn,Accountant,2024-01-15 08:00:00
`

func newTestServer(t *testing.T) (*Server, store.Store) {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	pipe := pipeline.New(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), nil)
	cfg := config.ServerConfig{Port: 0, MaxUploadMB: 10}
	return New(cfg, st, pipe), st
}

func uploadCSV(t *testing.T, router http.Handler, name, csv string) store.Dataset {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "export.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("name", name))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/datasets/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var ds store.Dataset
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ds))
	return ds
}

func TestServer_Health(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_CreateAndListDatasets(t *testing.T) {
	s, _ := newTestServer(t)
	router := s.Router()

	ds := uploadCSV(t, router, "july export", sampleCSV)
	assert.Equal(t, "july export", ds.Name)
	assert.Equal(t, 3, ds.ApplicationCount)
	assert.Equal(t, 3, ds.CandidateCount)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/datasets/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var list []store.Dataset
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, ds.ID, list[0].ID)
}

func TestServer_ListDatasets_EmptyIsArray(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/datasets/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestServer_CreateDataset_RejectsNonMultipart(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/datasets/", strings.NewReader("not multipart"))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Analyze(t *testing.T) {
	s, _ := newTestServer(t)
	router := s.Router()
	ds := uploadCSV(t, router, "export", sampleCSV)

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/datasets/%s/analyze", ds.ID), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report analytics.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))

	assert.Equal(t, 3, report.Summary.TotalApplications)
	assert.Equal(t, 3, report.Summary.UniqueCandidates)
	assert.Equal(t, 1, report.Summary.TotalUnqualified)
	assert.Equal(t, 1, report.Summary.TotalHired)
	require.Len(t, report.Funnel.Funnel, 7)
	assert.Equal(t, 2, report.Funnel.Funnel[0].Count)
}

func TestServer_Analyze_WithFilter(t *testing.T) {
	s, _ := newTestServer(t)
	router := s.Router()
	ds := uploadCSV(t, router, "export", sampleCSV)

	body := `{"sources":["Referral"]}`
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/datasets/%s/analyze", ds.ID), strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report analytics.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 1, report.Summary.UniqueCandidates)
	assert.Zero(t, report.Summary.TotalHired)
}

func TestServer_Analyze_MalformedBody(t *testing.T) {
	s, _ := newTestServer(t)
	router := s.Router()
	ds := uploadCSV(t, router, "export", sampleCSV)

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/datasets/%s/analyze", ds.ID), strings.NewReader("{broken"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Analyze_UnknownDataset(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/datasets/no-such-id/analyze", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_Compare(t *testing.T) {
	s, _ := newTestServer(t)
	router := s.Router()
	ds := uploadCSV(t, router, "export", sampleCSV)

	body := `{"filters":[{"name":"All","filter":{}},{"name":"LinkedIn","filter":{"sources":["LinkedIn"]}}]}`
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/datasets/%s/compare", ds.ID), strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var results []analytics.ComparisonResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "All", results[0].Name)
	assert.Equal(t, 3, results[0].Summary.UniqueCandidates)
	assert.Equal(t, "LinkedIn", results[1].Name)
	assert.Equal(t, 2, results[1].Summary.UniqueCandidates)
}

func TestServer_Compare_RequiresFilters(t *testing.T) {
	s, _ := newTestServer(t)
	router := s.Router()
	ds := uploadCSV(t, router, "export", sampleCSV)

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/datasets/%s/compare", ds.ID), strings.NewReader(`{"filters":[]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Stages(t *testing.T) {
	s, _ := newTestServer(t)
	router := s.Router()
	ds := uploadCSV(t, router, "export", sampleCSV)

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/datasets/%s/stages", ds.ID), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var byStage map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &byStage))
	assert.ElementsMatch(t, []string{"Jane Doe", "Omar Haddad"}, byStage["Applied (Qualified)"])
	assert.Equal(t, []string{"Jane Doe"}, byStage["Hired"])
}

func TestServer_Stages_Detailed(t *testing.T) {
	s, _ := newTestServer(t)
	router := s.Router()
	ds := uploadCSV(t, router, "export", sampleCSV)

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/datasets/%s/stages?detailed=true", ds.ID), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var byStage map[string][]analytics.StageCandidate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &byStage))
	rows := byStage["Hired"]
	require.Len(t, rows, 1)
	assert.Equal(t, "Jane Doe", rows[0].Name)
	assert.Equal(t, "Business Analyst", rows[0].JobTitles)
}

func TestServer_DatasetOptions(t *testing.T) {
	s, _ := newTestServer(t)
	router := s.Router()
	ds := uploadCSV(t, router, "export", sampleCSV)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/datasets/%s/options", ds.ID), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var opts struct {
		Sources   []string `json:"sources"`
		JobTitles []string `json:"job_titles"`
		Dates     struct {
			Months []string `json:"months"`
		} `json:"dates"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opts))
	assert.Equal(t, []string{"LinkedIn", "Referral"}, opts.Sources)
	assert.Equal(t, []string{"Accountant", "Business Analyst"}, opts.JobTitles)
	assert.Equal(t, []string{"2024-01", "2024-02"}, opts.Dates.Months)
}

func TestServer_DeleteDataset(t *testing.T) {
	s, _ := newTestServer(t)
	router := s.Router()
	ds := uploadCSV(t, router, "export", sampleCSV)

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/datasets/%s/", ds.ID), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

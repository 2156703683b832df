package server

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliakrupin/openapi-to-docx/internal/config"
)

const validSpec = `{
	"openapi": "3.0.3",
	"info": {"title": "Pets", "version": "1.0.0"},
	"paths": {
		"/pets": {
			"get": {
				"summary": "List pets",
				"responses": {"200": {"description": "OK"}}
			},
			"post": {
				"summary": "Create pet",
				"responses": {"201": {"description": "Created"}}
			}
		}
	}
}`

func testConfig() *config.Config {
	return &config.Config{Addr: ":0", MaxUploadBytes: 1 << 20}
}

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = io.WriteString(fw, content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func postSpec(t *testing.T, srv *Server, url, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, filename, content)
	req := httptest.NewRequest(http.MethodPost, url, body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func errorDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload["detail"]
}

func TestGenerateDoc(t *testing.T) {
	srv := New(testConfig(), nil, nil)

	rec := postSpec(t, srv, "/generate-doc", "petstore.json", validSpec)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, docxContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, "2", rec.Header().Get("X-Total-Endpoints"))
	assert.Equal(t, ModeFast, rec.Header().Get("X-Generation-Mode"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `attachment; filename="petstore_doc_`)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `.docx"`)

	// The body is a readable OOXML package.
	data := rec.Body.Bytes()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	var hasDocument bool
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			hasDocument = true
		}
	}
	assert.True(t, hasDocument)
}

func TestGenerateDoc_MaxEndpoints(t *testing.T) {
	srv := New(testConfig(), nil, nil)

	rec := postSpec(t, srv, "/generate-doc?max_endpoints=1", "petstore.json", validSpec)

	require.Equal(t, http.StatusOK, rec.Code)
	// The header reports the spec total, not the processed count.
	assert.Equal(t, "2", rec.Header().Get("X-Total-Endpoints"))
}

func TestGenerateDoc_BadRequests(t *testing.T) {
	srv := New(testConfig(), nil, nil)

	tests := []struct {
		name     string
		url      string
		filename string
		content  string
		detail   string
	}{
		{"wrong extension", "/generate-doc", "spec.yaml", validSpec, "only JSON files are supported"},
		{"invalid json", "/generate-doc", "spec.json", "{broken", "invalid JSON"},
		{"missing info", "/generate-doc", "spec.json", `{"openapi": "3.0.0", "paths": {}}`, "info"},
		{"old version", "/generate-doc", "spec.json", `{"openapi": "2.0", "info": {}, "paths": {}}`, "3.0"},
		{"bad max_endpoints", "/generate-doc?max_endpoints=0", "spec.json", validSpec, "max_endpoints"},
		{"bad enhance flag", "/generate-doc?use_llm_enhance=sure", "spec.json", validSpec, "use_llm_enhance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postSpec(t, srv, tt.url, tt.filename, tt.content)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, errorDetail(t, rec), tt.detail)
		})
	}
}

func TestGenerateDoc_MissingFileField(t *testing.T) {
	srv := New(testConfig(), nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/generate-doc", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorDetail(t, rec), "file")
}

func TestGenerateDoc_EnhanceWithoutEnhancerStaysFast(t *testing.T) {
	srv := New(testConfig(), nil, nil)

	rec := postSpec(t, srv, "/generate-doc?use_llm_enhance=true", "spec.json", validSpec)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ModeFast, rec.Header().Get("X-Generation-Mode"))
}

func TestHealth(t *testing.T) {
	srv := New(testConfig(), nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "healthy", payload["status"])
	assert.Equal(t, "openapi-to-docx", payload["service"])
	assert.Equal(t, ModeFast, payload["generation_mode"])
	assert.Equal(t, "false", payload["llm_configured"])
}

func TestOutputFilename(t *testing.T) {
	orig := timeNow
	timeNow = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 5, 0, time.UTC) }
	defer func() { timeNow = orig }()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "petstore.json", "petstore_doc_20260830_120005.docx"},
		{"unsafe characters", "my spec (v2).json", "myspecv2_doc_20260830_120005.docx"},
		{"path stripped", "/tmp/upload/api.json", "api_doc_20260830_120005.docx"},
		{"nothing safe", "§§§.json", "openapi_doc_20260830_120005.docx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputFilename(tt.in))
		})
	}
}

// Package server exposes documentation generation over HTTP: an OpenAPI JSON
// specification is uploaded to POST /generate-doc and a DOCX file comes back.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/iliakrupin/openapi-to-docx/describe"
	"github.com/iliakrupin/openapi-to-docx/docerrors"
	"github.com/iliakrupin/openapi-to-docx/docx"
	"github.com/iliakrupin/openapi-to-docx/internal/config"
	"github.com/iliakrupin/openapi-to-docx/markdown"
	"github.com/iliakrupin/openapi-to-docx/resolve"
	"github.com/iliakrupin/openapi-to-docx/spec"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Generation modes reported in the X-Generation-Mode response header.
const (
	ModeFast     = "fast"
	ModeEnhanced = "enhanced"
)

// Server handles documentation generation requests. Each request builds its
// own resolver over the uploaded document, so concurrent generations never
// share reference caches.
type Server struct {
	cfg      *config.Config
	enhancer markdown.Enhancer
	logger   *slog.Logger
}

// New creates a Server. enhancer may be nil, which disables enhanced mode.
func New(cfg *config.Config, enhancer markdown.Enhancer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{cfg: cfg, enhancer: enhancer, logger: logger}
}

// Router builds the HTTP route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/generate-doc", s.handleGenerateDoc).Methods(http.MethodPost)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	return r
}

func (s *Server) handleGenerateDoc(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "a multipart file field named \"file\" is required")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		s.writeError(w, http.StatusBadRequest, "file must have a filename")
		return
	}
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".json") {
		s.writeError(w, http.StatusBadRequest, "only JSON files are supported, upload a .json file")
		return
	}

	enhanceMode, maxEndpoints, err := s.parseQuery(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	doc, err := spec.LoadBytes(content)
	if err != nil {
		detail := "invalid specification"
		var parseErr *docerrors.ParseError
		if errors.As(err, &parseErr) {
			detail = fmt.Sprintf("invalid JSON: %s, please ensure the file is valid JSON", parseErr.Message)
		}
		s.writeError(w, http.StatusBadRequest, detail)
		return
	}
	logger := spec.NewSlogAdapter(s.logger)
	if err := spec.Validate(doc, logger); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res := resolve.New(doc)
	res.Logger = logger
	gen := markdown.NewGenerator(describe.NewBuilder(res))
	gen.Logger = logger
	gen.MaxEndpoints = maxEndpoints
	mode := ModeFast
	if enhanceMode && s.enhancer != nil {
		gen.Enhancer = s.enhancer
		mode = ModeEnhanced
	}

	s.logger.Info("generating documentation",
		"filename", header.Filename, "mode", mode, "max_endpoints", maxEndpoints)

	md := gen.Generate(r.Context())
	data, err := docx.Build(md)
	if err != nil {
		s.logger.Error("document rendering failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", docxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", OutputFilename(header.Filename)))
	w.Header().Set("X-Total-Endpoints", strconv.Itoa(spec.CountEndpoints(doc)))
	w.Header().Set("X-Generation-Mode", mode)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("failed to write response", "error", err)
	}
}

// parseQuery reads the use_llm_enhance and max_endpoints query parameters.
func (s *Server) parseQuery(r *http.Request) (enhance bool, maxEndpoints int, err error) {
	enhance = s.cfg.EnhanceByDefault
	if v := r.URL.Query().Get("use_llm_enhance"); v != "" {
		enhance, err = strconv.ParseBool(v)
		if err != nil {
			return false, 0, errors.New("use_llm_enhance must be a boolean")
		}
	}
	if v := r.URL.Query().Get("max_endpoints"); v != "" {
		maxEndpoints, err = strconv.Atoi(v)
		if err != nil || maxEndpoints < 1 {
			return false, 0, errors.New("max_endpoints must be an integer >= 1")
		}
	}
	return enhance, maxEndpoints, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	mode := ModeFast
	if s.cfg.EnhanceByDefault && s.enhancer != nil {
		mode = ModeEnhanced
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":          "healthy",
		"service":         "openapi-to-docx",
		"generation_mode": mode,
		"llm_configured":  strconv.FormatBool(s.enhancer != nil),
	})
}

func (s *Server) writeError(w http.ResponseWriter, status int, detail string) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "detail", detail)
	} else {
		s.logger.Warn("request rejected", "status", status, "detail", detail)
	}
	s.writeJSON(w, status, map[string]string{"detail": detail})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("failed to encode response", "error", err)
	}
}

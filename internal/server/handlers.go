package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dshills/clausecritic/internal/amend"
	"github.com/dshills/clausecritic/internal/checker"
	"github.com/dshills/clausecritic/internal/contract"
	"github.com/dshills/clausecritic/internal/redact"
	"github.com/dshills/clausecritic/internal/render"
	"github.com/dshills/clausecritic/internal/review"
	"github.com/dshills/clausecritic/internal/rules"
	"github.com/dshills/clausecritic/internal/schema"
)

// multipartOverhead is slack allowed on top of the upload cap for the
// multipart framing around the file part.
const multipartOverhead = 1 << 20

// badRequestError marks client mistakes that are not extraction failures.
type badRequestError struct{ msg string }

func (e *badRequestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &badRequestError{msg: fmt.Sprintf(format, args...)}
}

// runCheck reads the uploaded PDF, extracts and optionally redacts its
// text, and runs the compliance check. It returns the result together with
// the exact text the model saw, so exports stay consistent with the check.
func (s *Server) runCheck(w http.ResponseWriter, r *http.Request) (*schema.Result, string, error) {
	logger := s.reqLogger(r)

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes()+multipartOverhead)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes()); err != nil {
		return nil, "", badRequest("could not parse upload: %s", err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", badRequest("request is missing the file field: %s", err)
	}
	defer file.Close()

	if header.Size > s.cfg.MaxUploadBytes() {
		return nil, "", badRequest("file too large (max %d MiB)", s.cfg.MaxUploadMB)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", badRequest("could not read upload: %s", err)
	}

	logger.Info("check.start", "filename", header.Filename, "size", len(data))

	doc, err := contract.Extract(header.Filename, data)
	if err != nil {
		logger.Warn("extract.fail", "filename", header.Filename, "error", err)
		return nil, "", err
	}
	logger.Info("extract.ok", "filename", doc.Filename, "pages", doc.Pages, "hash", doc.Hash)

	if s.cfg.Redact {
		doc.Text = redact.Redact(doc.Text)
	}

	res, err := s.checker.Check(r.Context(), doc)
	if err != nil {
		logger.Error("check.fail", "filename", doc.Filename, "error", err)
		return nil, "", err
	}
	logger.Info("check.ok",
		"filename", doc.Filename,
		"verdict", res.Summary.Verdict,
		"passed", res.Summary.Passed,
		"failed", res.Summary.Failed,
	)
	return res, doc.Text, nil
}

// errorResponse maps pipeline errors to an HTTP status, a user-facing
// message, and the raw model response when one exists.
func errorResponse(err error) (status int, msg, raw string) {
	var br *badRequestError
	if errors.As(err, &br) {
		return http.StatusBadRequest, br.msg, ""
	}
	var xe *contract.ExtractionError
	if errors.As(err, &xe) {
		return http.StatusUnprocessableEntity, "could not read the uploaded PDF: " + xe.Err.Error(), ""
	}
	var ae *checker.AnalysisError
	if errors.As(err, &ae) {
		return http.StatusBadGateway, "compliance analysis failed: " + ae.Error(), ae.RawResponse
	}
	return http.StatusInternalServerError, "internal error", ""
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderTemplate(w, http.StatusOK, indexTmpl, indexData{
		Rules:       rules.Fixed(),
		MaxUploadMB: s.cfg.MaxUploadMB,
	})
}

func (s *Server) handleCheckUI(w http.ResponseWriter, r *http.Request) {
	res, text, err := s.runCheck(w, r)
	if err != nil {
		status, msg, raw := errorResponse(err)
		s.renderError(w, status, msg, raw)
		return
	}

	resultJSON, err := json.Marshal(res)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, "internal error", "")
		return
	}
	s.renderTemplate(w, http.StatusOK, reportTmpl, reportData{
		Res:        res,
		ResultJSON: string(resultJSON),
		Text:       text,
		Failing:    review.Failing(res.Checks),
	})
}

func (s *Server) handleCheckAPI(w http.ResponseWriter, r *http.Request) {
	res, _, err := s.runCheck(w, r)
	if err != nil {
		status, msg, raw := errorResponse(err)
		writeJSONError(w, status, msg, raw)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleExport re-renders a result the client already holds. The report
// page embeds the result JSON and the checked text in hidden form fields,
// so no server-side state is needed.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	logger := s.reqLogger(r)

	if err := r.ParseForm(); err != nil {
		s.renderError(w, http.StatusBadRequest, "could not parse form: "+err.Error(), "")
		return
	}
	format := r.PostFormValue("format")

	var res schema.Result
	if err := json.Unmarshal([]byte(r.PostFormValue("result")), &res); err != nil {
		s.renderError(w, http.StatusBadRequest, "invalid result payload: "+err.Error(), "")
		return
	}

	base := strings.TrimSuffix(res.Input.Filename, filepath.Ext(res.Input.Filename))
	if base == "" {
		base = "contract"
	}

	if format == "patch" {
		if len(res.Amendments) == 0 {
			s.renderError(w, http.StatusBadRequest, "result has no amendments to export", "")
			return
		}
		var warnBuf bytes.Buffer
		diff := amend.GenerateDiff(r.PostFormValue("text"), res.Amendments, &warnBuf)
		if warnBuf.Len() > 0 {
			logger.Warn("export.patch.skipped", "detail", strings.TrimSpace(warnBuf.String()))
		}
		if diff == "" {
			s.renderError(w, http.StatusUnprocessableEntity, "no amendment could be located in the contract text", "")
			return
		}
		sendAttachment(w, base+"-amendments.patch", "text/plain; charset=utf-8", []byte(diff))
		logger.Info("export.ok", "format", "patch", "bytes", len(diff))
		return
	}

	renderer, err := render.NewRenderer(format)
	if err != nil {
		s.renderError(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	out, err := renderer.Render(&res)
	if err != nil {
		s.renderError(w, http.StatusInternalServerError, "rendering export: "+err.Error(), "")
		return
	}
	sendAttachment(w, base+"-compliance."+format, renderer.ContentType(), out)
	logger.Info("export.ok", "format", format, "bytes", len(out))
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"rules": rules.Fixed()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
}

// apiError is the JSON error envelope for /api routes.
type apiError struct {
	Error       string `json:"error"`
	RawResponse string `json:"raw_response,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeJSONError(w http.ResponseWriter, status int, msg, raw string) {
	writeJSON(w, status, apiError{Error: msg, RawResponse: raw})
}

func sendAttachment(w http.ResponseWriter, filename, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(body) //nolint:errcheck
}

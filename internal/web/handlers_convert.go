package web

// handlers_convert.go implements the stateless validation and conversion
// helper endpoints plus the session export endpoints. The stateless
// endpoints take data in the request body and never touch a session.

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sagsagg/translation-tools/internal/core"
	"github.com/sagsagg/translation-tools/internal/logging"
)

// validateContentRequest carries raw file content for validation.
type validateContentRequest struct {
	Content string          `json:"content"`
	Format  core.FileFormat `json:"format"`
}

// validateFilenamesRequest carries a proposed upload set.
type validateFilenamesRequest struct {
	Filenames     []string `json:"filenames"`
	AllowFallback bool     `json:"allowFallback"`
}

type validateFilenamesResponse struct {
	Batch    core.BatchValidation      `json:"batch"`
	Files    []core.FilenameValidation `json:"files"`
	Expected []string                  `json:"expectedFilenames"`
}

// conversionRequest carries data plus options for preview and estimation.
type conversionRequest struct {
	Data    core.Dataset           `json:"data"`
	Options core.ConversionOptions `json:"options"`
}

// handleValidateContent validates raw JSON or CSV content without storing
// anything.
func (s *Server) handleValidateContent(w http.ResponseWriter, r *http.Request) {
	var req validateContentRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	var result core.ValidationResult
	switch req.Format {
	case core.FormatJSON:
		result = core.ValidateJSON(req.Content)
	case core.FormatCSV:
		result = core.ValidateCSV(req.Content)
	default:
		s.respondError(w, r, fmt.Errorf("unsupported file type: %s", req.Format), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleValidateFilenames checks filenames against the naming convention,
// both individually (with the fallback applied if requested) and as a set.
func (s *Server) handleValidateFilenames(w http.ResponseWriter, r *http.Request) {
	var req validateFilenamesRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if len(req.Filenames) == 0 {
		s.respondError(w, r, fmt.Errorf("no file provided"), http.StatusBadRequest)
		return
	}

	files := make([]core.FilenameValidation, 0, len(req.Filenames))
	for _, name := range req.Filenames {
		files = append(files, s.filenames.ValidateWithFallback(name, req.AllowFallback))
	}

	writeJSON(w, http.StatusOK, validateFilenamesResponse{
		Batch:    s.filenames.ValidateBatch(req.Filenames),
		Files:    files,
		Expected: s.filenames.ExpectedFilenames(),
	})
}

// handleValidateOptions checks a conversion option set for completeness.
func (s *Server) handleValidateOptions(w http.ResponseWriter, r *http.Request) {
	var opts core.ConversionOptions
	if err := s.decodeJSON(r, &opts); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, s.converter.ValidateOptions(opts))
}

// handlePreview renders a truncated preview of a conversion result.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req conversionRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	preview := s.converter.Preview(req.Data, req.Options, s.cfg.Convert.PreviewRows)
	writeJSON(w, http.StatusOK, map[string]string{"preview": preview})
}

// handleEstimate approximates the size of a conversion result.
func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var req conversionRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, s.converter.EstimateOutputSize(req.Data, req.Options))
}

// handleExport downloads one language of the session's data as a JSON
// file named by the export convention.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	code := chi.URLParam(r, "code")

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}

	data, err := s.languageData(sess.Data, code)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	body, err := core.MarshalTranslationMap(data)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	logging.FromContext(r.Context()).Info("json exported",
		"session_id", sessionID,
		"language", code,
		"keys", len(data),
	)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.converter.ExportFileName(code)))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// handleExportCSV downloads the session's data as CSV. The special code
// "all" exports every language side by side; any other code exports a
// two-column CSV for that language.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	code := chi.URLParam(r, "code")

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}

	var content, filename string
	if code == "all" {
		multi, err := s.multiView(sess.Data)
		if err != nil {
			s.respondError(w, r, err, http.StatusBadRequest)
			return
		}
		content = s.converter.MergeToCSV(multi)
		filename = "translations_all.csv"
	} else {
		data, err := s.languageData(sess.Data, code)
		if err != nil {
			s.respondError(w, r, err, http.StatusBadRequest)
			return
		}
		content = s.converter.SingleMapToCSV(data, s.catalog.DisplayName(code))
		filename = fmt.Sprintf("translations_%s.csv", s.catalog.FileNameForCode(code))
	}

	logging.FromContext(r.Context()).Info("csv exported",
		"session_id", sessionID,
		"language", code,
	)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(content))
}

// languageData extracts one language's translations from whichever
// representation the dataset holds.
func (s *Server) languageData(d core.Dataset, code string) (core.TranslationMap, error) {
	switch d.Kind {
	case core.KindFlatMap:
		if d.FlatMapCode != "" && d.FlatMapCode != code {
			return nil, fmt.Errorf("language not found: %s", code)
		}
		return d.FlatMap.Clone(), nil
	case core.KindMultiMap:
		data, ok := d.MultiMap[code]
		if !ok {
			return nil, fmt.Errorf("language not found: %s", code)
		}
		return data.Clone(), nil
	case core.KindTable:
		column := s.catalog.DisplayName(code)
		if !d.Table.HasHeader(column) {
			return nil, fmt.Errorf("language not found: %s", code)
		}
		return s.converter.CSVToSingleMap(d.Table, column)
	default:
		return nil, fmt.Errorf("language not found: %s", code)
	}
}

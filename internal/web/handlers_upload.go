package web

// handlers_upload.go implements session lifecycle and file upload
// endpoints. Uploads arrive as multipart form data; content is validated
// before it touches the session, and every accepted file is recorded in
// the session's upload history.

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/sagsagg/translation-tools/internal/core"
	"github.com/sagsagg/translation-tools/internal/logging"
	"github.com/sagsagg/translation-tools/internal/session"
)

// uploadResponse is the outcome of a single-file upload.
type uploadResponse struct {
	Session    session.Session       `json:"session"`
	Validation core.ValidationResult `json:"validation"`
	Language   string                `json:"language,omitempty"`
	Warning    string                `json:"warning,omitempty"`
}

// batchUploadResponse is the outcome of a multi-file JSON upload.
type batchUploadResponse struct {
	Session  session.Session                  `json:"session"`
	Accepted []string                         `json:"accepted"`
	Rejected []core.InvalidFile               `json:"rejected"`
	Warnings []string                         `json:"warnings,omitempty"`
	Results  map[string]core.ValidationResult `json:"results"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	logging.FromContext(r.Context()).Info("session created", "session_id", sess.ID)
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s.sessions.Delete(chi.URLParam(r, "sessionID"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUploadHistory(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"uploads": sess.Uploads})
}

// handleUpload accepts one JSON or CSV file and installs its content as
// (or merges it into) the session's dataset.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if _, err := s.sessions.Get(sessionID); err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}

	filename, content, err := s.readUploadedFile(r, "file")
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	set := core.SplitUploadSet([]string{filename})
	if len(set.Errors) > 0 {
		s.respondError(w, r, fmt.Errorf("unsupported file type: %s", filename), http.StatusBadRequest)
		return
	}

	switch {
	case len(set.CSVFiles) == 1:
		s.uploadCSV(w, r, sessionID, filename, content)
	default:
		s.uploadJSON(w, r, sessionID, filename, content)
	}
}

// uploadJSON validates one JSON file, resolves its language from the
// filename (with the configured fallback), and merges it into the session.
func (s *Server) uploadJSON(w http.ResponseWriter, r *http.Request, sessionID, filename, content string) {
	validation := core.ValidateJSON(content)
	if !validation.Valid {
		writeJSON(w, http.StatusUnprocessableEntity, uploadResponse{Validation: validation})
		return
	}

	nameCheck := s.filenames.ValidateWithFallback(filename, s.cfg.Upload.AllowFilenameFallback)
	if !nameCheck.Valid {
		s.respondError(w, r, fmt.Errorf("filename %q doesn't follow the expected naming convention", filename), http.StatusBadRequest)
		return
	}

	var data core.TranslationMap
	if err := decodeTranslationMap(content, &data); err != nil {
		s.respondError(w, r, fmt.Errorf("invalid json: %w", err), http.StatusBadRequest)
		return
	}

	sess, err := s.sessions.Update(sessionID, func(d core.Dataset) (core.Dataset, error) {
		return mergeFlatUpload(d, nameCheck.LanguageCode, data), nil
	})
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}

	s.sessions.RecordUpload(sessionID, session.UploadEvent{
		Filename: filename,
		Format:   core.FormatJSON,
		Language: nameCheck.LanguageCode,
		Warning:  nameCheck.WarningMessage,
	})
	sess, _ = s.sessions.Get(sessionID)

	logging.FromContext(r.Context()).Info("json uploaded",
		"session_id", sessionID,
		"filename", filename,
		"language", nameCheck.LanguageCode,
		"keys", len(data),
	)

	writeJSON(w, http.StatusOK, uploadResponse{
		Session:    sess,
		Validation: validation,
		Language:   nameCheck.LanguageCode,
		Warning:    nameCheck.WarningMessage,
	})
}

// uploadCSV validates and parses one CSV file. When the session already
// holds a table the new one is merged key-wise into it.
func (s *Server) uploadCSV(w http.ResponseWriter, r *http.Request, sessionID, filename, content string) {
	validation := core.ValidateCSV(content)
	if !validation.Valid {
		writeJSON(w, http.StatusUnprocessableEntity, uploadResponse{Validation: validation})
		return
	}

	table, err := s.converter.ParseCSV(content)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	sess, err := s.sessions.Update(sessionID, func(d core.Dataset) (core.Dataset, error) {
		if d.Kind == core.KindTable {
			return core.Dataset{Kind: core.KindTable, Table: core.MergeTables(d.Table, table)}, nil
		}
		return core.Dataset{Kind: core.KindTable, Table: table}, nil
	})
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}

	s.sessions.RecordUpload(sessionID, session.UploadEvent{
		Filename: filename,
		Format:   core.FormatCSV,
	})
	sess, _ = s.sessions.Get(sessionID)

	logging.FromContext(r.Context()).Info("csv uploaded",
		"session_id", sessionID,
		"filename", filename,
		"rows", len(table.Rows),
		"columns", len(table.Headers),
	)

	writeJSON(w, http.StatusOK, uploadResponse{Session: sess, Validation: validation})
}

// handleBatchUpload accepts several JSON files at once, one per language.
// Filenames are checked as a set first; file contents are then validated
// and parsed concurrently before the combined result lands in the session
// as a multi-language map.
func (s *Server) handleBatchUpload(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if _, err := s.sessions.Get(sessionID); err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}

	if err := r.ParseMultipartForm(s.cfg.Upload.MaxFileSize); err != nil {
		s.respondError(w, r, fmt.Errorf("no file provided: %w", err), http.StatusBadRequest)
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		s.respondError(w, r, fmt.Errorf("no file provided"), http.StatusBadRequest)
		return
	}
	if len(files) > s.cfg.Upload.MaxFiles {
		s.respondError(w, r, fmt.Errorf("file too large: batch of %d exceeds limit of %d files", len(files), s.cfg.Upload.MaxFiles), http.StatusBadRequest)
		return
	}

	names := make([]string, len(files))
	byName := make(map[string]*multipart.FileHeader, len(files))
	for i, fh := range files {
		names[i] = fh.Filename
		byName[fh.Filename] = fh
	}

	batch := s.filenames.ValidateBatch(names)

	var (
		mu       sync.Mutex
		multi    = make(core.MultiLanguageMap)
		results  = make(map[string]core.ValidationResult)
		rejected = append([]core.InvalidFile{}, batch.Invalid...)
		warnings []string
	)

	g, _ := errgroup.WithContext(r.Context())
	for _, name := range batch.Valid {
		name := name
		g.Go(func() error {
			content, err := readFileHeader(byName[name], s.cfg.Upload.MaxFileSize)
			if err != nil {
				return fmt.Errorf("reading %s: %w", name, err)
			}

			validation := core.ValidateJSON(content)
			code := s.filenames.Validate(name).LanguageCode

			mu.Lock()
			defer mu.Unlock()
			results[name] = validation
			if !validation.Valid {
				rejected = append(rejected, core.InvalidFile{Filename: name, Error: "File content failed validation"})
				return nil
			}
			for _, warning := range validation.Warnings {
				warnings = append(warnings, fmt.Sprintf("%s: %s", name, warning.Message))
			}

			var data core.TranslationMap
			if err := decodeTranslationMap(content, &data); err != nil {
				rejected = append(rejected, core.InvalidFile{Filename: name, Error: "File content failed validation"})
				return nil
			}
			multi[code] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	accepted := make([]string, 0, len(batch.Valid))
	rejectedSet := make(map[string]bool, len(rejected))
	for _, inv := range rejected {
		rejectedSet[inv.Filename] = true
	}
	for _, name := range batch.Valid {
		if !rejectedSet[name] {
			accepted = append(accepted, name)
		}
	}
	sort.Strings(warnings)

	if len(multi) > 0 {
		if _, err := s.sessions.Update(sessionID, func(d core.Dataset) (core.Dataset, error) {
			return mergeMultiUpload(d, multi), nil
		}); err != nil {
			s.respondError(w, r, err, statusForError(err))
			return
		}
		for _, name := range accepted {
			s.sessions.RecordUpload(sessionID, session.UploadEvent{
				Filename: name,
				Format:   core.FormatJSON,
				Language: s.filenames.Validate(name).LanguageCode,
			})
		}
	}

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}

	logging.FromContext(r.Context()).Info("batch uploaded",
		"session_id", sessionID,
		"accepted", len(accepted),
		"rejected", len(rejected),
	)

	writeJSON(w, http.StatusOK, batchUploadResponse{
		Session:  sess,
		Accepted: accepted,
		Rejected: rejected,
		Warnings: warnings,
		Results:  results,
	})
}

// readUploadedFile extracts a single multipart file's name and content.
func (s *Server) readUploadedFile(r *http.Request, field string) (string, string, error) {
	if err := r.ParseMultipartForm(s.cfg.Upload.MaxFileSize); err != nil {
		return "", "", fmt.Errorf("no file provided: %w", err)
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", "", fmt.Errorf("no file provided: %w", err)
	}
	defer file.Close()

	content, err := readAll(file, s.cfg.Upload.MaxFileSize)
	if err != nil {
		return "", "", err
	}
	return header.Filename, content, nil
}

// readFileHeader opens and reads one file of a multipart batch.
func readFileHeader(fh *multipart.FileHeader, maxSize int64) (string, error) {
	file, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()
	return readAll(file, maxSize)
}

// readAll reads at most maxSize bytes and rejects anything larger.
func readAll(file io.Reader, maxSize int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > maxSize {
		return "", fmt.Errorf("file too large: exceeds %d bytes", maxSize)
	}
	return string(data), nil
}

// mergeFlatUpload folds one language's translations into the dataset. A
// fresh session gets a flat map; anything else is promoted to a
// multi-language map keyed by code.
func mergeFlatUpload(d core.Dataset, code string, data core.TranslationMap) core.Dataset {
	switch d.Kind {
	case core.KindMultiMap:
		out := d.MultiMap.Clone()
		out[code] = data.Clone()
		return core.Dataset{Kind: core.KindMultiMap, MultiMap: out}
	case core.KindFlatMap:
		if d.FlatMapCode == "" || d.FlatMapCode == code {
			return core.Dataset{Kind: core.KindFlatMap, FlatMap: data.Clone(), FlatMapCode: code}
		}
		// A second language arrives: promote to the multi-language form.
		return core.Dataset{Kind: core.KindMultiMap, MultiMap: core.MultiLanguageMap{
			d.FlatMapCode: d.FlatMap.Clone(),
			code:          data.Clone(),
		}}
	default:
		return core.Dataset{Kind: core.KindFlatMap, FlatMap: data.Clone(), FlatMapCode: code}
	}
}

// mergeMultiUpload folds a batch's languages into the dataset.
func mergeMultiUpload(d core.Dataset, multi core.MultiLanguageMap) core.Dataset {
	if d.Kind == core.KindMultiMap {
		out := d.MultiMap.Clone()
		for code, data := range multi {
			out[code] = data.Clone()
		}
		return core.Dataset{Kind: core.KindMultiMap, MultiMap: out}
	}
	return core.Dataset{Kind: core.KindMultiMap, MultiMap: multi.Clone()}
}

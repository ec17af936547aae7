package web

// handlers_data.go implements the endpoints that mutate or inspect a
// session's working data: edits, deletes, language-column management, and
// completion statistics. Each mutation goes through the session store's
// Update so a failed operation leaves the data untouched.

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/sagsagg/translation-tools/internal/core"
	"github.com/sagsagg/translation-tools/internal/language"
	"github.com/sagsagg/translation-tools/internal/logging"
	"github.com/sagsagg/translation-tools/internal/session"
)

// editResponse pairs the operation outcome with the updated session.
type editResponse struct {
	Session session.Session `json:"session"`
	Result  core.EditResult `json:"result"`
}

type deleteResponse struct {
	Session session.Session   `json:"session"`
	Result  core.DeleteResult `json:"result"`
}

// languagesResponse lists the languages present in the session's data.
type languagesResponse struct {
	Languages []languageEntry `json:"languages"`
}

type languageEntry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// addLanguageRequest names the language to add. Either the code or the
// display name is accepted; Seed optionally pre-fills the new column.
type addLanguageRequest struct {
	Language string              `json:"language"`
	Seed     core.TranslationMap `json:"seed,omitempty"`
}

// statsResponse combines per-language completion stats with index-level
// numbers from the search engine.
type statsResponse struct {
	Languages []core.LanguageStats `json:"languages"`
	Missing   map[string][]string  `json:"missingTranslations,omitempty"`
	Index     core.SearchStats     `json:"index"`
}

// handleEdit applies a single edit to the session's dataset, whichever
// representation it currently holds.
func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req core.EditRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if msg := core.ValidateEditRequest(req); msg != "" {
		s.respondError(w, r, fmt.Errorf("%s", msg), http.StatusUnprocessableEntity)
		return
	}

	var result core.EditResult
	sess, err := s.sessions.Update(sessionID, func(d core.Dataset) (core.Dataset, error) {
		updated, res := s.applyEdit(d, req)
		result = res
		if !res.Success {
			return d, fmt.Errorf("%s", res.Error)
		}
		return updated, nil
	})
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}

	logging.FromContext(r.Context()).Info("translation edited",
		"session_id", sessionID,
		"key", req.NewKey,
		"language", req.Language,
	)
	writeJSON(w, http.StatusOK, editResponse{Session: sess, Result: result})
}

// handleDelete removes a translation key from the session's dataset.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req core.DeleteRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	var result core.DeleteResult
	sess, err := s.sessions.Update(sessionID, func(d core.Dataset) (core.Dataset, error) {
		updated, res := s.applyDelete(d, req)
		result = res
		if !res.Success {
			return d, fmt.Errorf("%s", res.Error)
		}
		return updated, nil
	})
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}

	logging.FromContext(r.Context()).Info("translation deleted",
		"session_id", sessionID,
		"key", req.Key,
		"language", req.Language,
	)
	writeJSON(w, http.StatusOK, deleteResponse{Session: sess, Result: result})
}

// applyEdit dispatches an edit to the right engine for the dataset's
// representation, normalizing the language identifier first.
func (s *Server) applyEdit(d core.Dataset, req core.EditRequest) (core.Dataset, core.EditResult) {
	switch d.Kind {
	case core.KindFlatMap:
		updated, res := core.EditInMap(d.FlatMap, req)
		return core.Dataset{Kind: core.KindFlatMap, FlatMap: updated, FlatMapCode: d.FlatMapCode}, res
	case core.KindTable:
		if req.Language != "" {
			req.Language = s.columnName(req.Language)
		}
		updated, res := core.EditInTable(d.Table, req)
		return core.Dataset{Kind: core.KindTable, Table: updated}, res
	case core.KindMultiMap:
		req.Language = s.catalog.MapNameToCode(req.Language)
		updated, res := core.EditInMultiMap(d.MultiMap, req)
		return core.Dataset{Kind: core.KindMultiMap, MultiMap: updated}, res
	default:
		return d, core.EditResult{Error: "Translation key not found"}
	}
}

// applyDelete dispatches a delete the same way applyEdit dispatches edits.
func (s *Server) applyDelete(d core.Dataset, req core.DeleteRequest) (core.Dataset, core.DeleteResult) {
	switch d.Kind {
	case core.KindFlatMap:
		updated, res := core.DeleteFromMap(d.FlatMap, req)
		return core.Dataset{Kind: core.KindFlatMap, FlatMap: updated, FlatMapCode: d.FlatMapCode}, res
	case core.KindTable:
		updated, res := core.DeleteFromTable(d.Table, req)
		return core.Dataset{Kind: core.KindTable, Table: updated}, res
	case core.KindMultiMap:
		if req.Language != "" {
			req.Language = s.catalog.MapNameToCode(req.Language)
		}
		updated, res := core.DeleteFromMultiMap(d.MultiMap, req)
		return core.Dataset{Kind: core.KindMultiMap, MultiMap: updated}, res
	default:
		return d, core.DeleteResult{Error: "Translation key not found"}
	}
}

// handleSessionLanguages lists the languages currently present in the
// session's data, sorted by code.
func (s *Server) handleSessionLanguages(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}
	writeJSON(w, http.StatusOK, languagesResponse{Languages: s.datasetLanguages(sess.Data)})
}

// handleAddLanguage adds a language to the session's data. Tables get a new
// column; map representations get a new (possibly seeded) sub-map. An empty
// session starts a multi-language map with just the new language.
func (s *Server) handleAddLanguage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req addLanguageRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	lang, ok := s.resolveLanguage(req.Language)
	if !ok {
		s.respondError(w, r, fmt.Errorf("unsupported language: %s", req.Language), http.StatusBadRequest)
		return
	}

	sess, err := s.sessions.Update(sessionID, func(d core.Dataset) (core.Dataset, error) {
		switch d.Kind {
		case core.KindTable:
			return core.Dataset{Kind: core.KindTable, Table: core.AddLanguageColumn(d.Table, lang, req.Seed)}, nil
		case core.KindMultiMap:
			out := d.MultiMap.Clone()
			if _, exists := out[lang.Code]; !exists {
				out[lang.Code] = req.Seed.Clone()
				if out[lang.Code] == nil {
					out[lang.Code] = core.TranslationMap{}
				}
			}
			return core.Dataset{Kind: core.KindMultiMap, MultiMap: out}, nil
		case core.KindFlatMap:
			if d.FlatMapCode == lang.Code {
				return d, nil
			}
			seed := req.Seed.Clone()
			if seed == nil {
				seed = core.TranslationMap{}
			}
			return core.Dataset{Kind: core.KindMultiMap, MultiMap: core.MultiLanguageMap{
				d.FlatMapCode: d.FlatMap.Clone(),
				lang.Code:     seed,
			}}, nil
		default:
			seed := req.Seed.Clone()
			if seed == nil {
				seed = core.TranslationMap{}
			}
			return core.Dataset{Kind: core.KindMultiMap, MultiMap: core.MultiLanguageMap{lang.Code: seed}}, nil
		}
	})
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}

	logging.FromContext(r.Context()).Info("language added",
		"session_id", sessionID,
		"language", lang.Code,
	)
	writeJSON(w, http.StatusOK, sess)
}

// handleRemoveLanguage drops a language from the session's data. The key
// column can never be removed; removing the only language of a flat map
// empties the session.
func (s *Server) handleRemoveLanguage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	name := chi.URLParam(r, "name")
	code := s.catalog.MapNameToCode(name)

	sess, err := s.sessions.Update(sessionID, func(d core.Dataset) (core.Dataset, error) {
		switch d.Kind {
		case core.KindTable:
			column := s.columnName(name)
			if !d.Table.HasHeader(column) {
				return d, fmt.Errorf("language not found: %s", name)
			}
			return core.Dataset{Kind: core.KindTable, Table: core.RemoveLanguageColumn(d.Table, column)}, nil
		case core.KindMultiMap:
			if _, ok := d.MultiMap[code]; !ok {
				return d, fmt.Errorf("language not found: %s", name)
			}
			out := d.MultiMap.Clone()
			delete(out, code)
			return core.Dataset{Kind: core.KindMultiMap, MultiMap: out}, nil
		case core.KindFlatMap:
			if d.FlatMapCode != code {
				return d, fmt.Errorf("language not found: %s", name)
			}
			return core.Dataset{}, nil
		default:
			return d, fmt.Errorf("language not found: %s", name)
		}
	})
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}

	logging.FromContext(r.Context()).Info("language removed",
		"session_id", sessionID,
		"language", code,
	)
	writeJSON(w, http.StatusOK, sess)
}

// handleStats reports per-language completion and index statistics for the
// session's data.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}

	multi, err := s.multiView(sess.Data)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	engine := s.newSearchEngine(sess.Data)
	writeJSON(w, http.StatusOK, statsResponse{
		Languages: core.TranslationStats(multi),
		Missing:   core.MissingTranslations(multi),
		Index:     engine.Stats(),
	})
}

// handleListCatalog lists the configured language catalog.
func (s *Server) handleListCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"languages": s.catalog.Languages(),
		"default":   s.catalog.Default(),
	})
}

// datasetLanguages extracts the language identifiers present in a dataset.
func (s *Server) datasetLanguages(d core.Dataset) []languageEntry {
	var codes []string
	switch d.Kind {
	case core.KindFlatMap:
		code := d.FlatMapCode
		if code == "" {
			code = s.catalog.Default().Code
		}
		codes = []string{code}
	case core.KindMultiMap:
		for code := range d.MultiMap {
			codes = append(codes, code)
		}
		sort.Strings(codes)
	case core.KindTable:
		for _, column := range d.Table.LanguageColumns() {
			codes = append(codes, s.catalog.MapNameToCode(column))
		}
		sort.Strings(codes)
	}

	entries := make([]languageEntry, 0, len(codes))
	for _, code := range codes {
		entries = append(entries, languageEntry{Code: code, Name: s.catalog.DisplayName(code)})
	}
	return entries
}

// multiView projects any dataset into the multi-language form for
// statistics. An empty session yields an empty map.
func (s *Server) multiView(d core.Dataset) (core.MultiLanguageMap, error) {
	switch d.Kind {
	case core.KindFlatMap:
		code := d.FlatMapCode
		if code == "" {
			code = s.catalog.Default().Code
		}
		return core.MultiLanguageMap{code: d.FlatMap.Clone()}, nil
	case core.KindMultiMap:
		return d.MultiMap, nil
	case core.KindTable:
		return s.converter.CSVToMultiMap(d.Table)
	default:
		return core.MultiLanguageMap{}, nil
	}
}

// resolveLanguage finds a catalog language by code, display name, or
// native name.
func (s *Server) resolveLanguage(identifier string) (language.Language, bool) {
	if l, ok := s.catalog.ByCode(identifier); ok {
		return l, true
	}
	return s.catalog.ByName(identifier)
}

// columnName normalizes a language identifier (code or name) to the
// display-name form used as a table column header.
func (s *Server) columnName(identifier string) string {
	return s.catalog.DisplayName(s.catalog.MapNameToCode(identifier))
}

// decodeJSON decodes a JSON request body into dst, bounded by the upload
// size limit.
func (s *Server) decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	body := io.LimitReader(r.Body, s.cfg.Upload.MaxFileSize)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return fmt.Errorf("invalid json body: %w", err)
	}
	return nil
}

// decodeTranslationMap parses uploaded JSON content that has already
// passed validation.
func decodeTranslationMap(content string, dst *core.TranslationMap) error {
	return json.Unmarshal([]byte(content), dst)
}

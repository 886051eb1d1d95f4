package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hanzilala/hanzilala/app/clients/hanzii"
	"github.com/hanzilala/hanzilala/app/db"
	"github.com/hanzilala/hanzilala/app/hanviet"
	"github.com/rs/zerolog/log"
)

// WordResponse wraps a normalized definition with the optional Hán-Việt
// reading annotation.
type WordResponse struct {
	hanzii.WordDefinition
	Reading string `json:"reading,omitempty"`
}

// BookmarkRequest is the payload for saving a bookmark.
type BookmarkRequest struct {
	Definition    string `json:"definition"`
	Pronunciation string `json:"pronunciation"`
}

// dictionaryService implements methods for dictionary API
type dictionaryService struct {
	gateway  hanzii.Client
	readings *hanviet.Service
	storage  db.Storage
}

func (d dictionaryService) language(r *http.Request) string {
	if lang := r.URL.Query().Get("lang"); lang == "en" || lang == "vi" {
		return lang
	}
	if prefs, err := d.storage.GetPreferences(); err == nil && prefs.Language != "" {
		return prefs.Language
	}
	return "vi"
}

// GetWord returns single word data
func (d dictionaryService) GetWord(w http.ResponseWriter, r *http.Request) {
	word := chi.URLParam(r, "word")
	item, err := d.gateway.Lookup(word, d.language(r))
	if err != nil {
		if errors.Is(err, hanzii.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			if _, err := w.Write([]byte(`{"error": "word not found"}`)); err != nil {
				log.Warn().Err(err).Msg("failed to write response")
			}
			return
		}
		var statusErr hanzii.StatusError
		if errors.As(err, &statusErr) {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		log.Error().Err(err).Str("word", word).Msg("failed to get word data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	response := WordResponse{WordDefinition: item}
	if d.readings != nil {
		if reading, ok := d.readings.WordReading(item.Word); ok {
			response.Reading = reading
		}
	}
	jdata, jerr := json.Marshal(response)
	if jerr != nil {
		log.Error().Err(jerr).Str("word", word).Msg("failed to marshal definition")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if _, err := w.Write(jdata); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}

// Suggest returns suggestions for a partial query. Failures degrade to an
// empty list, never an error response.
func (d dictionaryService) Suggest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	suggestions := []hanzii.Suggestion{}
	if query != "" {
		if items := d.gateway.Suggest(query); items != nil {
			suggestions = items
		}
	}
	jdata, jerr := json.Marshal(suggestions)
	if jerr != nil {
		log.Error().Err(jerr).Msg("failed to marshal suggestions")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if _, err := w.Write(jdata); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}

// ListBookmarks returns saved bookmarks, dropping and deleting entries
// from prior calendar days.
func (d dictionaryService) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	bookmarks, err := d.storage.ListBookmarks()
	if err != nil {
		log.Error().Err(err).Msg("failed to list bookmarks")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	fresh := make([]db.Bookmark, 0, len(bookmarks))
	for _, b := range bookmarks {
		if !b.FromToday() {
			if err := d.storage.DeleteBookmark(b.Word); err != nil {
				log.Warn().Err(err).Str("word", b.Word).Msg("failed to delete stale bookmark")
			}
			continue
		}
		fresh = append(fresh, b)
	}
	jdata, jerr := json.Marshal(fresh)
	if jerr != nil {
		log.Error().Err(jerr).Msg("failed to marshal bookmarks")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if _, err := w.Write(jdata); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}

// SaveBookmark saves a bookmark for a word
func (d dictionaryService) SaveBookmark(w http.ResponseWriter, r *http.Request) {
	word := chi.URLParam(r, "word")
	var request BookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		if _, err := w.Write([]byte(`{"error": "invalid JSON"}`)); err != nil {
			log.Warn().Err(err).Msg("failed to write response")
		}
		return
	}
	bookmark := db.Bookmark{
		Word:          word,
		Timestamp:     time.Now(),
		Definition:    request.Definition,
		Pronunciation: request.Pronunciation,
	}
	if err := d.storage.SaveBookmark(bookmark); err != nil {
		log.Error().Err(err).Str("word", word).Msg("failed to save bookmark")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// DeleteBookmark removes a bookmark for a word
func (d dictionaryService) DeleteBookmark(w http.ResponseWriter, r *http.Request) {
	word := chi.URLParam(r, "word")
	if err := d.storage.DeleteBookmark(word); err != nil {
		log.Error().Err(err).Str("word", word).Msg("failed to delete bookmark")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// GetPreferences returns stored UI preferences
func (d dictionaryService) GetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := d.storage.GetPreferences()
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			prefs = db.DefaultPreferences()
		} else {
			log.Error().Err(err).Msg("failed to get preferences")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}
	jdata, jerr := json.Marshal(prefs)
	if jerr != nil {
		log.Error().Err(jerr).Msg("failed to marshal preferences")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if _, err := w.Write(jdata); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}

// SavePreferences stores UI preferences
func (d dictionaryService) SavePreferences(w http.ResponseWriter, r *http.Request) {
	var prefs db.Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		if _, err := w.Write([]byte(`{"error": "invalid JSON"}`)); err != nil {
			log.Warn().Err(err).Msg("failed to write response")
		}
		return
	}
	if err := d.storage.SavePreferences(prefs); err != nil {
		log.Error().Err(err).Msg("failed to save preferences")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

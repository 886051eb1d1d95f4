package api

import (
	"encoding/json"
	"net/http"

	"github.com/hanzilala/hanzilala/app/clients/hanzii"
	"github.com/hanzilala/hanzilala/app/db"
	"github.com/hanzilala/hanzilala/app/slideshow"
	"github.com/rs/zerolog/log"
)

// SearchRequest is the payload for entering search mode.
type SearchRequest struct {
	Word string `json:"word"`
}

// SettingRequest carries a single preference value.
type SettingRequest struct {
	Value string `json:"value"`
}

// SuggestionsResponse is the state of the search input.
type SuggestionsResponse struct {
	Text        string              `json:"text"`
	Suggestions []hanzii.Suggestion `json:"suggestions"`
	Visible     bool                `json:"visible"`
}

// slideshowService exposes slideshow control and its rendered view.
type slideshowService struct {
	show      *slideshow.Show
	presenter slideshow.Presenter
	suggester *slideshow.Suggester
	storage   db.Storage
}

// GetView returns the rendered active slide.
func (s slideshowService) GetView(w http.ResponseWriter, r *http.Request) {
	view, err := s.presenter.Render(s.show.Snapshot())
	if err != nil {
		log.Error().Err(err).Msg("failed to render slideshow view")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(view)); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}

// GetState returns the raw snapshot.
func (s slideshowService) GetState(w http.ResponseWriter, r *http.Request) {
	jdata, jerr := json.Marshal(s.show.Snapshot())
	if jerr != nil {
		log.Error().Err(jerr).Msg("failed to marshal slideshow state")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if _, err := w.Write(jdata); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}

// Next advances the slideshow manually.
func (s slideshowService) Next(w http.ResponseWriter, r *http.Request) {
	s.show.Advance()
	w.WriteHeader(http.StatusOK)
}

// Prev retreats the slideshow manually.
func (s slideshowService) Prev(w http.ResponseWriter, r *http.Request) {
	s.show.Retreat()
	w.WriteHeader(http.StatusOK)
}

// ToggleAutoPlay flips auto-play.
func (s slideshowService) ToggleAutoPlay(w http.ResponseWriter, r *http.Request) {
	enabled := s.show.ToggleAutoPlay()
	if _, err := w.Write([]byte(`{"autoPlay": ` + boolJSON(enabled) + `}`)); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}

// EnterSearch puts the slideshow into single-word search mode.
func (s slideshowService) EnterSearch(w http.ResponseWriter, r *http.Request) {
	var request SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.Word == "" {
		w.WriteHeader(http.StatusBadRequest)
		if _, err := w.Write([]byte(`{"error": "word is required"}`)); err != nil {
			log.Warn().Err(err).Msg("failed to write response")
		}
		return
	}
	s.show.EnterSearchMode(request.Word)
	w.WriteHeader(http.StatusOK)
}

// SearchInput registers a keystroke in the search box. Suggestions are
// fetched after the debounce window, not per keystroke.
func (s slideshowService) SearchInput(w http.ResponseWriter, r *http.Request) {
	var request SettingRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		if _, err := w.Write([]byte(`{"error": "invalid JSON"}`)); err != nil {
			log.Warn().Err(err).Msg("failed to write response")
		}
		return
	}
	s.suggester.Input(request.Value)
	w.WriteHeader(http.StatusOK)
}

// SearchSuggestions returns the current suggestion list.
func (s slideshowService) SearchSuggestions(w http.ResponseWriter, r *http.Request) {
	items, visible := s.suggester.Suggestions()
	if items == nil {
		items = []hanzii.Suggestion{}
	}
	response := SuggestionsResponse{Text: s.suggester.Text(), Suggestions: items, Visible: visible}
	jdata, jerr := json.Marshal(response)
	if jerr != nil {
		log.Error().Err(jerr).Msg("failed to marshal suggestions")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if _, err := w.Write(jdata); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}

// SearchSelect submits a clicked suggestion, bypassing the debounce.
func (s slideshowService) SearchSelect(w http.ResponseWriter, r *http.Request) {
	var request SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.Word == "" {
		w.WriteHeader(http.StatusBadRequest)
		if _, err := w.Write([]byte(`{"error": "word is required"}`)); err != nil {
			log.Warn().Err(err).Msg("failed to write response")
		}
		return
	}
	s.suggester.Select(request.Word)
	w.WriteHeader(http.StatusOK)
}

// SearchSubmit searches the current input text verbatim.
func (s slideshowService) SearchSubmit(w http.ResponseWriter, r *http.Request) {
	s.suggester.Submit()
	w.WriteHeader(http.StatusOK)
}

// SearchDismiss hides the suggestion list, keeping the input text.
func (s slideshowService) SearchDismiss(w http.ResponseWriter, r *http.Request) {
	s.suggester.Dismiss()
	w.WriteHeader(http.StatusOK)
}

// ExitSearch restores the bookmarked rotation.
func (s slideshowService) ExitSearch(w http.ResponseWriter, r *http.Request) {
	s.show.ExitSearchMode()
	w.WriteHeader(http.StatusOK)
}

// SetLanguage switches display language and persists the preference.
func (s slideshowService) SetLanguage(w http.ResponseWriter, r *http.Request) {
	var request SettingRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil ||
		(request.Value != "en" && request.Value != "vi") {
		w.WriteHeader(http.StatusBadRequest)
		if _, err := w.Write([]byte(`{"error": "value must be en or vi"}`)); err != nil {
			log.Warn().Err(err).Msg("failed to write response")
		}
		return
	}
	s.show.SetLanguage(request.Value)
	s.persistPreference(func(p *db.Preferences) { p.Language = request.Value })
	w.WriteHeader(http.StatusOK)
}

// SetLayout switches between the split-pane and immersive layouts and
// persists the preference.
func (s slideshowService) SetLayout(w http.ResponseWriter, r *http.Request) {
	var request SettingRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil ||
		(request.Value != db.LayoutDefault && request.Value != db.LayoutFullScreen) {
		w.WriteHeader(http.StatusBadRequest)
		if _, err := w.Write([]byte(`{"error": "unknown layout"}`)); err != nil {
			log.Warn().Err(err).Msg("failed to write response")
		}
		return
	}
	s.show.SetLayout(request.Value)
	s.persistPreference(func(p *db.Preferences) { p.Layout = request.Value })
	w.WriteHeader(http.StatusOK)
}

// Reload repopulates the slideshow from persisted bookmarks.
func (s slideshowService) Reload(w http.ResponseWriter, r *http.Request) {
	if err := s.show.LoadBookmarks(s.storage); err != nil {
		log.Error().Err(err).Msg("failed to reload bookmarks")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s slideshowService) persistPreference(update func(*db.Preferences)) {
	prefs, err := s.storage.GetPreferences()
	if err != nil {
		prefs = db.DefaultPreferences()
	}
	update(&prefs)
	if err := s.storage.SavePreferences(prefs); err != nil {
		log.Warn().Err(err).Msg("failed to persist preference")
	}
}

func boolJSON(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

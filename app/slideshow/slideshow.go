// Package slideshow drives the word review loop: an ordered sequence of
// looked-up words, each independently loading/loaded/errored, with manual
// navigation, timed auto-advance and live language/layout switching.
package slideshow

import (
	"sort"
	"sync"
	"time"

	"github.com/hanzilala/hanzilala/app/clients/hanzii"
	"github.com/hanzilala/hanzilala/app/db"

	"github.com/rs/zerolog/log"
)

// Status is the fetch lifecycle state of a single entry.
type Status int

const (
	StatusPending Status = iota
	StatusReady
	StatusFailed
)

// DefaultAutoPlayInterval is the delay between automatic advances.
const DefaultAutoPlayInterval = 10 * time.Second

// Lookuper resolves a (word, language) pair into a definition.
type Lookuper interface {
	Lookup(word string, language string) (hanzii.WordDefinition, error)
}

type fetchKey struct {
	word     string
	language string
}

// Entry is one word under review.
type Entry struct {
	Word       string
	AddedAt    time.Time
	Status     Status
	Definition *hanzii.WordDefinition
	Error      string

	// key of the authoritative outstanding request or applied result;
	// completions carrying any other key are discarded as stale
	current fetchKey
}

// Snapshot is an immutable view of the show for rendering.
type Snapshot struct {
	Word       string
	Status     Status
	Definition *hanzii.WordDefinition
	Error      string

	Active     int
	Total      int
	Language   string
	Layout     string
	SearchMode bool
	AutoPlay   bool
}

// Show owns the entry sequence and the auto-play timer.
type Show struct {
	mu     sync.Mutex
	lookup Lookuper

	entries []*Entry
	active  int

	language string
	layout   string

	searchMode  bool
	saved       []*Entry
	savedActive int

	autoPlay bool
	stopAuto chan struct{}
	interval time.Duration

	updates chan struct{}
}

// New creates a Show with no entries.
func New(lookup Lookuper, language string, layout string) *Show {
	return &Show{
		lookup:   lookup,
		language: language,
		layout:   layout,
		interval: DefaultAutoPlayInterval,
		updates:  make(chan struct{}, 1),
	}
}

// Updates signals state changes applied by background completions.
func (s *Show) Updates() <-chan struct{} {
	return s.updates
}

func (s *Show) notifyLocked() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}

// SetWords replaces the reviewed sequence and resets the active index.
func (s *Show) SetWords(words []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	entries := make([]*Entry, 0, len(words))
	for _, word := range words {
		entries = append(entries, &Entry{Word: word, AddedAt: now})
	}
	if s.searchMode {
		s.saved = entries
		s.savedActive = 0
		return
	}
	s.entries = entries
	s.active = 0
	s.refreshLocked()
	s.syncAutoPlayLocked()
}

// LoadBookmarks populates the sequence from persisted bookmarks, keeping
// only those from the current calendar day and deleting the rest.
func (s *Show) LoadBookmarks(storage db.Storage) error {
	bookmarks, err := storage.ListBookmarks()
	if err != nil {
		return err
	}
	fresh := bookmarks[:0]
	for _, b := range bookmarks {
		if !b.FromToday() {
			if err := storage.DeleteBookmark(b.Word); err != nil {
				log.Warn().Err(err).Str("word", b.Word).Msg("failed to delete stale bookmark")
			}
			continue
		}
		fresh = append(fresh, b)
	}
	sort.Slice(fresh, func(i, j int) bool {
		if fresh[i].Timestamp.Equal(fresh[j].Timestamp) {
			return fresh[i].Word < fresh[j].Word
		}
		return fresh[i].Timestamp.Before(fresh[j].Timestamp)
	})
	words := make([]string, 0, len(fresh))
	for _, b := range fresh {
		words = append(words, b.Word)
	}
	s.SetWords(words)
	return nil
}

// Advance moves to the next entry with wraparound. No-op in search mode.
// Manual navigation always disables auto-play first, so a timer tick and
// a user action can never both move the index.
func (s *Show) Advance() {
	s.manualMove(1)
}

// Retreat moves to the previous entry with wraparound. No-op in search mode.
func (s *Show) Retreat() {
	s.manualMove(-1)
}

func (s *Show) manualMove(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoPlay = false
	s.stopAutoPlayLocked()
	if s.searchMode {
		return
	}
	s.moveLocked(delta)
}

func (s *Show) moveLocked(delta int) {
	if len(s.entries) == 0 {
		return
	}
	n := len(s.entries)
	s.active = ((s.active+delta)%n + n) % n
	s.refreshLocked()
}

// SetLanguage switches the display language. The active entry re-enters
// pending even when its word is unchanged: glosses and transliteration
// are language-dependent.
func (s *Show) SetLanguage(language string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.language == language {
		return
	}
	s.language = language
	s.refreshLocked()
}

// SetLayout switches the rendering mode. Auto-play runs only in the
// default split-pane layout and is torn down when leaving it.
func (s *Show) SetLayout(layout string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.layout == layout {
		return
	}
	s.layout = layout
	s.syncAutoPlayLocked()
}

// ToggleAutoPlay flips the auto-play flag and returns the new value.
func (s *Show) ToggleAutoPlay() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoPlay = !s.autoPlay
	s.syncAutoPlayLocked()
	return s.autoPlay
}

// EnterSearchMode replaces the sequence with a single ad hoc entry,
// suspending the normal rotation until ExitSearchMode.
func (s *Show) EnterSearchMode(word string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopAutoPlayLocked()
	if !s.searchMode {
		s.saved = s.entries
		s.savedActive = s.active
		s.searchMode = true
	}
	s.entries = []*Entry{{Word: word, AddedAt: time.Now()}}
	s.active = 0
	s.refreshLocked()
}

// ExitSearchMode restores the sequence snapshot taken on entry and
// resets the active index.
func (s *Show) ExitSearchMode() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.searchMode {
		return
	}
	s.searchMode = false
	s.entries = s.saved
	s.saved = nil
	s.active = 0
	s.refreshLocked()
	s.syncAutoPlayLocked()
}

// refreshLocked makes sure the active entry has an authoritative fetch
// for the current (word, language) pair. Entries already loaded for the
// same pair are not refetched.
func (s *Show) refreshLocked() {
	if len(s.entries) == 0 {
		return
	}
	entry := s.entries[s.active]
	key := fetchKey{word: entry.Word, language: s.language}
	if entry.current == key && entry.Status != StatusFailed {
		return
	}
	entry.Status = StatusPending
	entry.Error = ""
	entry.Definition = nil
	entry.current = key
	go s.fetch(entry, key)
}

func (s *Show) fetch(entry *Entry, key fetchKey) {
	item, err := s.lookup.Lookup(key.word, key.language)
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.current != key {
		// superseded while in flight
		return
	}
	if err != nil {
		log.Error().Err(err).Str("word", key.word).Str("language", key.language).
			Msg("failed to fetch word definition")
		entry.Status = StatusFailed
		entry.Error = "failed to load definition"
		s.notifyLocked()
		return
	}
	entry.Status = StatusReady
	entry.Definition = &item
	s.notifyLocked()
}

// syncAutoPlayLocked reconciles the timer with the current state: it runs
// only while auto-play is on, the layout is the split-pane one, search
// mode is off and there is more than one entry.
func (s *Show) syncAutoPlayLocked() {
	shouldRun := s.autoPlay && !s.searchMode && s.layout == db.LayoutDefault && len(s.entries) > 1
	if !shouldRun {
		s.stopAutoPlayLocked()
		return
	}
	if s.stopAuto != nil {
		return
	}
	stop := make(chan struct{})
	s.stopAuto = stop
	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.autoAdvance(stop)
			case <-stop:
				return
			}
		}
	}()
}

func (s *Show) stopAutoPlayLocked() {
	if s.stopAuto != nil {
		close(s.stopAuto)
		s.stopAuto = nil
	}
}

func (s *Show) autoAdvance(stop chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopAuto != stop {
		// a manual action already tore this timer down
		return
	}
	s.moveLocked(1)
	s.notifyLocked()
}

// Snapshot returns the current state for rendering.
func (s *Show) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Active:     s.active,
		Total:      len(s.entries),
		Language:   s.language,
		Layout:     s.layout,
		SearchMode: s.searchMode,
		AutoPlay:   s.autoPlay,
	}
	if len(s.entries) > 0 {
		entry := s.entries[s.active]
		snap.Word = entry.Word
		snap.Status = entry.Status
		snap.Definition = entry.Definition
		snap.Error = entry.Error
	}
	return snap
}

// Close tears down the auto-play timer.
func (s *Show) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopAutoPlayLocked()
}

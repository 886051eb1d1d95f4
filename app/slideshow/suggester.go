package slideshow

import (
	"strings"
	"sync"
	"time"

	"github.com/hanzilala/hanzilala/app/clients/hanzii"
)

// DefaultDebounce is the quiet window after the last keystroke before a
// suggestion query is issued.
const DefaultDebounce = 300 * time.Millisecond

// SuggestClient fetches suggestions for a partial query.
type SuggestClient interface {
	Suggest(query string) []hanzii.Suggestion
}

// Suggester turns keystrokes into debounced suggestion queries and a
// selectable result list. Debouncing is trailing-edge: every keystroke
// restarts the window and only the final quiescent text is queried.
type Suggester struct {
	client   SuggestClient
	delay    time.Duration
	onSubmit func(word string)

	mu          sync.Mutex
	text        string
	timer       *time.Timer
	lastIssued  string
	suggestions []hanzii.Suggestion
	visible     bool
	closed      bool
}

// NewSuggester creates a Suggester. onSubmit receives searched words:
// clicked suggestions and explicit submits both land there.
func NewSuggester(client SuggestClient, onSubmit func(word string)) *Suggester {
	return &Suggester{client: client, delay: DefaultDebounce, onSubmit: onSubmit}
}

// Input registers the current input text after a keystroke.
func (s *Suggester) Input(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.text = text
	if s.timer != nil {
		s.timer.Stop()
	}
	query := strings.TrimSpace(text)
	if query == "" {
		s.suggestions = nil
		s.visible = false
		return
	}
	s.timer = time.AfterFunc(s.delay, func() { s.issue(query) })
}

// issue runs after the debounce window. In-flight responses are not
// cancelled; a response for anything but the most recently issued query
// is dropped on arrival.
func (s *Suggester) issue(query string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.lastIssued = query
	s.mu.Unlock()

	items := s.client.Suggest(query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.lastIssued != query {
		return
	}
	s.suggestions = items
	s.visible = len(items) > 0
}

// Select submits a clicked suggestion immediately, bypassing the debounce,
// and clears the list.
func (s *Suggester) Select(word string) {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.text = word
	s.lastIssued = ""
	s.suggestions = nil
	s.visible = false
	submit := s.onSubmit
	s.mu.Unlock()
	if submit != nil {
		submit(word)
	}
}

// Submit searches the current input text verbatim after trimming.
func (s *Suggester) Submit() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	word := strings.TrimSpace(s.text)
	s.lastIssued = ""
	s.suggestions = nil
	s.visible = false
	submit := s.onSubmit
	s.mu.Unlock()
	if word == "" || submit == nil {
		return
	}
	submit(word)
}

// Dismiss hides the suggestion list without clearing the input text.
func (s *Suggester) Dismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = false
}

// Suggestions returns the current list and whether it should be shown.
func (s *Suggester) Suggestions() ([]hanzii.Suggestion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.suggestions, s.visible
}

// Text returns the current input text.
func (s *Suggester) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Close stops the pending timer; late callbacks become no-ops.
func (s *Suggester) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
}

package db

import (
	"encoding/base64"
	"errors"
	"time"

	"github.com/hanzilala/hanzilala/app/clients/hanzii"

	"github.com/google/uuid"
)

// ErrNotFound is returned when object not found
var ErrNotFound error = errors.New("not found")

// GenerateID generates new uuid and encodes it to base64
func GenerateID() string {
	id := [16]byte(uuid.New())
	return base64.RawURLEncoding.EncodeToString(id[:])
}

// Storage defines methods provided by database implementations
type Storage interface {
	// GetBookmark returns bookmark by word
	GetBookmark(word string) (Bookmark, error)
	// SaveBookmark saves bookmark
	SaveBookmark(Bookmark) error
	// DeleteBookmark removes bookmark by word
	DeleteBookmark(word string) error
	// ListBookmarks returns all saved bookmarks
	ListBookmarks() ([]Bookmark, error)

	// GetSession returns the stored session
	GetSession() (Session, error)
	// SaveSession stores the session
	SaveSession(Session) error
	// ClearSession removes token and user in one step
	ClearSession() error

	// GetLexicon returns the cached character reading table
	GetLexicon() (map[string]string, error)
	// SaveLexicon stores the character reading table
	SaveLexicon(map[string]string) error
	// ClearLexicon drops the cached table
	ClearLexicon() error

	// GetPreferences returns UI preferences
	GetPreferences() (Preferences, error)
	// SavePreferences stores UI preferences
	SavePreferences(Preferences) error
}

// Bookmark holds a word saved by the user together with the definition
// snapshot taken at save time.
type Bookmark struct {
	Word          string
	Timestamp     time.Time
	Definition    string
	Pronunciation string
}

// FromToday reports whether the bookmark was created on the current
// calendar day. Older bookmarks are garbage-collected lazily on load.
func (b Bookmark) FromToday() bool {
	return b.fromDay(time.Now())
}

func (b Bookmark) fromDay(day time.Time) bool {
	y1, m1, d1 := b.Timestamp.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Session pairs the upstream session token with the user profile.
type Session struct {
	Token string
	User  hanzii.User
}

// Valid reports whether the session can be trusted: the token must pass
// format validation and the profile must carry email and username.
func (s Session) Valid() bool {
	return hanzii.ValidToken(s.Token) && s.User.Email != "" && s.User.Username != ""
}

// layout modes
const (
	LayoutDefault    = "default"
	LayoutFullScreen = "fullscreen"
)

// Preferences holds persisted UI settings.
type Preferences struct {
	Theme    string
	Language string
	Layout   string
}

// DefaultPreferences returns the settings used before the user changes
// anything.
func DefaultPreferences() Preferences {
	return Preferences{Theme: "latte", Language: "vi", Layout: LayoutDefault}
}

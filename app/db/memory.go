package db

import "sync"

// InMemoryStorage keeps everything in process memory. Used in tests and
// as a fallback when no persistent backend is configured.
type InMemoryStorage struct {
	bookmarks   map[string]Bookmark
	session     *Session
	lexicon     map[string]string
	preferences *Preferences
	mx          sync.RWMutex
}

func (d *InMemoryStorage) GetBookmark(word string) (Bookmark, error) {
	d.mx.RLock()
	defer d.mx.RUnlock()
	item, ok := d.bookmarks[word]
	if !ok {
		return Bookmark{}, ErrNotFound
	}
	return item, nil
}

func (d *InMemoryStorage) SaveBookmark(item Bookmark) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.bookmarks[item.Word] = item
	return nil
}

func (d *InMemoryStorage) DeleteBookmark(word string) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	delete(d.bookmarks, word)
	return nil
}

func (d *InMemoryStorage) ListBookmarks() ([]Bookmark, error) {
	d.mx.RLock()
	defer d.mx.RUnlock()
	res := make([]Bookmark, 0, len(d.bookmarks))
	for _, item := range d.bookmarks {
		res = append(res, item)
	}
	return res, nil
}

func (d *InMemoryStorage) GetSession() (Session, error) {
	d.mx.RLock()
	defer d.mx.RUnlock()
	if d.session == nil {
		return Session{}, ErrNotFound
	}
	return *d.session, nil
}

func (d *InMemoryStorage) SaveSession(s Session) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.session = &s
	return nil
}

func (d *InMemoryStorage) ClearSession() error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.session = nil
	return nil
}

func (d *InMemoryStorage) GetLexicon() (map[string]string, error) {
	d.mx.RLock()
	defer d.mx.RUnlock()
	if d.lexicon == nil {
		return nil, ErrNotFound
	}
	return d.lexicon, nil
}

func (d *InMemoryStorage) SaveLexicon(table map[string]string) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.lexicon = table
	return nil
}

func (d *InMemoryStorage) ClearLexicon() error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.lexicon = nil
	return nil
}

func (d *InMemoryStorage) GetPreferences() (Preferences, error) {
	d.mx.RLock()
	defer d.mx.RUnlock()
	if d.preferences == nil {
		return Preferences{}, ErrNotFound
	}
	return *d.preferences, nil
}

func (d *InMemoryStorage) SavePreferences(p Preferences) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.preferences = &p
	return nil
}

func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{
		bookmarks: make(map[string]Bookmark),
	}
}

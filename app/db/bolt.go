package db

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

const (
	bucketBookmarks   = "Bookmarks"
	bucketSessions    = "Sessions"
	bucketLexicon     = "Lexicon"
	bucketPreferences = "Preferences"

	keySession     = "session"
	keyLexicon     = "table"
	keyPreferences = "preferences"
)

// BoltStorage implements storage interface for BoltDB
type BoltStorage struct {
	db *bolt.DB
}

// GetBookmark returns bookmark from database
func (b *BoltStorage) GetBookmark(word string) (Bookmark, error) {
	var res Bookmark
	if err := b.db.View(func(tx *bolt.Tx) error {
		jdata := tx.Bucket([]byte(bucketBookmarks)).Get([]byte(word))
		if len(jdata) == 0 {
			return ErrNotFound
		}
		if err := json.Unmarshal(jdata, &res); err != nil {
			return fmt.Errorf("unmarshal bookmark: %w", err)
		}
		return nil
	}); err != nil {
		return Bookmark{}, err
	}
	return res, nil
}

// SaveBookmark saves bookmark to database
func (b *BoltStorage) SaveBookmark(item Bookmark) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		jdata, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("marshal bookmark: %w", err)
		}
		if err := tx.Bucket([]byte(bucketBookmarks)).Put([]byte(item.Word), jdata); err != nil {
			return fmt.Errorf("put bookmark: %w", err)
		}
		return nil
	})
}

// DeleteBookmark removes bookmark from database
func (b *BoltStorage) DeleteBookmark(word string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketBookmarks)).Delete([]byte(word))
	})
}

// ListBookmarks returns all bookmarks
func (b *BoltStorage) ListBookmarks() ([]Bookmark, error) {
	var res []Bookmark
	if err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketBookmarks)).ForEach(func(_, jdata []byte) error {
			var item Bookmark
			if err := json.Unmarshal(jdata, &item); err != nil {
				return fmt.Errorf("unmarshal bookmark: %w", err)
			}
			res = append(res, item)
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return res, nil
}

// GetSession returns stored session
func (b *BoltStorage) GetSession() (Session, error) {
	var res Session
	if err := b.db.View(func(tx *bolt.Tx) error {
		jdata := tx.Bucket([]byte(bucketSessions)).Get([]byte(keySession))
		if len(jdata) == 0 {
			return ErrNotFound
		}
		if err := json.Unmarshal(jdata, &res); err != nil {
			return fmt.Errorf("unmarshal session: %w", err)
		}
		return nil
	}); err != nil {
		return Session{}, err
	}
	return res, nil
}

// SaveSession saves session to database
func (b *BoltStorage) SaveSession(s Session) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		jdata, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}
		return tx.Bucket([]byte(bucketSessions)).Put([]byte(keySession), jdata)
	})
}

// ClearSession removes token and user
func (b *BoltStorage) ClearSession() error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketSessions)).Delete([]byte(keySession))
	})
}

// GetLexicon returns cached character reading table
func (b *BoltStorage) GetLexicon() (map[string]string, error) {
	var res map[string]string
	if err := b.db.View(func(tx *bolt.Tx) error {
		jdata := tx.Bucket([]byte(bucketLexicon)).Get([]byte(keyLexicon))
		if len(jdata) == 0 {
			return ErrNotFound
		}
		if err := json.Unmarshal(jdata, &res); err != nil {
			return fmt.Errorf("unmarshal lexicon: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return res, nil
}

// SaveLexicon saves character reading table
func (b *BoltStorage) SaveLexicon(table map[string]string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		jdata, err := json.Marshal(table)
		if err != nil {
			return fmt.Errorf("marshal lexicon: %w", err)
		}
		return tx.Bucket([]byte(bucketLexicon)).Put([]byte(keyLexicon), jdata)
	})
}

// ClearLexicon drops the cached table
func (b *BoltStorage) ClearLexicon() error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketLexicon)).Delete([]byte(keyLexicon))
	})
}

// GetPreferences returns stored UI preferences
func (b *BoltStorage) GetPreferences() (Preferences, error) {
	var res Preferences
	if err := b.db.View(func(tx *bolt.Tx) error {
		jdata := tx.Bucket([]byte(bucketPreferences)).Get([]byte(keyPreferences))
		if len(jdata) == 0 {
			return ErrNotFound
		}
		if err := json.Unmarshal(jdata, &res); err != nil {
			return fmt.Errorf("unmarshal preferences: %w", err)
		}
		return nil
	}); err != nil {
		return Preferences{}, err
	}
	return res, nil
}

// SavePreferences saves UI preferences
func (b *BoltStorage) SavePreferences(p Preferences) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		jdata, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshal preferences: %w", err)
		}
		return tx.Bucket([]byte(bucketPreferences)).Put([]byte(keyPreferences), jdata)
	})
}

// NewBoltStorage creates BoltStorage instance and initializes buckets
func NewBoltStorage(db *bolt.DB) (*BoltStorage, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		buckets := []string{bucketBookmarks, bucketSessions, bucketLexicon, bucketPreferences}
		for _, bucket := range buckets {
			_, err := tx.CreateBucketIfNotExists([]byte(bucket))
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create buckets")
	}
	return &BoltStorage{db: db}, nil
}

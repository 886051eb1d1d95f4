package db

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/hanzilala/hanzilala/app/clients/hanzii"
)

func getBoltDB(t *testing.T) (*bolt.DB, func()) {
	tmpFile, err := ioutil.TempFile("", "bolt_test")
	require.NoError(t, err)
	boltDB, err := bolt.Open(tmpFile.Name(), 0600, nil)
	require.NoError(t, err)
	return boltDB, func() {
		os.Remove(tmpFile.Name())
		boltDB.Close()
	}
}

func getStorage(t *testing.T) (*BoltStorage, func()) {
	boltDB, cleanup := getBoltDB(t)
	storage, err := NewBoltStorage(boltDB)
	require.NoError(t, err)
	return storage, cleanup
}

func getBookmark() Bookmark {
	return Bookmark{
		Word:          "宝贝",
		Timestamp:     time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC),
		Definition:    "darling; treasure",
		Pronunciation: "bǎo bèi",
	}
}

func getSession() Session {
	return Session{
		Token: "abcDEF12345",
		User: hanzii.User{
			Token:    "abcDEF12345",
			Username: "learner",
			Email:    "learner@example.com",
			Language: "vi",
		},
	}
}

func TestNewBoltStorage(t *testing.T) {
	buckets := []string{
		bucketBookmarks,
		bucketSessions,
		bucketLexicon,
		bucketPreferences,
	}
	t.Run("first", func(t *testing.T) {
		boltDB, cleanup := getBoltDB(t)
		defer cleanup()
		storage, err := NewBoltStorage(boltDB)
		require.NoError(t, err)
		storage.db.View(func(tx *bolt.Tx) error {
			for _, b := range buckets {
				assert.NotNil(t, tx.Bucket([]byte(b)))
				assert.Equal(t, 0, tx.Bucket([]byte(b)).Stats().KeyN)
			}
			return nil
		})
	})
	t.Run("already exists", func(t *testing.T) {
		boltDB, cleanup := getBoltDB(t)
		defer cleanup()
		_, err := NewBoltStorage(boltDB)
		require.NoError(t, err)
		_, err = NewBoltStorage(boltDB)
		require.NoError(t, err)
	})
}

func TestBoltStorageBookmarks(t *testing.T) {
	t.Run("save and get", func(t *testing.T) {
		storage, cleanup := getStorage(t)
		defer cleanup()
		item := getBookmark()
		require.NoError(t, storage.SaveBookmark(item))
		stored, err := storage.GetBookmark(item.Word)
		require.NoError(t, err)
		assert.Equal(t, item, stored)
	})
	t.Run("get missing", func(t *testing.T) {
		storage, cleanup := getStorage(t)
		defer cleanup()
		_, err := storage.GetBookmark("无")
		assert.ErrorIs(t, err, ErrNotFound)
	})
	t.Run("get invalid JSON", func(t *testing.T) {
		storage, cleanup := getStorage(t)
		defer cleanup()
		require.NoError(t, storage.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket([]byte(bucketBookmarks)).Put([]byte("好"), []byte("Invalid JSON"))
		}))
		_, err := storage.GetBookmark("好")
		assert.Error(t, err)
	})
	t.Run("delete", func(t *testing.T) {
		storage, cleanup := getStorage(t)
		defer cleanup()
		item := getBookmark()
		require.NoError(t, storage.SaveBookmark(item))
		require.NoError(t, storage.DeleteBookmark(item.Word))
		_, err := storage.GetBookmark(item.Word)
		assert.ErrorIs(t, err, ErrNotFound)
	})
	t.Run("delete missing", func(t *testing.T) {
		storage, cleanup := getStorage(t)
		defer cleanup()
		assert.NoError(t, storage.DeleteBookmark("无"))
	})
	t.Run("list", func(t *testing.T) {
		storage, cleanup := getStorage(t)
		defer cleanup()
		first := getBookmark()
		second := getBookmark()
		second.Word = "你好"
		require.NoError(t, storage.SaveBookmark(first))
		require.NoError(t, storage.SaveBookmark(second))
		items, err := storage.ListBookmarks()
		require.NoError(t, err)
		assert.ElementsMatch(t, []Bookmark{first, second}, items)
	})
	t.Run("list empty", func(t *testing.T) {
		storage, cleanup := getStorage(t)
		defer cleanup()
		items, err := storage.ListBookmarks()
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestBoltStorageSession(t *testing.T) {
	t.Run("save and get", func(t *testing.T) {
		storage, cleanup := getStorage(t)
		defer cleanup()
		session := getSession()
		require.NoError(t, storage.SaveSession(session))
		stored, err := storage.GetSession()
		require.NoError(t, err)
		assert.Equal(t, session, stored)
	})
	t.Run("get missing", func(t *testing.T) {
		storage, cleanup := getStorage(t)
		defer cleanup()
		_, err := storage.GetSession()
		assert.ErrorIs(t, err, ErrNotFound)
	})
	t.Run("clear", func(t *testing.T) {
		storage, cleanup := getStorage(t)
		defer cleanup()
		require.NoError(t, storage.SaveSession(getSession()))
		require.NoError(t, storage.ClearSession())
		_, err := storage.GetSession()
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestBoltStorageLexicon(t *testing.T) {
	table := map[string]string{"宝": "bảo", "贝": "bối"}

	t.Run("save and get", func(t *testing.T) {
		storage, cleanup := getStorage(t)
		defer cleanup()
		require.NoError(t, storage.SaveLexicon(table))
		stored, err := storage.GetLexicon()
		require.NoError(t, err)
		assert.Equal(t, table, stored)
	})
	t.Run("get missing", func(t *testing.T) {
		storage, cleanup := getStorage(t)
		defer cleanup()
		_, err := storage.GetLexicon()
		assert.ErrorIs(t, err, ErrNotFound)
	})
	t.Run("clear", func(t *testing.T) {
		storage, cleanup := getStorage(t)
		defer cleanup()
		require.NoError(t, storage.SaveLexicon(table))
		require.NoError(t, storage.ClearLexicon())
		_, err := storage.GetLexicon()
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestBoltStoragePreferences(t *testing.T) {
	t.Run("save and get", func(t *testing.T) {
		storage, cleanup := getStorage(t)
		defer cleanup()
		prefs := Preferences{Theme: "mocha", Language: "en", Layout: LayoutFullScreen}
		require.NoError(t, storage.SavePreferences(prefs))
		stored, err := storage.GetPreferences()
		require.NoError(t, err)
		assert.Equal(t, prefs, stored)
	})
	t.Run("get missing", func(t *testing.T) {
		storage, cleanup := getStorage(t)
		defer cleanup()
		_, err := storage.GetPreferences()
		assert.ErrorIs(t, err, ErrNotFound)
	})
	t.Run("stored format", func(t *testing.T) {
		storage, cleanup := getStorage(t)
		defer cleanup()
		prefs := DefaultPreferences()
		require.NoError(t, storage.SavePreferences(prefs))
		storage.db.View(func(tx *bolt.Tx) error {
			jdata := tx.Bucket([]byte(bucketPreferences)).Get([]byte(keyPreferences))
			var decoded Preferences
			require.NoError(t, json.Unmarshal(jdata, &decoded))
			assert.Equal(t, prefs, decoded)
			return nil
		})
	})
}

package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

const (
	prefixBookmark = "bookmark-"

	redisKeySession     = "session"
	redisKeyLexicon     = "lexicon"
	redisKeyPreferences = "preferences"
)

// RedisStorage implements storage interface for Redis
type RedisStorage struct {
	db *redis.Client
}

func (s *RedisStorage) get(key string, target interface{}) error {
	data, err := s.db.Get(context.Background(), key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		return fmt.Errorf("fetching %v: %w", key, err)
	}
	if jerr := json.Unmarshal([]byte(data), target); jerr != nil {
		return fmt.Errorf("unmarshal %v: %w", key, jerr)
	}
	return nil
}

func (s *RedisStorage) set(key string, value interface{}) error {
	jdata, jerr := json.Marshal(value)
	if jerr != nil {
		return fmt.Errorf("marshal %v: %w", key, jerr)
	}
	if _, err := s.db.Set(context.Background(), key, string(jdata), 0).Result(); err != nil {
		return fmt.Errorf("saving %v: %w", key, err)
	}
	return nil
}

func (s *RedisStorage) delete(key string) error {
	if _, err := s.db.Del(context.Background(), key).Result(); err != nil {
		return fmt.Errorf("deleting %v: %w", key, err)
	}
	return nil
}

// GetBookmark returns bookmark from redis
func (s *RedisStorage) GetBookmark(word string) (Bookmark, error) {
	var item Bookmark
	if err := s.get(prefixBookmark+word, &item); err != nil {
		return Bookmark{}, err
	}
	return item, nil
}

// SaveBookmark saves bookmark to redis
func (s *RedisStorage) SaveBookmark(item Bookmark) error {
	return s.set(prefixBookmark+item.Word, item)
}

// DeleteBookmark removes bookmark from redis
func (s *RedisStorage) DeleteBookmark(word string) error {
	return s.delete(prefixBookmark + word)
}

// ListBookmarks returns all bookmarks from redis
func (s *RedisStorage) ListBookmarks() ([]Bookmark, error) {
	keys, err := s.db.Keys(context.Background(), prefixBookmark+"*").Result()
	if err != nil {
		return nil, fmt.Errorf("listing bookmarks: %w", err)
	}
	res := make([]Bookmark, 0, len(keys))
	for _, key := range keys {
		var item Bookmark
		if err := s.get(key, &item); err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		res = append(res, item)
	}
	return res, nil
}

// GetSession returns session from redis
func (s *RedisStorage) GetSession() (Session, error) {
	var session Session
	if err := s.get(redisKeySession, &session); err != nil {
		return Session{}, err
	}
	return session, nil
}

// SaveSession saves session to redis
func (s *RedisStorage) SaveSession(session Session) error {
	return s.set(redisKeySession, session)
}

// ClearSession removes session from redis
func (s *RedisStorage) ClearSession() error {
	return s.delete(redisKeySession)
}

// GetLexicon returns character reading table from redis
func (s *RedisStorage) GetLexicon() (map[string]string, error) {
	var table map[string]string
	if err := s.get(redisKeyLexicon, &table); err != nil {
		return nil, err
	}
	return table, nil
}

// SaveLexicon saves character reading table to redis
func (s *RedisStorage) SaveLexicon(table map[string]string) error {
	return s.set(redisKeyLexicon, table)
}

// ClearLexicon removes character reading table from redis
func (s *RedisStorage) ClearLexicon() error {
	return s.delete(redisKeyLexicon)
}

// GetPreferences returns UI preferences from redis
func (s *RedisStorage) GetPreferences() (Preferences, error) {
	var prefs Preferences
	if err := s.get(redisKeyPreferences, &prefs); err != nil {
		return Preferences{}, err
	}
	return prefs, nil
}

// SavePreferences saves UI preferences to redis
func (s *RedisStorage) SavePreferences(prefs Preferences) error {
	return s.set(redisKeyPreferences, prefs)
}

// NewRedisStorage creates RedisStorage instance
func NewRedisStorage(url string) (*RedisStorage, error) {
	options, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse redis URL")
	}
	client := redis.NewClient(options)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, errors.Wrap(err, "failed to ping redis")
	}
	return &RedisStorage{db: client}, nil
}

// NewRedisStorageWithClient creates RedisStorage with an existing client
func NewRedisStorageWithClient(client *redis.Client) *RedisStorage {
	return &RedisStorage{db: client}
}

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/hanzilala/hanzilala/app/clients/hanzii"
	"github.com/hanzilala/hanzilala/app/db"
	"github.com/hanzilala/hanzilala/app/slideshow"
)

const (
	testJWTSecret = "tokentokentokentoken"
	testUsername  = "learner"
)

const testSearchBody = `{
	"result": [
		{
			"id": 1,
			"word": "宝贝",
			"pinyin": "bǎo bèi",
			"content": [{"means": {"tdpt": ["darling", "treasure"]}}]
		}
	]
}`

// getUpstream fakes the external dictionary service.
func getUpstream(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/未知"):
			w.Write([]byte(`{"result": []}`))
		case strings.HasSuffix(r.URL.Path, "/坏"):
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.Write([]byte(testSearchBody))
		}
	})
	mux.HandleFunc("/api/suggest", func(w http.ResponseWriter, r *http.Request) {
		var request struct {
			Keyword string `json:"keyword"`
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		jdata, _ := json.Marshal(map[string]interface{}{
			"status": 200,
			"data":   []string{request.Keyword, "你好#ni hao#nǐ hǎo#hello"},
		})
		w.Write(jdata)
	})
	mux.HandleFunc("/account/loginwithsocial", func(w http.ResponseWriter, r *http.Request) {
		var request struct {
			IDToken string `json:"idToken"`
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		switch request.IDToken {
		case "rejected":
			w.Write([]byte(`{"status": 200, "message": "rejected"}`))
		case "badtoken":
			w.Write([]byte(`{
				"status": 200,
				"result": {"token": "short", "username": "learner", "email": "learner@example.com"}
			}`))
		default:
			w.Write([]byte(`{
				"status": 200,
				"result": {"token": "abcDEF12345", "username": "learner", "email": "learner@example.com"}
			}`))
		}
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// getTestServer returns a running test server together with the show it
// serves, so tests can seed slides directly.
func getTestServer(t *testing.T, storage db.Storage) (*httptest.Server, *slideshow.Show) {
	if storage == nil {
		storage = db.NewInMemoryStorage()
	}
	upstream := getUpstream(t)
	gateway := hanzii.NewClientWithBases(context.Background(), upstream.URL, upstream.URL)
	show := slideshow.New(gateway, "vi", db.LayoutDefault)
	t.Cleanup(show.Close)

	server := NewServer(storage, gateway, nil, show, testJWTSecret)
	srv := httptest.NewServer(server.router)
	t.Cleanup(srv.Close)
	return srv, show
}

// getTestJWT returns a test JWT signed with testJWTSecret
func getTestJWT() string {
	token, _ := (&authService{jwtSecret: []byte(testJWTSecret)}).createToken(testUsername)
	return "Bearer " + token
}

// getExpiredJWT returns a JWT whose validity window is in the past
func getExpiredJWT() string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
		Username: testUsername,
		StandardClaims: jwt.StandardClaims{
			Id:        db.GenerateID(),
			ExpiresAt: time.Now().UTC().Add(-time.Hour).Unix(),
			NotBefore: time.Now().UTC().Add(-2 * time.Hour).Unix(),
		},
	})
	tokenStr, _ := token.SignedString([]byte(testJWTSecret))
	return "Bearer " + tokenStr
}

func getTestSession() db.Session {
	return db.Session{
		Token: "abcDEF12345",
		User: hanzii.User{
			Token:    "abcDEF12345",
			Username: testUsername,
			Email:    "learner@example.com",
		},
	}
}

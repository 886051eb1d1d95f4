package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/hanzilala/hanzilala/app/clients/hanzii"
	"github.com/hanzilala/hanzilala/app/db"
	"github.com/rs/zerolog/log"
)

// JWTClaims custom claims with the authenticated username
type JWTClaims struct {
	Username string `json:"username"`
	jwt.StandardClaims
}

// AuthResponse response for authentication
type AuthResponse struct {
	Token string       `json:"token"`
	User  *hanzii.User `json:"user,omitempty"`
}

// GoogleLoginRequest carries the externally-issued identity token
type GoogleLoginRequest struct {
	IDToken  string `json:"idToken"`
	Language string `json:"language"`
}

// authService implements methods for API authentication
type authService struct {
	gateway   hanzii.Client
	storage   db.Storage
	jwtSecret []byte
}

// createToken creates JWT token
func (s *authService) createToken(username string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
		Username: username,
		StandardClaims: jwt.StandardClaims{
			Id:        db.GenerateID(),
			ExpiresAt: time.Now().UTC().Add(time.Hour * 24).Unix(),
			NotBefore: time.Now().UTC().Unix(),
		},
	})
	tokenStr, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return tokenStr, nil
}

// GoogleLoginHandler exchanges a Google identity token for an application
// session. The upstream session token must pass format validation before
// it is trusted; anything else clears the whole persisted session rather
// than leaving a partially authenticated state.
func (s *authService) GoogleLoginHandler(w http.ResponseWriter, r *http.Request) {
	var request GoogleLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.IDToken == "" {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "idToken is required"}`))
		return
	}
	language := request.Language
	if language == "" {
		language = "vi"
	}

	response, err := s.gateway.LoginWithGoogle(request.IDToken, language)
	if err != nil {
		log.Error().Err(err).Msg("failed to exchange identity token")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error": "login failed"}`))
		return
	}
	if response.Result == nil {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "login rejected"}`))
		return
	}

	session := db.Session{Token: response.Result.Token, User: *response.Result}
	if !session.Valid() {
		if cerr := s.storage.ClearSession(); cerr != nil {
			log.Error().Err(cerr).Msg("failed to clear session")
		}
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "invalid session token"}`))
		return
	}
	if err := s.storage.SaveSession(session); err != nil {
		log.Error().Err(err).Msg("failed to save session")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	token, err := s.createToken(session.User.Username)
	if err != nil {
		log.Error().Err(err).Msg("failed to create token")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	jdata, jerr := json.Marshal(AuthResponse{Token: token, User: response.Result})
	if jerr != nil {
		log.Error().Err(jerr).Msg("failed to marshal json")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Write(jdata)
}

// UserCtx checks the bearer token and the stored session and adds the
// username to request context. An invalid stored session is cleared in
// full before the request is rejected.
func (s *authService) UserCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestToken := r.Header.Get("Authorization")
		if !strings.HasPrefix(requestToken, "Bearer ") {
			requestToken = ""
		}
		requestToken = strings.Replace(requestToken, "Bearer ", "", 1)
		if requestToken == "" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("unauthorized"))
			return
		}
		token, err := jwt.ParseWithClaims(requestToken, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
			return s.jwtSecret, nil
		})
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("unauthorized"))
			return
		}
		claims := token.Claims.(*JWTClaims)
		if claims.Username == "" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("unauthorized"))
			return
		}
		now := time.Now().Unix()
		if claims.NotBefore > now || claims.ExpiresAt < now {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("unauthorized"))
			return
		}

		session, err := s.storage.GetSession()
		if err != nil && !errors.Is(err, db.ErrNotFound) {
			log.Error().Err(err).Msg("failed to get session")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if err != nil || !session.Valid() {
			if cerr := s.storage.ClearSession(); cerr != nil {
				log.Error().Err(cerr).Msg("failed to clear session")
			}
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("unauthorized"))
			return
		}

		ctx := context.WithValue(r.Context(), ctxUsernameKey, claims.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

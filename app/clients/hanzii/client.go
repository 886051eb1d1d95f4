package hanzii

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultAPIBase is the main dictionary/account API host.
	DefaultAPIBase = "https://api.hanzii.net/api"
	// DefaultSuggestBase is the query-as-you-type API host.
	DefaultSuggestBase = "https://suggest.hanzii.net"

	suggestDict  = "cnvi"
	suggestLimit = 8
)

// ErrNotFound is returned when a lookup yields no results.
var ErrNotFound = errors.New("word not found")

// StatusError is returned for non-2xx API responses.
type StatusError struct {
	Code int
}

func (e StatusError) Error() string {
	return fmt.Sprintf("unsuccessfull API response %v", e.Code)
}

var tokenPattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// ValidToken reports whether a session token has the expected format:
// a non-empty alphanumeric string of at least 10 characters.
func ValidToken(token string) bool {
	token = strings.TrimSpace(token)
	return len(token) >= 10 && tokenPattern.MatchString(token)
}

// Client implements integration with the hanzii.net dictionary service.
type Client struct {
	apiBase     string
	suggestBase string
	client      *http.Client
	context     context.Context
}

// Lookup fetches and normalizes the definition of a word.
// language must be "en" or "vi".
func (c Client) Lookup(word string, language string) (WordDefinition, error) {
	var item WordDefinition
	endpoint := fmt.Sprintf("%s/search/%s/%s", c.apiBase, language, url.PathEscape(word))
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return item, fmt.Errorf("create request: %w", err)
	}
	if c.context != nil {
		req = req.WithContext(c.context)
	}
	query := req.URL.Query()
	query.Add("type", "word")
	query.Add("page", "1")
	query.Add("limit", "50")
	req.URL.RawQuery = query.Encode()

	resp, err := c.client.Do(req)
	if err != nil {
		return item, fmt.Errorf("fetch hanzii search: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return item, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		log.Error().
			Str("status", resp.Status).
			Str("word", word).
			Msg("unsuccessfull response from hanzii search")
		return item, StatusError{Code: resp.StatusCode}
	}
	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return item, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(parsed.Result) == 0 {
		return item, ErrNotFound
	}
	return normalizeEntry(parsed.Result[0], language), nil
}

type suggestRequest struct {
	Keyword string `json:"keyword"`
	Dict    string `json:"dict"`
}

type suggestResponse struct {
	Status int      `json:"status"`
	Data   []string `json:"data"`
}

// Suggest returns suggestions for a partial query. Suggestions are a
// non-critical enhancement: any transport, status or parse failure yields
// an empty list instead of an error.
func (c Client) Suggest(query string) []Suggestion {
	payload, err := json.Marshal(suggestRequest{Keyword: query, Dict: suggestDict})
	if err != nil {
		return nil
	}
	req, err := http.NewRequest(
		http.MethodPost, c.suggestBase+"/api/suggest", bytes.NewReader(payload),
	)
	if err != nil {
		return nil
	}
	if c.context != nil {
		req = req.WithContext(c.context)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("query", query).Msg("failed to fetch suggestions")
		return nil
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}
	if resp.StatusCode/100 != 2 {
		log.Warn().
			Str("status", resp.Status).
			Str("query", query).
			Msg("unsuccessfull response from hanzii suggest")
		return nil
	}
	var parsed suggestResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		log.Warn().Err(err).Str("query", query).Msg("malformed suggest response")
		return nil
	}
	if parsed.Status != 200 {
		return nil
	}
	return parseSuggestions(query, parsed.Data)
}

// parseSuggestions converts the #-delimited suggest payload. The first
// element is dropped when it merely echoes the query.
func parseSuggestions(query string, data []string) []Suggestion {
	if len(data) > suggestLimit {
		data = data[:suggestLimit]
	}
	suggestions := make([]Suggestion, 0, len(data))
	for i, item := range data {
		if i == 0 && item == query {
			continue
		}
		parts := strings.Split(item, "#")
		if len(parts) >= 4 {
			suggestions = append(suggestions, Suggestion{
				Word:        parts[0],
				DisplayText: fmt.Sprintf("%s [%s] %s", parts[0], parts[2], parts[3]),
			})
		} else {
			suggestions = append(suggestions, Suggestion{Word: item, DisplayText: item})
		}
	}
	return suggestions
}

type loginRequest struct {
	AccessToken string `json:"accessToken"`
	Language    string `json:"language"`
	IDToken     string `json:"idToken"`
	Provider    string `json:"provider"`
}

// LoginWithGoogle exchanges a Google identity token for a hanzii session.
func (c Client) LoginWithGoogle(idToken string, language string) (AuthResponse, error) {
	var result AuthResponse
	payload, err := json.Marshal(loginRequest{
		AccessToken: "",
		Language:    language,
		IDToken:     idToken,
		Provider:    "google",
	})
	if err != nil {
		return result, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequest(
		http.MethodPost, c.apiBase+"/account/loginwithsocial", bytes.NewReader(payload),
	)
	if err != nil {
		return result, fmt.Errorf("create request: %w", err)
	}
	if c.context != nil {
		req = req.WithContext(c.context)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return result, fmt.Errorf("fetch hanzii login: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return result, fmt.Errorf("read response body: %w", err)
	}
	if jerr := json.Unmarshal(body, &result); jerr != nil && resp.StatusCode/100 == 2 {
		return result, fmt.Errorf("unmarshal response: %w", jerr)
	}
	if resp.StatusCode/100 != 2 {
		log.Error().
			Str("status", resp.Status).
			Str("message", result.Message).
			Msg("unsuccessfull response from hanzii login")
		return result, StatusError{Code: resp.StatusCode}
	}
	return result, nil
}

// NewClient creates a Client against the production hanzii endpoints.
func NewClient(ctx context.Context) Client {
	return Client{
		apiBase:     DefaultAPIBase,
		suggestBase: DefaultSuggestBase,
		client:      http.DefaultClient,
		context:     ctx,
	}
}

// NewClientWithBases creates a Client against custom endpoints.
func NewClientWithBases(ctx context.Context, apiBase, suggestBase string) Client {
	return Client{
		apiBase:     strings.TrimRight(apiBase, "/"),
		suggestBase: strings.TrimRight(suggestBase, "/"),
		client:      http.DefaultClient,
		context:     ctx,
	}
}

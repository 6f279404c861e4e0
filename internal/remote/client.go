// Package remote talks to the hosted backend that mirrors the user record and
// serves the vocabulary catalog. Local state stays authoritative; callers
// treat every error here as non-fatal.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/vytor/senseflash/internal/logger"
	"github.com/vytor/senseflash/internal/models"
)

// ErrNotFound is returned when the backend has no matching record.
var ErrNotFound = errors.New("remote: record not found")

// Client is the remote capability the engine depends on.
type Client interface {
	Insert(ctx context.Context, user models.UserData) error
	Update(ctx context.Context, userID string, patch models.UserDataPatch) (models.UserData, error)
	Fetch(ctx context.Context, userID string) (models.UserData, error)
	SensesByTag(ctx context.Context, tag string) ([]models.SenseRow, error)
}

// Tables on the backend.
const (
	userTable  = "UserData"
	senseTable = "SensesList"
)

// HTTPClient speaks the PostgREST dialect.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a client for baseURL, e.g. https://example.supabase.co.
func New(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Insert(ctx context.Context, user models.UserData) error {
	log := logger.FromContext(ctx).WithPrefix("remote").WithField("user_id", user.UserID)

	body, err := json.Marshal([]models.UserData{user})
	if err != nil {
		return err
	}
	if _, err := c.do(ctx, http.MethodPost, userTable, nil, body, "return=minimal"); err != nil {
		log.Error("failed to insert user data: %v", err)
		return err
	}
	log.Info("inserted user data")
	return nil
}

func (c *HTTPClient) Update(ctx context.Context, userID string, patch models.UserDataPatch) (models.UserData, error) {
	log := logger.FromContext(ctx).WithPrefix("remote").WithField("user_id", userID)

	body, err := json.Marshal(patch)
	if err != nil {
		return models.UserData{}, err
	}
	q := url.Values{"userId": {"eq." + userID}, "select": {"*"}}
	raw, err := c.do(ctx, http.MethodPatch, userTable, q, body, "return=representation")
	if err != nil {
		log.Error("failed to update user data: %v", err)
		return models.UserData{}, err
	}
	user, err := single(raw)
	if err != nil {
		log.Warn("update returned no record: %v", err)
		return models.UserData{}, err
	}
	log.Debug("updated user data")
	return user, nil
}

func (c *HTTPClient) Fetch(ctx context.Context, userID string) (models.UserData, error) {
	log := logger.FromContext(ctx).WithPrefix("remote").WithField("user_id", userID)

	q := url.Values{"userId": {"eq." + userID}, "select": {"*"}}
	raw, err := c.do(ctx, http.MethodGet, userTable, q, nil, "")
	if err != nil {
		log.Error("failed to fetch user data: %v", err)
		return models.UserData{}, err
	}
	return single(raw)
}

// senseRow is a catalog row with its word embedded. PostgREST renders the
// embedded relation as an object or a one-element array depending on the
// foreign key direction, so it is decoded lazily.
type senseRow struct {
	ID       int64           `json:"id"`
	WordID   int64           `json:"word_id"`
	Pos      string          `json:"pos"`
	En       string          `json:"en"`
	Ja       string          `json:"ja"`
	SeEn     string          `json:"se_en"`
	SeJa     string          `json:"se_ja"`
	Tags     string          `json:"tags"`
	WordList json.RawMessage `json:"WordList"`
}

type wordRef struct {
	ID   int64  `json:"id"`
	Word string `json:"word"`
}

func (r senseRow) word() (wordRef, bool) {
	if len(r.WordList) == 0 || string(r.WordList) == "null" {
		return wordRef{}, false
	}
	var one wordRef
	if err := json.Unmarshal(r.WordList, &one); err == nil {
		return one, one.Word != "" || one.ID != 0
	}
	var many []wordRef
	if err := json.Unmarshal(r.WordList, &many); err == nil && len(many) > 0 {
		return many[0], true
	}
	return wordRef{}, false
}

// SensesByTag returns every sense whose tags contain tag, joined with its
// word. Rows whose word is missing come back with an empty Word.
func (c *HTTPClient) SensesByTag(ctx context.Context, tag string) ([]models.SenseRow, error) {
	log := logger.FromContext(ctx).WithPrefix("remote").WithField("tag", tag)
	start := time.Now()

	q := url.Values{
		"select": {"id,word_id,pos,en,ja,se_en,se_ja,tags,WordList(id,word)"},
		"tags":   {"like.*" + tag + "*"},
		"order":  {"id.asc"},
	}
	raw, err := c.do(ctx, http.MethodGet, senseTable, q, nil, "")
	if err != nil {
		log.Error("failed to fetch senses: %v", err)
		return nil, err
	}

	var rows []senseRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		log.Error("failed to decode senses: %v", err)
		return nil, err
	}

	out := make([]models.SenseRow, 0, len(rows))
	for _, r := range rows {
		row := models.SenseRow{
			SensesID:     r.ID,
			WordID:       r.WordID,
			PartOfSpeech: r.Pos,
			DefinitionEn: r.En,
			DefinitionJa: r.Ja,
			ExampleEn:    r.SeEn,
			ExampleJa:    r.SeJa,
			Tags:         r.Tags,
		}
		if w, ok := r.word(); ok {
			row.WordID = w.ID
			row.Word = w.Word
		}
		out = append(out, row)
	}
	log.Info("fetched %d senses in %v", len(out), time.Since(start))
	return out, nil
}

func (c *HTTPClient) do(ctx context.Context, method, table string, q url.Values, body []byte, prefer string) ([]byte, error) {
	log := logger.FromContext(ctx).WithPrefix("remote")

	u := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, table)
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		log.Error("failed to create request: %v", err)
		return nil, err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	log.Debug("%s %s responded in %v, status=%d", method, table, time.Since(start), resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%s %s status %d: %s", method, table, resp.StatusCode, string(msg))
	}
	return io.ReadAll(resp.Body)
}

func single(raw []byte) (models.UserData, error) {
	var users []models.UserData
	if err := json.Unmarshal(raw, &users); err != nil {
		return models.UserData{}, err
	}
	if len(users) == 0 {
		return models.UserData{}, ErrNotFound
	}
	return users[0], nil
}

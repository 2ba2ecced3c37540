package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"answerly/models"
)

const (
	questionsPath        = "/rest/v1/questions"
	maxStoreErrorBody    = 4 << 10
	maxStoreResponseBody = 4 << 20
)

// RESTQuestionStore talks to a PostgREST endpoint (Supabase).
type RESTQuestionStore struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewRESTQuestionStore(baseURL, apiKey string, httpClient *http.Client) *RESTQuestionStore {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &RESTQuestionStore{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

func (s *RESTQuestionStore) List(ctx context.Context, guildID string) ([]models.Question, error) {
	q := url.Values{}
	q.Set("guild_id", "eq."+guildID)
	q.Set("select", "*")

	var questions []models.Question
	if err := s.do(ctx, "list", http.MethodGet, q, nil, nil, &questions); err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []models.Question{}
	}
	return questions, nil
}

// Count fetches only the ids of a guild's questions and returns how many came back.
func (s *RESTQuestionStore) Count(ctx context.Context, guildID string) (int, error) {
	q := url.Values{}
	q.Set("guild_id", "eq."+guildID)
	q.Set("select", "id")

	var ids []struct {
		ID string `json:"id"`
	}
	if err := s.do(ctx, "count", http.MethodGet, q, nil, nil, &ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}

func (s *RESTQuestionStore) Insert(ctx context.Context, question *models.Question) error {
	err := s.do(ctx, "insert", http.MethodPost, nil, question, map[string]string{"Prefer": "return=minimal"}, nil)
	var storeErr *StoreError
	if errors.As(err, &storeErr) && storeErr.Status == http.StatusConflict {
		return fmt.Errorf("%w: %s", ErrQuestionIDConflict, question.ID)
	}
	return err
}

func (s *RESTQuestionStore) Update(ctx context.Context, guildID, id string, update models.QuestionUpdate) error {
	return s.do(ctx, "update", http.MethodPatch, recordFilter(guildID, id), update, map[string]string{"Prefer": "return=minimal"}, nil)
}

func (s *RESTQuestionStore) Delete(ctx context.Context, guildID, id string) error {
	return s.do(ctx, "delete", http.MethodDelete, recordFilter(guildID, id), nil, nil, nil)
}

func recordFilter(guildID, id string) url.Values {
	q := url.Values{}
	q.Set("id", "eq."+id)
	q.Set("guild_id", "eq."+guildID)
	return q
}

func (s *RESTQuestionStore) do(ctx context.Context, op, method string, query url.Values, body interface{}, headers map[string]string, out interface{}) error {
	endpoint := s.baseURL + questionsPath
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: failed to marshal body: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxStoreErrorBody))
		return &StoreError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxStoreResponseBody)).Decode(out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", op, err)
	}
	return nil
}

package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type fakeAPI struct {
	mu       sync.Mutex
	requests []chatRequest
	// ответ по модели; отсутствие модели даёт 500
	replies map[string]string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/chat/completions" {
		http.NotFound(w, r)
		return
	}
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	reply, ok := f.replies[req.Model]
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"model overloaded","type":"server_error"}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   req.Model,
		"choices": []map[string]interface{}{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]interface{}{"role": "assistant", "content": reply},
		}},
		"usage": map[string]interface{}{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	})
}

func newTestClient(t *testing.T, api *fakeAPI, persona *Persona) *Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return NewClient(Options{
		APIKey:        "test",
		BaseURL:       srv.URL + "/",
		Model:         "primary",
		FallbackModel: "backup",
		Temperature:   0.5,
		MaxTokens:     1000,
		Persona:       persona,
		Logger:        zaptest.NewLogger(t),
	})
}

func TestGenerate_WithPersona(t *testing.T) {
	api := &fakeAPI{replies: map[string]string{"primary": "  План на сегодня  "}}
	client := newTestClient(t, api, StaticPersona("Ты тренер."))

	text, err := client.Generate(context.Background(), UserRequest("Составь план"))
	require.NoError(t, err)
	assert.Equal(t, "План на сегодня", text)

	require.Len(t, api.requests, 1)
	got := api.requests[0]
	assert.Equal(t, "primary", got.Model)
	assert.InDelta(t, 0.5, got.Temperature, 1e-9)
	assert.Equal(t, 1000, got.MaxTokens)
	assert.Equal(t, []chatMessage{
		{Role: "system", Content: "Ты тренер."},
		{Role: "user", Content: "Составь план"},
	}, got.Messages)
}

func TestGenerate_WithoutPersona(t *testing.T) {
	api := &fakeAPI{replies: map[string]string{"primary": "Ответ"}}
	client := newTestClient(t, api, nil)

	_, err := client.Generate(context.Background(), Request{Turns: []Turn{
		{Role: RoleUser, Text: "Контекст"},
		{Role: RoleAssistant, Text: "Понял"},
		{Role: RoleUser, Text: "Вопрос"},
	}})
	require.NoError(t, err)

	require.Len(t, api.requests, 1)
	assert.Equal(t, []chatMessage{
		{Role: "user", Content: "Контекст"},
		{Role: "assistant", Content: "Понял"},
		{Role: "user", Content: "Вопрос"},
	}, api.requests[0].Messages)
}

func TestGenerate_FallbackModel(t *testing.T) {
	api := &fakeAPI{replies: map[string]string{"backup": "Запасной ответ"}}
	client := newTestClient(t, api, nil)

	text, err := client.Generate(context.Background(), UserRequest("Привет"))
	require.NoError(t, err)
	assert.Equal(t, "Запасной ответ", text)

	require.Len(t, api.requests, 2)
	assert.Equal(t, "primary", api.requests[0].Model)
	assert.Equal(t, "backup", api.requests[1].Model)
}

func TestGenerate_Errors(t *testing.T) {
	t.Run("all models fail", func(t *testing.T) {
		client := newTestClient(t, &fakeAPI{}, nil)
		_, err := client.Generate(context.Background(), UserRequest("Привет"))
		assert.Error(t, err)
	})

	t.Run("empty reply", func(t *testing.T) {
		api := &fakeAPI{replies: map[string]string{"primary": " ", "backup": ""}}
		client := newTestClient(t, api, nil)
		_, err := client.Generate(context.Background(), UserRequest("Привет"))
		assert.True(t, errors.Is(err, ErrEmptyResponse), "got %v", err)
	})

	t.Run("no turns", func(t *testing.T) {
		client := newTestClient(t, &fakeAPI{}, nil)
		_, err := client.Generate(context.Background(), Request{UsePersona: true})
		assert.Error(t, err)
	})

	t.Run("cancelled context skips fallback", func(t *testing.T) {
		api := &fakeAPI{replies: map[string]string{"backup": "ok"}}
		client := newTestClient(t, api, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := client.Generate(ctx, UserRequest("Привет"))
		assert.Error(t, err)
		assert.Empty(t, api.requests)
	})
}

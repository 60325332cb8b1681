package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
)

const (
	GroqBaseURL = "https://api.groq.com/openai/v1/"
	// Модели Groq: основная быстрая и запасная на случай ошибки
	DefaultModel  = "llama-3.1-8b-instant"
	FallbackModel = "llama-3.3-70b-versatile"

	DefaultTemperature = 0.5
	DefaultMaxTokens   = 1000
)

// ErrEmptyResponse модель вернула пустой ответ
var ErrEmptyResponse = errors.New("пустой ответ от API")

// Role роль реплики в диалоге
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn одна реплика
type Turn struct {
	Role Role
	Text string
}

// Request запрос на генерацию текста
type Request struct {
	UsePersona bool // добавить системный промпт тренера
	Turns      []Turn
}

// UserRequest запрос из одной реплики пользователя с персоной тренера
func UserRequest(prompt string) Request {
	return Request{UsePersona: true, Turns: []Turn{{Role: RoleUser, Text: prompt}}}
}

// Options параметры клиента
type Options struct {
	APIKey        string
	BaseURL       string
	Model         string
	FallbackModel string
	Temperature   float64
	MaxTokens     int
	MaxRetries    int
	Persona       *Persona
	Logger        *zap.Logger
}

// Client клиент OpenAI-совместимого API (по умолчанию Groq)
type Client struct {
	client      openai.Client
	models      []string
	temperature float64
	maxTokens   int
	persona     *Persona
	logger      *zap.Logger
}

// NewClient создаёт клиент
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = GroqBaseURL
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Persona == nil {
		opts.Persona = StaticPersona(DefaultPersona)
	}

	models := []string{opts.Model}
	if opts.FallbackModel != "" && opts.FallbackModel != opts.Model {
		models = append(models, opts.FallbackModel)
	}

	return &Client{
		client: openai.NewClient(
			option.WithAPIKey(opts.APIKey),
			option.WithBaseURL(opts.BaseURL),
			option.WithMaxRetries(opts.MaxRetries),
		),
		models:      models,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		persona:     opts.Persona,
		logger:      opts.Logger,
	}
}

// Generate отправляет диалог и возвращает ответ модели.
// При ошибке основной модели пробует запасную.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	if len(req.Turns) == 0 {
		return "", fmt.Errorf("пустой запрос")
	}
	messages := c.buildMessages(req)

	var lastErr error
	for _, model := range c.models {
		text, err := c.chatWithModel(ctx, messages, model)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		c.logger.Warn("generation failed", zap.String("model", model), zap.Error(err))
	}
	return "", lastErr
}

func (c *Client) buildMessages(req Request) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Turns)+1)
	if req.UsePersona {
		if persona := c.persona.Text(); persona != "" {
			messages = append(messages, openai.SystemMessage(persona))
		}
	}
	for _, turn := range req.Turns {
		switch turn.Role {
		case RoleAssistant:
			messages = append(messages, openai.AssistantMessage(turn.Text))
		default:
			messages = append(messages, openai.UserMessage(turn.Text))
		}
	}
	return messages
}

// chatWithModel выполняет запрос к конкретной модели
func (c *Client) chatWithModel(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion, model string) (string, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    messages,
		Temperature: openai.Float(c.temperature),
		MaxTokens:   openai.Int(int64(c.maxTokens)),
	})
	if err != nil {
		return "", fmt.Errorf("ошибка запроса к %s: %w", model, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%s: %w", model, ErrEmptyResponse)
	}

	text := strings.TrimSpace(completion.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%s: %w", model, ErrEmptyResponse)
	}

	c.logger.Debug("generation completed",
		zap.String("model", model),
		zap.Int64("prompt_tokens", completion.Usage.PromptTokens),
		zap.Int64("completion_tokens", completion.Usage.CompletionTokens))
	return text, nil
}

package schedule

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/BuzzLyutic/day-weaver-api/internal/model"
)

const (
	defaultBaseURL = "https://api.openai.com/v1/chat/completions"
	defaultModel   = "gpt-4o-mini"
	requestTimeout = 60 * time.Second
)

// ErrGenerationFailed — любой сбой генерации: транспорт, статус, непригодный ответ.
// Данные задач при этом не затрагиваются, ретраев нет.
var ErrGenerationFailed = errors.New("schedule generation failed")

type TaskInput struct {
	Task             string         `json:"task"`
	Deadline         string         `json:"deadline"`
	Priority         model.Priority `json:"priority"`
	DurationEstimate string         `json:"duration_estimate,omitempty"`
}

type ScheduledTask struct {
	Task             string         `json:"task"`
	Deadline         string         `json:"deadline"`
	Priority         model.Priority `json:"priority"`
	DurationEstimate string         `json:"duration_estimate,omitempty"`
	StartTime        string         `json:"start_time"`
	EndTime          string         `json:"end_time"`
}

type Result struct {
	Schedule []ScheduledTask `json:"schedule"`
	Notes    string          `json:"notes,omitempty"`
}

// Generator ходит в OpenAI-совместимый chat completions API
type Generator struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewGenerator(apiKey, baseURL, llmModel string) *Generator {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if llmModel == "" {
		llmModel = defaultModel
	}
	return &Generator{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   llmModel,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat responseFmt   `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFmt struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Generate строит оптимизированное дневное расписание по списку задач.
// Модель может опускать и переставлять задачи; high-priority просим ставить первыми.
func (g *Generator) Generate(ctx context.Context, tasks []TaskInput) (Result, error) {
	if len(tasks) == 0 {
		return Result{}, fmt.Errorf("%w: no tasks to schedule", ErrGenerationFailed)
	}

	body, err := json.Marshal(chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildUserPrompt(tasks)},
		},
		ResponseFormat: responseFmt{Type: "json_object"},
	})
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			return Result{}, fmt.Errorf("%w: %s", ErrGenerationFailed, apiErr.Error.Message)
		}
		return Result{}, fmt.Errorf("%w: status %d", ErrGenerationFailed, resp.StatusCode)
	}

	var chat chatResponse
	if err := json.Unmarshal(raw, &chat); err != nil || len(chat.Choices) == 0 {
		return Result{}, fmt.Errorf("%w: malformed response", ErrGenerationFailed)
	}

	var result Result
	if err := json.Unmarshal([]byte(chat.Choices[0].Message.Content), &result); err != nil {
		return Result{}, fmt.Errorf("%w: malformed schedule payload", ErrGenerationFailed)
	}
	if len(result.Schedule) == 0 {
		return Result{}, fmt.Errorf("%w: no usable output", ErrGenerationFailed)
	}
	return result, nil
}

const systemPrompt = `You are a personal AI assistant that specializes in generating optimized daily schedules.

Given a list of tasks, deadlines, and priorities, you will generate a schedule that maximizes productivity and ensures all deadlines are met.

Consider the priority of each task when creating the schedule. High-priority tasks should be scheduled first, followed by medium-priority tasks, and then low-priority tasks.

Attempt to infer duration of tasks if not provided, and include it in your notes.

Respond with a single JSON object of the form:
{"schedule": [{"task", "deadline", "priority", "duration_estimate", "start_time", "end_time"}], "notes": "..."}
where start_time and end_time use the HH:mm format.`

func buildUserPrompt(tasks []TaskInput) string {
	var b strings.Builder
	b.WriteString("Here are the tasks, deadlines, and priorities:\n\n")
	for _, t := range tasks {
		fmt.Fprintf(&b, "- Task: %s, Deadline: %s, Priority: %s", t.Task, t.Deadline, t.Priority)
		if t.DurationEstimate != "" {
			fmt.Fprintf(&b, ", Duration Estimate: %s", t.DurationEstimate)
		}
		b.WriteString("\n")
	}
	b.WriteString("\nPlease generate an optimized daily schedule.")
	return b.String()
}

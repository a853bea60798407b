package model

import "time"

// DeadlineLayout — канонический формат дедлайна (24-часовой, с ведущими нулями)
const DeadlineLayout = "2006-01-02 15:04"

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

type Task struct {
	ID          string         `json:"id"`
	Text        string         `json:"text"`
	Deadline    string         `json:"deadline"`
	Priority    Priority       `json:"priority"`
	Note        string         `json:"note,omitempty"`
	IsCompleted bool           `json:"is_completed"`
	Reactions   map[string]int `json:"reactions,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// TaskDraft — входные данные при создании; id, created_at и reactions назначает хранилище
type TaskDraft struct {
	Text     string   `json:"text"`
	Deadline string   `json:"deadline"`
	Priority Priority `json:"priority"`
	Note     string   `json:"note,omitempty"`
}

// TaskPatch — частичное обновление: меняются только заданные поля
type TaskPatch struct {
	Text        *string   `json:"text,omitempty"`
	Deadline    *string   `json:"deadline,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	Note        *string   `json:"note,omitempty"`
	IsCompleted *bool     `json:"is_completed,omitempty"`
}

package repo

import (
	"context"

	"github.com/BuzzLyutic/day-weaver-api/internal/model"
)

// TaskRepository определяет интерфейс для работы с хранилищем задач
type TaskRepository interface {
	Create(ctx context.Context, d model.TaskDraft) (model.Task, error)
	Get(ctx context.Context, id string) (model.Task, error)
	List(ctx context.Context) ([]model.Task, error)
	Update(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error)
	AddReaction(ctx context.Context, id, emoji string) (model.Task, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	SaveIdempotencyKey(ctx context.Context, key string, resourceID string) error
	GetIdempotencyKey(ctx context.Context, key string) (string, error)
	GetStats(ctx context.Context) (Stats, error)
}

type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Open      int `json:"open"`
}

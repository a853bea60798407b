package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BuzzLyutic/day-weaver-api/internal/model"
	"github.com/BuzzLyutic/day-weaver-api/internal/planner"
	"github.com/BuzzLyutic/day-weaver-api/internal/repo"
)

var (
	ErrValidation = errors.New("validation error")
)

type TaskService struct {
	repo     repo.TaskRepository
	pageSize int
}

func NewTaskService(repo repo.TaskRepository, pageSize int) *TaskService {
	if pageSize <= 0 {
		pageSize = planner.DefaultPageSize
	}
	return &TaskService{repo: repo, pageSize: pageSize}
}

func (s *TaskService) Create(ctx context.Context, d model.TaskDraft, idempKey string) (model.Task, error) {
	if err := s.validateDraft(d, time.Now()); err != nil {
		return model.Task{}, err
	}

	if idempKey != "" { // Обеспечение идемпотентности - если ключ с ресурсом уже существует, мы не создаем его еще раз
		if existingID, err := s.repo.GetIdempotencyKey(ctx, idempKey); err == nil {
			return s.repo.Get(ctx, existingID)
		}
	}

	task, err := s.repo.Create(ctx, d)
	if err != nil {
		return task, err
	}

	if idempKey != "" {
		s.repo.SaveIdempotencyKey(ctx, idempKey, task.ID)
	}

	return task, nil
}

func (s *TaskService) Get(ctx context.Context, id string) (model.Task, error) {
	return s.repo.Get(ctx, id)
}

func (s *TaskService) List(ctx context.Context) ([]model.Task, error) {
	return s.repo.List(ctx)
}

// BoardQuery — состояние представления: закоммиченный поисковый запрос
// и запрошенные страницы по ключам списков
type BoardQuery struct {
	Search string
	Pages  map[planner.ListKey]int
}

type BoardPage struct {
	Items      []model.Task `json:"items"`
	Page       int          `json:"page"`
	TotalPages int          `json:"total_pages"`
	TotalItems int          `json:"total_items"`
}

type Board struct {
	Pending BoardPage  `json:"pending"`
	Done    BoardPage  `json:"done"`
	Expired BoardPage  `json:"expired"`
	Search  *BoardPage `json:"search,omitempty"`
}

// Board строит все представления из одного консистентного снапшота коллекции
func (s *TaskService) Board(ctx context.Context, q BoardQuery) (Board, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return Board{}, err
	}
	return s.buildBoard(tasks, time.Now(), q), nil
}

func (s *TaskService) buildBoard(tasks []model.Task, now time.Time, q BoardQuery) Board {
	buckets := planner.Classify(tasks, now, q.Search)

	pages := planner.NewPages(s.pageSize)
	for key, page := range q.Pages {
		pages.Change(key, page)
	}

	board := Board{
		Pending: pageOf(pages, planner.KeyPending, buckets.Pending),
		Done:    pageOf(pages, planner.KeyDone, buckets.Done),
		Expired: pageOf(pages, planner.KeyExpired, buckets.Expired),
	}
	if q.Search != "" {
		search := pageOf(pages, planner.KeySearch, buckets.Matching)
		board.Search = &search
	}
	return board
}

func pageOf(pages *planner.Pages, key planner.ListKey, items []model.Task) BoardPage {
	page := pages.Resolve(key, len(items))
	return BoardPage{
		Items:      pages.Slice(items, page),
		Page:       page,
		TotalPages: planner.TotalPages(len(items), pages.Size()),
		TotalItems: len(items),
	}
}

func (s *TaskService) Update(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	if err := s.validatePatch(patch); err != nil {
		return model.Task{}, err
	}
	return s.repo.Update(ctx, id, patch)
}

// ToggleComplete переключает флаг завершенности задачи
func (s *TaskService) ToggleComplete(ctx context.Context, id string) (model.Task, error) {
	task, err := s.repo.Get(ctx, id)
	if err != nil {
		return task, err
	}
	completed := !task.IsCompleted
	return s.repo.Update(ctx, id, model.TaskPatch{IsCompleted: &completed})
}

func (s *TaskService) React(ctx context.Context, id, emoji string) (model.Task, error) {
	if strings.TrimSpace(emoji) == "" {
		return model.Task{}, fmt.Errorf("%w: empty emoji", ErrValidation)
	}
	return s.repo.AddReaction(ctx, id, emoji)
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *TaskService) DeleteAll(ctx context.Context) error {
	return s.repo.DeleteAll(ctx)
}

func (s *TaskService) GetStats(ctx context.Context) (repo.Stats, error) {
	return s.repo.GetStats(ctx)
}

// validateDraft отсекает некорректные задачи до того, как они попадут в хранилище
func (s *TaskService) validateDraft(d model.TaskDraft, now time.Time) error {
	if strings.TrimSpace(d.Text) == "" {
		return fmt.Errorf("%w: empty text", ErrValidation)
	}
	if !d.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrValidation, d.Priority)
	}
	deadline, err := time.ParseInLocation(model.DeadlineLayout, d.Deadline, now.Location())
	if err != nil {
		return fmt.Errorf("%w: bad deadline format", ErrValidation)
	}
	// Дедлайн не раньше начала сегодняшнего дня. Правило действует только
	// при создании: редактирование просроченной задачи должно оставаться возможным.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if deadline.Before(today) {
		return fmt.Errorf("%w: deadline below today", ErrValidation)
	}
	return nil
}

func (s *TaskService) validatePatch(p model.TaskPatch) error {
	if p.Text != nil && strings.TrimSpace(*p.Text) == "" {
		return fmt.Errorf("%w: empty text", ErrValidation)
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrValidation, *p.Priority)
	}
	if p.Deadline != nil {
		if _, err := time.ParseInLocation(model.DeadlineLayout, *p.Deadline, time.Local); err != nil {
			return fmt.Errorf("%w: bad deadline format", ErrValidation)
		}
	}
	return nil
}

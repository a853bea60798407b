package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/day-weaver-api/internal/model"
	"github.com/BuzzLyutic/day-weaver-api/internal/planner"
	"github.com/BuzzLyutic/day-weaver-api/internal/repo"
)

// MockTaskRepository - мок репозитория
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, d model.TaskDraft) (model.Task, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) Get(ctx context.Context, id string) (model.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) List(ctx context.Context) ([]model.Task, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) AddReaction(ctx context.Context, id, emoji string) (model.Task, error) {
	args := m.Called(ctx, id, emoji)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTaskRepository) SaveIdempotencyKey(ctx context.Context, key string, resourceID string) error {
	args := m.Called(ctx, key, resourceID)
	return args.Error(0)
}

func (m *MockTaskRepository) GetIdempotencyKey(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockTaskRepository) GetStats(ctx context.Context) (repo.Stats, error) {
	args := m.Called(ctx)
	return args.Get(0).(repo.Stats), args.Error(1)
}

func futureDeadline() string {
	return time.Now().Add(48 * time.Hour).Format(model.DeadlineLayout)
}

func TestTaskService_Create(t *testing.T) {
	valid := model.TaskDraft{
		Text:     "Prepare presentation",
		Deadline: futureDeadline(),
		Priority: model.PriorityHigh,
	}

	tests := []struct {
		name      string
		draft     model.TaskDraft
		idempKey  string
		setupMock func(*MockTaskRepository)
		wantErr   error
	}{
		{
			name:     "successful creation without idempotency key",
			draft:    valid,
			idempKey: "",
			setupMock: func(m *MockTaskRepository) {
				m.On("Create", mock.Anything, valid).Return(model.Task{
					ID:       "task-1",
					Text:     valid.Text,
					Deadline: valid.Deadline,
					Priority: valid.Priority,
				}, nil)
			},
			wantErr: nil,
		},
		{
			name:      "validation error - empty text",
			draft:     model.TaskDraft{Text: "  ", Deadline: futureDeadline(), Priority: model.PriorityLow},
			setupMock: func(m *MockTaskRepository) {},
			wantErr:   ErrValidation,
		},
		{
			name:      "validation error - unknown priority",
			draft:     model.TaskDraft{Text: "Task", Deadline: futureDeadline(), Priority: "Urgent"},
			setupMock: func(m *MockTaskRepository) {},
			wantErr:   ErrValidation,
		},
		{
			name:      "validation error - bad deadline format",
			draft:     model.TaskDraft{Text: "Task", Deadline: "tomorrow at noon", Priority: model.PriorityLow},
			setupMock: func(m *MockTaskRepository) {},
			wantErr:   ErrValidation,
		},
		{
			name:      "validation error - deadline below today",
			draft:     model.TaskDraft{Text: "Task", Deadline: "2000-01-01 10:00", Priority: model.PriorityLow},
			setupMock: func(m *MockTaskRepository) {},
			wantErr:   ErrValidation,
		},
		{
			name:     "idempotency - key exists",
			draft:    valid,
			idempKey: "key-123",
			setupMock: func(m *MockTaskRepository) {
				m.On("GetIdempotencyKey", mock.Anything, "key-123").Return("task-42", nil)
				m.On("Get", mock.Anything, "task-42").Return(model.Task{
					ID:   "task-42",
					Text: valid.Text,
				}, nil)
			},
			wantErr: nil,
		},
		{
			name:     "idempotency - new key",
			draft:    valid,
			idempKey: "key-456",
			setupMock: func(m *MockTaskRepository) {
				m.On("GetIdempotencyKey", mock.Anything, "key-456").Return("", repo.ErrorNotFound)
				m.On("Create", mock.Anything, mock.Anything).Return(model.Task{
					ID:   "task-1",
					Text: valid.Text,
				}, nil)
				m.On("SaveIdempotencyKey", mock.Anything, "key-456", "task-1").Return(nil)
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			tt.setupMock(mockRepo)

			service := NewTaskService(mockRepo, 5)
			result, err := service.Create(context.Background(), tt.draft, tt.idempKey)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, result.ID)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func boardFixture() []model.Task {
	tasks := make([]model.Task, 0, 14)
	// 12 pending
	for i := 1; i <= 12; i++ {
		tasks = append(tasks, model.Task{
			ID:       fmt.Sprintf("p%d", i),
			Text:     fmt.Sprintf("Pending %d", i),
			Deadline: "2099-01-01 00:00",
		})
	}
	// 1 done, 1 expired
	tasks = append(tasks,
		model.Task{ID: "d1", Text: "Done one", Deadline: "2099-01-01 00:00", IsCompleted: true},
		model.Task{ID: "x1", Text: "Expired one", Deadline: "2000-01-01 00:00"},
	)
	return tasks
}

func TestTaskService_Board(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	service := NewTaskService(new(MockTaskRepository), 5)

	t.Run("buckets and pagination meta", func(t *testing.T) {
		board := service.buildBoard(boardFixture(), now, BoardQuery{
			Pages: map[planner.ListKey]int{planner.KeyPending: 2},
		})

		assert.Equal(t, 12, board.Pending.TotalItems)
		assert.Equal(t, 3, board.Pending.TotalPages)
		assert.Equal(t, 2, board.Pending.Page)
		require.Len(t, board.Pending.Items, 5)
		assert.Equal(t, "p6", board.Pending.Items[0].ID)

		assert.Equal(t, 1, board.Done.TotalItems)
		assert.Equal(t, 1, board.Expired.TotalItems)
		assert.Nil(t, board.Search, "no search bucket without a committed term")
	})

	t.Run("out of range page self-corrects", func(t *testing.T) {
		board := service.buildBoard(boardFixture(), now, BoardQuery{
			Pages: map[planner.ListKey]int{planner.KeyPending: 99},
		})

		assert.Equal(t, 3, board.Pending.Page)
		require.Len(t, board.Pending.Items, 2)
	})

	t.Run("search narrows every bucket", func(t *testing.T) {
		board := service.buildBoard(boardFixture(), now, BoardQuery{Search: "one"})

		require.NotNil(t, board.Search)
		assert.Equal(t, 2, board.Search.TotalItems) // "Done one" + "Expired one"
		assert.Equal(t, 0, board.Pending.TotalItems)
		assert.Equal(t, 1, board.Done.TotalItems)
		assert.Equal(t, 1, board.Expired.TotalItems)
	})

	t.Run("list failure propagates", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("List", mock.Anything).Return([]model.Task{}, repo.ErrorUnavailable)

		failing := NewTaskService(mockRepo, 5)
		_, err := failing.Board(context.Background(), BoardQuery{})

		assert.ErrorIs(t, err, repo.ErrorUnavailable)
		mockRepo.AssertExpectations(t)
	})
}

func TestTaskService_Update(t *testing.T) {
	text := "Updated"
	badText := "   "

	t.Run("partial patch passes through", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Update", mock.Anything, "task-1", mock.MatchedBy(func(p model.TaskPatch) bool {
			return p.Text != nil && *p.Text == text && p.Deadline == nil
		})).Return(model.Task{ID: "task-1", Text: text}, nil)

		service := NewTaskService(mockRepo, 5)
		result, err := service.Update(context.Background(), "task-1", model.TaskPatch{Text: &text})

		require.NoError(t, err)
		assert.Equal(t, text, result.Text)
		mockRepo.AssertExpectations(t)
	})

	t.Run("whitespace text rejected", func(t *testing.T) {
		service := NewTaskService(new(MockTaskRepository), 5)
		_, err := service.Update(context.Background(), "task-1", model.TaskPatch{Text: &badText})

		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("bad deadline rejected", func(t *testing.T) {
		bad := "next tuesday"
		service := NewTaskService(new(MockTaskRepository), 5)
		_, err := service.Update(context.Background(), "task-1", model.TaskPatch{Deadline: &bad})

		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestTaskService_ToggleComplete(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockRepo.On("Get", mock.Anything, "task-1").Return(model.Task{ID: "task-1", IsCompleted: false}, nil)
	mockRepo.On("Update", mock.Anything, "task-1", mock.MatchedBy(func(p model.TaskPatch) bool {
		return p.IsCompleted != nil && *p.IsCompleted == true
	})).Return(model.Task{ID: "task-1", IsCompleted: true}, nil)

	service := NewTaskService(mockRepo, 5)
	result, err := service.ToggleComplete(context.Background(), "task-1")

	require.NoError(t, err)
	assert.True(t, result.IsCompleted)
	mockRepo.AssertExpectations(t)
}

func TestTaskService_React(t *testing.T) {
	t.Run("increments reaction", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("AddReaction", mock.Anything, "task-1", "👍").Return(model.Task{
			ID:        "task-1",
			Reactions: map[string]int{"👍": 3},
		}, nil)

		service := NewTaskService(mockRepo, 5)
		result, err := service.React(context.Background(), "task-1", "👍")

		require.NoError(t, err)
		assert.Equal(t, 3, result.Reactions["👍"])
		mockRepo.AssertExpectations(t)
	})

	t.Run("empty emoji rejected", func(t *testing.T) {
		service := NewTaskService(new(MockTaskRepository), 5)
		_, err := service.React(context.Background(), "task-1", "  ")

		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestTaskService_DeleteAll(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockRepo.On("DeleteAll", mock.Anything).Return(nil)

	service := NewTaskService(mockRepo, 5)
	require.NoError(t, service.DeleteAll(context.Background()))
	mockRepo.AssertExpectations(t)
}

func TestTaskService_GetStats(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	expected := repo.Stats{Total: 17, Completed: 10, Open: 7}
	mockRepo.On("GetStats", mock.Anything).Return(expected, nil)

	service := NewTaskService(mockRepo, 5)
	stats, err := service.GetStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, expected, stats)
	mockRepo.AssertExpectations(t)
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/day-weaver-api/internal/planner"
	"github.com/BuzzLyutic/day-weaver-api/internal/schedule"
	"github.com/BuzzLyutic/day-weaver-api/internal/service"
	"github.com/BuzzLyutic/day-weaver-api/pkg/respond"
)

// ScheduleGenerator — то, что умеет клиент генерации расписания
type ScheduleGenerator interface {
	Generate(ctx context.Context, tasks []schedule.TaskInput) (schedule.Result, error)
}

type ScheduleHandler struct {
	generator ScheduleGenerator
	service   *service.TaskService
	logger    *zap.Logger
}

func NewScheduleHandler(gen ScheduleGenerator, srv *service.TaskService, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		generator: gen,
		service:   srv,
		logger:    logger,
	}
}

// Generate строит расписание по задачам из тела запроса;
// без тела берутся текущие pending-задачи
func (h *ScheduleHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tasks []schedule.TaskInput `json:"tasks"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, r, http.StatusBadRequest, "invalid json")
			return
		}
	}

	if len(req.Tasks) == 0 {
		tasks, err := h.service.List(r.Context())
		if err != nil {
			respond.Error(w, r, http.StatusServiceUnavailable, "store unavailable")
			return
		}
		buckets := planner.Classify(tasks, time.Now(), "")
		for _, t := range buckets.Pending {
			req.Tasks = append(req.Tasks, schedule.TaskInput{
				Task:     t.Text,
				Deadline: t.Deadline,
				Priority: t.Priority,
			})
		}
	}

	result, err := h.generator.Generate(r.Context(), req.Tasks)
	if err != nil {
		if errors.Is(err, schedule.ErrGenerationFailed) {
			h.logger.Error("schedule generation failed", zap.Error(err))
			respond.Error(w, r, http.StatusBadGateway, "generation failed")
			return
		}
		h.logger.Error("internal error", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	respond.JSON(w, r, http.StatusOK, result)
}

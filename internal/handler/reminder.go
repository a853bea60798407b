package handler

import (
	"encoding/json"
	"net/http"
	"net/mail"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/day-weaver-api/internal/reminder"
	"github.com/BuzzLyutic/day-weaver-api/pkg/respond"
)

// ReminderQueue — неблокирующая постановка напоминания на отправку
type ReminderQueue interface {
	Enqueue(req reminder.Request) bool
}

type ReminderHandler struct {
	queue  ReminderQueue
	logger *zap.Logger
}

func NewReminderHandler(queue ReminderQueue, logger *zap.Logger) *ReminderHandler {
	return &ReminderHandler{
		queue:  queue,
		logger: logger,
	}
}

// Send ставит напоминание в очередь и сразу отвечает квитанцией.
// Это подтверждение постановки, не доставки.
func (h *ReminderHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req reminder.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	if req.TaskText == "" {
		respond.Error(w, r, http.StatusBadRequest, "empty task text")
		return
	}
	if _, err := mail.ParseAddress(req.RecipientEmail); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid recipient email")
		return
	}

	if !h.queue.Enqueue(req) {
		h.logger.Warn("reminder queue full", zap.String("recipient", req.RecipientEmail))
		respond.JSON(w, r, http.StatusServiceUnavailable, reminder.Failed("reminder queue is full, try again later"))
		return
	}

	respond.JSON(w, r, http.StatusAccepted, reminder.Queued(req))
}

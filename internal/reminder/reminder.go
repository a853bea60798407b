package reminder

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const (
	StatusQueued = "queued"
	StatusFailed = "failed"
)

type Request struct {
	TaskText       string `json:"task_text"`
	Deadline       string `json:"deadline"`
	RecipientEmail string `json:"recipient_email"`
}

// Receipt — неавторитетное подтверждение постановки в очередь, не доставки
type Receipt struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func Queued(req Request) Receipt {
	return Receipt{
		Status:  StatusQueued,
		Message: fmt.Sprintf("Reminder for %q will be sent to %s. (Simulated)", req.TaskText, req.RecipientEmail),
	}
}

func Failed(message string) Receipt {
	return Receipt{Status: StatusFailed, Message: message}
}

// Sender доставляет напоминание. Реализации могут быть только симуляцией.
type Sender interface {
	Send(ctx context.Context, req Request) error
}

// LogSender — симуляция доставки: пишет напоминание в лог и ничего не шлет
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, req Request) error {
	s.logger.Info("Simulating reminder email send",
		zap.String("recipient", req.RecipientEmail),
		zap.String("task", req.TaskText),
		zap.String("due", req.Deadline),
	)
	return nil
}

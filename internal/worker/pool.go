package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/day-weaver-api/internal/reminder"
)

const defaultQueueSize = 64

// Pool асинхронно разгребает очередь напоминаний.
// Постановка в очередь неблокирующая: переполнение видно вызывающему сразу.
type Pool struct {
	sender reminder.Sender
	logger *zap.Logger
	count  int
	queue  chan reminder.Request
	wg     sync.WaitGroup
	stop   chan struct{}
}

func NewPool(sender reminder.Sender, logger *zap.Logger, count, queueSize int) *Pool {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &Pool{
		sender: sender,
		logger: logger,
		count:  count,
		queue:  make(chan reminder.Request, queueSize),
		stop:   make(chan struct{}),
	}
}

func (p *Pool) Start(ctx context.Context) {
	p.logger.Info("Starting reminder pool", zap.Int("workers", p.count))

	for i := 0; i < p.count; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

func (p *Pool) Stop() {
	p.logger.Info("Stopping reminder pool...")
	close(p.stop)
	p.wg.Wait()
	p.logger.Info("Reminder pool stopped")
}

// Enqueue ставит напоминание в очередь; false при переполнении
func (p *Pool) Enqueue(req reminder.Request) bool {
	select {
	case p.queue <- req:
		return true
	default:
		return false
	}
}

func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stop:
			return
		case <-ctx.Done():
			return
		case req := <-p.queue:
			if err := p.sender.Send(ctx, req); err != nil {
				p.logger.Error("reminder send failed",
					zap.Int("worker", id),
					zap.String("recipient", req.RecipientEmail),
					zap.Error(err),
				)
				continue
			}
			p.logger.Info("Reminder dispatched",
				zap.Int("worker", id),
				zap.String("recipient", req.RecipientEmail),
				zap.String("task", req.TaskText),
			)
		}
	}
}

package planner

import (
	"strings"
	"time"

	"github.com/BuzzLyutic/day-weaver-api/internal/model"
)

// Buckets — взаимоисключающие представления одной коллекции задач.
// Каждая задача из Matching попадает ровно в один из Done/Expired/Pending.
type Buckets struct {
	Matching []model.Task
	Done     []model.Task
	Pending  []model.Task
	Expired  []model.Task
}

// Classify разбивает коллекцию на корзины относительно момента now.
// Порядок входной коллекции сохраняется, побочных эффектов нет.
func Classify(tasks []model.Task, now time.Time, term string) Buckets {
	b := Buckets{
		Matching: make([]model.Task, 0, len(tasks)),
		Done:     []model.Task{},
		Pending:  []model.Task{},
		Expired:  []model.Task{},
	}

	needle := strings.ToLower(term)
	for _, t := range tasks {
		if needle != "" && !strings.Contains(strings.ToLower(t.Text), needle) {
			continue
		}
		b.Matching = append(b.Matching, t)

		switch {
		case t.IsCompleted:
			b.Done = append(b.Done, t)
		case isExpired(t.Deadline, now):
			b.Expired = append(b.Expired, t)
		default:
			b.Pending = append(b.Pending, t)
		}
	}
	return b
}

// isExpired: дедлайн строго раньше now. Непарсящийся дедлайн считается
// pending — продуктовое решение: битые данные остаются в списке актуальных,
// а не исчезают молча.
func isExpired(deadline string, now time.Time) bool {
	d, err := time.ParseInLocation(model.DeadlineLayout, deadline, now.Location())
	if err != nil {
		return false
	}
	return d.Before(now)
}

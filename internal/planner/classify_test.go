package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/day-weaver-api/internal/model"
)

var classifyNow = time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)

func fixtureTasks() []model.Task {
	return []model.Task{
		{ID: "a", Text: "Write report", Deadline: "2000-01-01 00:00", IsCompleted: false},
		{ID: "b", Text: "Buy groceries", Deadline: "2099-01-01 00:00", IsCompleted: true},
		{ID: "c", Text: "Call dentist", Deadline: "2099-01-01 00:00", IsCompleted: false},
		{ID: "d", Text: "Broken deadline", Deadline: "not-a-date", IsCompleted: false},
		{ID: "e", Text: "Old and done", Deadline: "2000-06-15 12:30", IsCompleted: true},
	}
}

func ids(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestClassify_Partition(t *testing.T) {
	tasks := fixtureTasks()
	b := Classify(tasks, classifyNow, "")

	require.Len(t, b.Matching, len(tasks))

	// каждая задача ровно в одной корзине
	seen := map[string]int{}
	for _, t := range b.Done {
		seen[t.ID]++
	}
	for _, t := range b.Expired {
		seen[t.ID]++
	}
	for _, t := range b.Pending {
		seen[t.ID]++
	}
	for _, task := range tasks {
		assert.Equal(t, 1, seen[task.ID], "task %s must be in exactly one bucket", task.ID)
	}
}

func TestClassify_EndToEnd(t *testing.T) {
	tasks := []model.Task{
		{ID: "1", Text: "A", IsCompleted: false, Deadline: "2000-01-01 00:00"},
		{ID: "2", Text: "B", IsCompleted: true, Deadline: "2099-01-01 00:00"},
		{ID: "3", Text: "C", IsCompleted: false, Deadline: "2099-01-01 00:00"},
	}

	b := Classify(tasks, classifyNow, "")

	assert.Equal(t, []string{"1"}, ids(b.Expired))
	assert.Equal(t, []string{"2"}, ids(b.Done))
	assert.Equal(t, []string{"3"}, ids(b.Pending))
}

func TestClassify_ParseFallback(t *testing.T) {
	tasks := []model.Task{
		{ID: "x", Text: "Bad data", Deadline: "not-a-date", IsCompleted: false},
	}

	b := Classify(tasks, classifyNow, "")

	assert.Equal(t, []string{"x"}, ids(b.Pending), "unparseable deadline defaults to pending")
	assert.Empty(t, b.Expired)
}

func TestClassify_ExpiryBoundary(t *testing.T) {
	tests := []struct {
		name       string
		deadline   string
		wantBucket string
	}{
		{"deadline equal to now is pending", "2024-01-01 00:00", "pending"},
		{"one minute before now is expired", "2023-12-31 23:59", "expired"},
		{"one minute after now is pending", "2024-01-01 00:01", "pending"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Classify([]model.Task{
				{ID: "t", Text: "Boundary", Deadline: tt.deadline},
			}, classifyNow, "")

			if tt.wantBucket == "pending" {
				assert.Len(t, b.Pending, 1)
				assert.Empty(t, b.Expired)
			} else {
				assert.Len(t, b.Expired, 1)
				assert.Empty(t, b.Pending)
			}
		})
	}
}

func TestClassify_Search(t *testing.T) {
	tasks := fixtureTasks()

	tests := []struct {
		name         string
		term         string
		wantMatching []string
	}{
		{"empty term matches everything", "", []string{"a", "b", "c", "d", "e"}},
		{"case-insensitive substring", "REPORT", []string{"a"}},
		{"substring in the middle", "ro", []string{"b", "d"}},
		{"no matches", "zzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Classify(tasks, classifyNow, tt.term)
			assert.Equal(t, tt.wantMatching, ids(b.Matching))
		})
	}
}

func TestClassify_BucketsDeriveFromMatching(t *testing.T) {
	tasks := fixtureTasks()
	b := Classify(tasks, classifyNow, "o")

	total := len(b.Done) + len(b.Expired) + len(b.Pending)
	assert.Equal(t, len(b.Matching), total, "buckets must partition the matching view")
}

func TestClassify_PreservesOrder(t *testing.T) {
	tasks := fixtureTasks()
	b := Classify(tasks, classifyNow, "")

	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids(b.Matching))
	assert.Equal(t, []string{"b", "e"}, ids(b.Done))
	assert.Equal(t, []string{"c", "d"}, ids(b.Pending))
}

func TestClassify_NoMutation(t *testing.T) {
	tasks := fixtureTasks()
	before := ids(tasks)

	Classify(tasks, classifyNow, "report")

	assert.Equal(t, before, ids(tasks), "classification must not reorder the input")
}

func TestClassify_EmptyCollection(t *testing.T) {
	b := Classify(nil, classifyNow, "anything")

	assert.Empty(t, b.Matching)
	assert.Empty(t, b.Done)
	assert.Empty(t, b.Pending)
	assert.Empty(t, b.Expired)
}

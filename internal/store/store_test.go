package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/task-insights/internal/model"
	"github.com/nhle/task-insights/internal/store"
	"github.com/nhle/task-insights/tests/testutil"
)

var created = time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

func implementations(t *testing.T) map[string]store.TaskStore {
	opts := []store.Option{
		store.WithLocation(time.UTC),
		store.WithClock(testutil.FixedClock(created)),
	}
	return map[string]store.TaskStore{
		"sqlite": testutil.NewTestStore(t, opts...),
		"memory": store.NewMemoryStore(opts...),
	}
}

func TestAddTask(t *testing.T) {
	for name, s := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			due := model.NewDate(2025, time.March, 15, time.UTC)

			task, err := s.AddTask(ctx, "  write report ", due, model.PriorityHigh)
			require.NoError(t, err)
			assert.Equal(t, int64(1), task.ID)
			assert.Equal(t, "write report", task.Description)
			assert.False(t, task.Completed)
			assert.True(t, task.CreatedAt.Equal(created))

			tasks, err := s.ListTasks(ctx)
			require.NoError(t, err)
			require.Len(t, tasks, 1)
			assert.Equal(t, task.ID, tasks[0].ID)
			assert.Equal(t, model.PriorityHigh, tasks[0].Priority)
			assert.Equal(t, "2025-03-15", tasks[0].DueDate.Format(model.DateLayout))
			assert.True(t, tasks[0].CreatedAt.Equal(created))
		})
	}
}

func TestAddTaskRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name        string
		description string
		priority    model.Priority
		want        error
	}{
		{"empty description", "", model.PriorityLow, store.ErrEmptyDescription},
		{"blank description", "   ", model.PriorityLow, store.ErrEmptyDescription},
		{"unknown priority", "call bank", model.Priority("Urgent"), store.ErrInvalidPriority},
	}

	for name, s := range implementations(t) {
		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				_, err := s.AddTask(context.Background(), tt.description, created, tt.priority)
				assert.ErrorIs(t, err, tt.want)

				tasks, err := s.ListTasks(context.Background())
				require.NoError(t, err)
				assert.Empty(t, tasks)
			})
		}
	}
}

func TestToggleAndDelete(t *testing.T) {
	for name, s := range implementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			task, err := s.AddTask(ctx, "stretch", created, model.PriorityLow)
			require.NoError(t, err)

			require.NoError(t, s.ToggleComplete(ctx, task.ID))
			tasks, _ := s.ListTasks(ctx)
			assert.True(t, tasks[0].Completed)

			require.NoError(t, s.ToggleComplete(ctx, task.ID))
			tasks, _ = s.ListTasks(ctx)
			assert.False(t, tasks[0].Completed)

			require.NoError(t, s.DeleteTask(ctx, task.ID))
			tasks, _ = s.ListTasks(ctx)
			assert.Empty(t, tasks)

			assert.True(t, errors.Is(s.DeleteTask(ctx, task.ID), store.ErrNotFound))
			assert.True(t, errors.Is(s.ToggleComplete(ctx, 99), store.ErrNotFound))
		})
	}
}

// Ids stay unique and follow the surviving add calls for any interleaving
// of add, toggle, and delete.
func TestIDsUniqueAcrossMutations(t *testing.T) {
	type op struct {
		kind string // "add", "toggle", "delete"
		ref  int    // index into the added ids for toggle/delete
	}
	sequences := [][]op{
		{{"add", 0}, {"add", 0}, {"add", 0}},
		{{"add", 0}, {"delete", 0}, {"add", 0}, {"add", 0}},
		{{"add", 0}, {"add", 0}, {"delete", 1}, {"add", 0}, {"toggle", 0}, {"delete", 0}, {"add", 0}},
		{{"add", 0}, {"add", 0}, {"add", 0}, {"delete", 2}, {"delete", 0}, {"add", 0}},
	}

	for name := range implementations(t) {
		for i, seq := range sequences {
			t.Run(name, func(t *testing.T) {
				s := implementations(t)[name]
				ctx := context.Background()

				var added []int64
				deleted := map[int64]bool{}
				for _, o := range seq {
					switch o.kind {
					case "add":
						task, err := s.AddTask(ctx, "task", created, model.PriorityMedium)
						require.NoError(t, err)
						added = append(added, task.ID)
					case "toggle":
						require.NoError(t, s.ToggleComplete(ctx, added[o.ref]))
					case "delete":
						require.NoError(t, s.DeleteTask(ctx, added[o.ref]))
						deleted[added[o.ref]] = true
					}
				}

				var want []int64
				for _, id := range added {
					if !deleted[id] {
						want = append(want, id)
					}
				}

				tasks, err := s.ListTasks(ctx)
				require.NoError(t, err)
				seen := map[int64]bool{}
				var got []int64
				for _, task := range tasks {
					assert.False(t, seen[task.ID], "sequence %d: duplicate id %d", i, task.ID)
					seen[task.ID] = true
					got = append(got, task.ID)
				}
				assert.Equal(t, want, got, "sequence %d", i)
			})
		}
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	mem, err := store.Open(store.MemoryPath)
	require.NoError(t, err)
	assert.IsType(t, &store.MemoryStore{}, mem)
	assert.NoError(t, mem.Close())

	file, err := store.Open(filepath.Join(t.TempDir(), "data", "tasks.db"))
	require.NoError(t, err)
	assert.IsType(t, &store.SQLiteStore{}, file)
	assert.NoError(t, file.Close())
}

func TestSQLiteGetTaskAfterReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tasks.db")
	opts := []store.Option{store.WithLocation(time.UTC), store.WithClock(testutil.FixedClock(created))}

	s, err := store.NewSQLiteStore(path, opts...)
	require.NoError(t, err)
	task, err := s.AddTask(ctx, "renew passport", model.NewDate(2025, time.March, 20, time.UTC), model.PriorityHigh)
	require.NoError(t, err)
	require.NoError(t, s.ToggleComplete(ctx, task.ID))
	require.NoError(t, s.Close())

	s, err = store.NewSQLiteStore(path, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	got, err := s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "renew passport", got.Description)
	assert.Equal(t, model.PriorityHigh, got.Priority)
	assert.Equal(t, "2025-03-20", got.DueDate.Format(model.DateLayout))
	assert.True(t, got.CreatedAt.Equal(created))
	assert.True(t, got.Completed)

	_, err = s.GetTask(ctx, task.ID+1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

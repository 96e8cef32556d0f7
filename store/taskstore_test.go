package store_test

import (
	"errors"
	"testing"
	"time"

	"github.com/arthur-debert/taskmaster/storage"
	"github.com/arthur-debert/taskmaster/store"
	"github.com/arthur-debert/taskmaster/types"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)

func newTaskStore(t *testing.T) *store.TaskStore {
	t.Helper()
	s, err := store.NewTaskStore(storage.NewMemory(), store.WithTimeFunc(func() time.Time { return testNow }))
	if err != nil {
		t.Fatalf("failed to create task store: %v", err)
	}
	return s
}

func TestCreateFillsDefaults(t *testing.T) {
	s := newTaskStore(t)

	task := s.Create(store.TaskDraft{})
	if task.ID == "" {
		t.Error("expected a generated id")
	}
	if task.Title != "Untitled Task" {
		t.Errorf("expected placeholder title, got %q", task.Title)
	}
	if task.Priority != types.PriorityMedium {
		t.Errorf("expected medium priority, got %q", task.Priority)
	}
	if task.Status != types.TaskPending {
		t.Errorf("expected pending status, got %q", task.Status)
	}
	if task.Category != "Personal" {
		t.Errorf("expected default category, got %q", task.Category)
	}
	if task.Tags == nil || task.Subtasks == nil {
		t.Error("expected empty, non-nil tags and subtasks")
	}
	if task.Position != 0 {
		t.Errorf("expected position 0, got %d", task.Position)
	}
	if !task.CreatedAt.Equal(testNow) || !task.UpdatedAt.Equal(testNow) {
		t.Errorf("unexpected timestamps: %v / %v", task.CreatedAt, task.UpdatedAt)
	}

	second := s.Create(store.TaskDraft{Title: "Second"})
	if second.Position != 1 {
		t.Errorf("expected insertion-index position 1, got %d", second.Position)
	}
}

func TestCompletionTimestampInvariant(t *testing.T) {
	s := newTaskStore(t)
	task := s.Create(store.TaskDraft{Title: "Finish report"})

	completed := types.TaskCompleted
	updated, err := s.Update(task.ID, store.TaskPatch{Status: &completed})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.CompletedAt == nil {
		t.Fatal("expected CompletedAt set when status becomes completed")
	}
	if !updated.CompletedAt.Equal(testNow) {
		t.Errorf("expected CompletedAt %v, got %v", testNow, updated.CompletedAt)
	}

	// Updating an unrelated field keeps the invariant intact.
	title := "Finish quarterly report"
	updated, err = s.Update(task.ID, store.TaskPatch{Title: &title})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.CompletedAt == nil {
		t.Error("CompletedAt lost on unrelated update of a completed task")
	}

	pending := types.TaskPending
	updated, err = s.Update(task.ID, store.TaskPatch{Status: &pending})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.CompletedAt != nil {
		t.Error("expected CompletedAt cleared when status leaves completed")
	}
}

func TestUpdateNotFound(t *testing.T) {
	s := newTaskStore(t)
	title := "x"
	if _, err := s.Update("no-such-id", store.TaskPatch{Title: &title}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteReturnsSnapshot(t *testing.T) {
	s := newTaskStore(t)
	task := s.Create(store.TaskDraft{Title: "Doomed"})

	removed, err := s.Delete(task.ID)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if removed.Title != "Doomed" {
		t.Errorf("expected removed snapshot, got %q", removed.Title)
	}
	if _, ok := s.Get(task.ID); ok {
		t.Error("task still present after delete")
	}
	if _, err := s.Delete(task.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestListCopySemantics(t *testing.T) {
	s := newTaskStore(t)
	s.Create(store.TaskDraft{Title: "Immutable", Tags: []string{"keep"}})

	list := s.List()
	list[0].Title = "mutated"
	list[0].Tags[0] = "changed"

	fresh := s.List()
	if fresh[0].Title != "Immutable" || fresh[0].Tags[0] != "keep" {
		t.Error("mutating a returned snapshot changed store state")
	}
}

func TestFilterToday(t *testing.T) {
	s := newTaskStore(t)
	dueToday := testNow.Add(5 * time.Hour)
	task := s.Create(store.TaskDraft{Title: "Due today", DueDate: &dueToday})

	matched := s.Filter(store.TaskFilter{Today: true})
	if len(matched) != 1 || matched[0].ID != task.ID {
		t.Fatalf("expected the task due today, got %v", matched)
	}

	tomorrow := dueToday.AddDate(0, 0, 1)
	if _, err := s.Update(task.ID, store.TaskPatch{DueDate: &tomorrow}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if matched := s.Filter(store.TaskFilter{Today: true}); len(matched) != 0 {
		t.Errorf("expected no tasks due today after moving the due date, got %d", len(matched))
	}
}

func TestFilterOverdueAndUpcoming(t *testing.T) {
	s := newTaskStore(t)

	past := testNow.Add(-2 * time.Hour)
	overdue := s.Create(store.TaskDraft{Title: "Late", DueDate: &past})

	soon := testNow.Add(3 * 24 * time.Hour)
	upcoming := s.Create(store.TaskDraft{Title: "Soon", DueDate: &soon})

	far := testNow.Add(10 * 24 * time.Hour)
	s.Create(store.TaskDraft{Title: "Far", DueDate: &far})

	s.Create(store.TaskDraft{Title: "No due date"})

	if matched := s.Filter(store.TaskFilter{Overdue: true}); len(matched) != 1 || matched[0].ID != overdue.ID {
		t.Errorf("unexpected overdue result: %v", matched)
	}
	if matched := s.Filter(store.TaskFilter{Upcoming: true}); len(matched) != 1 || matched[0].ID != upcoming.ID {
		t.Errorf("unexpected upcoming result: %v", matched)
	}

	// A completed task is neither overdue nor upcoming.
	completed := types.TaskCompleted
	if _, err := s.Update(overdue.ID, store.TaskPatch{Status: &completed}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if matched := s.Filter(store.TaskFilter{Overdue: true}); len(matched) != 0 {
		t.Errorf("completed task still reported overdue: %v", matched)
	}
}

func TestFilterSearch(t *testing.T) {
	s := newTaskStore(t)
	s.Create(store.TaskDraft{Title: "Buy groceries", Notes: "weekly run"})
	s.Create(store.TaskDraft{Title: "Call dentist", Tags: []string{"health"}})

	if matched := s.Filter(store.TaskFilter{Search: "GROCER"}); len(matched) != 1 {
		t.Errorf("expected title search to match 1 task, got %d", len(matched))
	}
	if matched := s.Filter(store.TaskFilter{Search: "health"}); len(matched) != 1 {
		t.Errorf("expected tag search to match 1 task, got %d", len(matched))
	}
	if matched := s.Filter(store.TaskFilter{Search: "weekly"}); len(matched) != 1 {
		t.Errorf("expected notes search to match 1 task, got %d", len(matched))
	}
}

func TestFilterCombinesWithAnd(t *testing.T) {
	s := newTaskStore(t)
	s.Create(store.TaskDraft{Title: "A", Priority: types.PriorityHigh, Category: "Work"})
	s.Create(store.TaskDraft{Title: "B", Priority: types.PriorityHigh, Category: "Personal"})
	s.Create(store.TaskDraft{Title: "C", Priority: types.PriorityLow, Category: "Work"})

	matched := s.Filter(store.TaskFilter{Priority: types.PriorityHigh, Category: "Work"})
	if len(matched) != 1 || matched[0].Title != "A" {
		t.Errorf("expected only task A, got %v", matched)
	}
}

func TestStatsCompletionRate(t *testing.T) {
	s := newTaskStore(t)

	if rate := s.Stats().CompletionRate; rate != 0 {
		t.Errorf("expected completion rate 0 for empty store, got %d", rate)
	}

	var first types.Task
	for i := 0; i < 4; i++ {
		task := s.Create(store.TaskDraft{Title: "Task"})
		if i == 0 {
			first = task
		}
	}
	completed := types.TaskCompleted
	if _, err := s.Update(first.ID, store.TaskPatch{Status: &completed}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	stats := s.Stats()
	if stats.Total != 4 || stats.Completed != 1 {
		t.Fatalf("unexpected counts: total=%d completed=%d", stats.Total, stats.Completed)
	}
	if stats.CompletionRate != 25 {
		t.Errorf("expected completion rate 25, got %d", stats.CompletionRate)
	}
}

func TestStatsBucketsZeroFilled(t *testing.T) {
	s := newTaskStore(t)
	s.Create(store.TaskDraft{Title: "Only one", Priority: types.PriorityHigh})

	stats := s.Stats()
	for _, priority := range types.Priorities() {
		if _, ok := stats.ByPriority[priority]; !ok {
			t.Errorf("priority bucket %q missing", priority)
		}
	}
	if stats.ByPriority[types.PriorityLow] != 0 || stats.ByPriority[types.PriorityHigh] != 1 {
		t.Errorf("unexpected priority buckets: %v", stats.ByPriority)
	}
	for _, category := range store.DefaultCategories {
		if _, ok := stats.ByCategory[category]; !ok {
			t.Errorf("category bucket %q missing", category)
		}
	}
}

func TestStatsWeeklySeries(t *testing.T) {
	s := newTaskStore(t)

	task := s.Create(store.TaskDraft{Title: "Done yesterday"})
	completed := types.TaskCompleted
	yesterday := testNow.AddDate(0, 0, -1)
	s.SetTimeFunc(func() time.Time { return yesterday })
	if _, err := s.Update(task.ID, store.TaskPatch{Status: &completed}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	s.SetTimeFunc(func() time.Time { return testNow })

	weekly := s.Stats().Weekly
	if len(weekly) != 7 {
		t.Fatalf("expected a 7-day series, got %d", len(weekly))
	}
	if weekly[6].Completed != 0 {
		t.Errorf("expected no completions today, got %d", weekly[6].Completed)
	}
	if weekly[5].Completed != 1 {
		t.Errorf("expected 1 completion yesterday, got %d", weekly[5].Completed)
	}
	if weekly[5].Weekday != yesterday.Format("Mon") {
		t.Errorf("expected weekday label %q, got %q", yesterday.Format("Mon"), weekly[5].Weekday)
	}
}

func TestSubtaskLifecycle(t *testing.T) {
	s := newTaskStore(t)
	task := s.Create(store.TaskDraft{Title: "Parent"})

	first, err := s.AddSubtask(task.ID, "step one")
	if err != nil {
		t.Fatalf("add subtask failed: %v", err)
	}
	second, err := s.AddSubtask(task.ID, "step two")
	if err != nil {
		t.Fatalf("add subtask failed: %v", err)
	}

	done := true
	updated, err := s.UpdateSubtask(task.ID, first.ID, store.SubtaskPatch{Completed: &done})
	if err != nil {
		t.Fatalf("update subtask failed: %v", err)
	}
	if !updated.Completed {
		t.Error("expected subtask marked completed")
	}

	if _, err := s.RemoveSubtask(task.ID, second.ID); err != nil {
		t.Fatalf("remove subtask failed: %v", err)
	}

	parent, _ := s.Get(task.ID)
	if len(parent.Subtasks) != 1 || parent.Subtasks[0].ID != first.ID {
		t.Errorf("unexpected remaining subtasks: %v", parent.Subtasks)
	}
}

func TestSubtaskNotFoundLeavesSiblings(t *testing.T) {
	s := newTaskStore(t)
	task := s.Create(store.TaskDraft{Title: "Parent"})
	if _, err := s.AddSubtask(task.ID, "only child"); err != nil {
		t.Fatalf("add subtask failed: %v", err)
	}

	if _, err := s.RemoveSubtask(task.ID, "no-such-subtask"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.RemoveSubtask("no-such-task", "x"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing parent, got %v", err)
	}

	parent, _ := s.Get(task.ID)
	if len(parent.Subtasks) != 1 {
		t.Errorf("sibling subtasks changed: %v", parent.Subtasks)
	}
}

func TestUpdateEventCarriesOldAndNew(t *testing.T) {
	s := newTaskStore(t)
	task := s.Create(store.TaskDraft{Title: "Before"})

	var got store.TaskEvent
	unsubscribe := s.Subscribe(func(event store.TaskEvent) {
		if event.Kind == store.EventUpdated {
			got = event
		}
	})
	defer unsubscribe()

	title := "After"
	if _, err := s.Update(task.ID, store.TaskPatch{Title: &title}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if got.Old == nil || got.Task == nil {
		t.Fatal("expected both old and new snapshots on the updated event")
	}
	if got.Old.Title != "Before" || got.Task.Title != "After" {
		t.Errorf("unexpected snapshots: old=%q new=%q", got.Old.Title, got.Task.Title)
	}
}

func TestSubscribeOrderAndUnsubscribe(t *testing.T) {
	s := newTaskStore(t)

	var order []int
	unsub1 := s.Subscribe(func(store.TaskEvent) { order = append(order, 1) })
	s.Subscribe(func(store.TaskEvent) { order = append(order, 2) })

	s.Create(store.TaskDraft{Title: "x"})
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("expected delivery in subscription order, got %v", order)
	}

	unsub1()
	order = nil
	s.Create(store.TaskDraft{Title: "y"})
	if len(order) != 1 || order[0] != 2 {
		t.Errorf("expected only second listener after unsubscribe, got %v", order)
	}
}

func TestCategoryRegistration(t *testing.T) {
	s := newTaskStore(t)
	s.Create(store.TaskDraft{Title: "Trip", Category: "Travel"})

	found := false
	for _, category := range s.Categories() {
		if category == "Travel" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected novel category to be registered, got %v", s.Categories())
	}
}

func TestClearReseedsCategories(t *testing.T) {
	s := newTaskStore(t)
	s.Create(store.TaskDraft{Title: "x", Category: "Travel"})

	cleared := false
	s.Subscribe(func(event store.TaskEvent) {
		if event.Kind == store.EventCleared {
			cleared = true
		}
	})

	s.Clear()
	if !cleared {
		t.Error("expected a cleared event")
	}
	if len(s.List()) != 0 {
		t.Error("expected empty collection after clear")
	}
	categories := s.Categories()
	if len(categories) != len(store.DefaultCategories) {
		t.Errorf("expected default categories after clear, got %v", categories)
	}
}

func TestPersistenceFailureDoesNotFailOperation(t *testing.T) {
	backend := storage.NewMemory()
	s, err := store.NewTaskStore(backend, store.WithTimeFunc(func() time.Time { return testNow }))
	if err != nil {
		t.Fatalf("failed to create task store: %v", err)
	}

	backend.FailWrites = errors.New("disk full")
	task := s.Create(store.TaskDraft{Title: "Still created"})
	if _, ok := s.Get(task.ID); !ok {
		t.Error("in-memory state should be authoritative despite write failure")
	}
}

func TestStoreReloadsPersistedTasks(t *testing.T) {
	backend := storage.NewMemory()
	s, err := store.NewTaskStore(backend)
	if err != nil {
		t.Fatalf("failed to create task store: %v", err)
	}
	created := s.Create(store.TaskDraft{Title: "Survivor", Tags: []string{"keep"}})

	reloaded, err := store.NewTaskStore(backend)
	if err != nil {
		t.Fatalf("failed to reload task store: %v", err)
	}
	task, ok := reloaded.Get(created.ID)
	if !ok {
		t.Fatal("task missing after reload")
	}
	if task.Title != "Survivor" || len(task.Tags) != 1 {
		t.Errorf("unexpected reloaded task: %+v", task)
	}
}

func TestReplaceTasksKeepsCategories(t *testing.T) {
	s := newTaskStore(t)
	s.Create(store.TaskDraft{Title: "Trip", Category: "Travel"})

	s.ReplaceTasks([]types.Task{{ID: "t1", Title: "Imported"}})

	tasks := s.List()
	if len(tasks) != 1 || tasks[0].ID != "t1" {
		t.Errorf("expected only the replacement task, got %+v", tasks)
	}
	found := false
	for _, category := range s.Categories() {
		if category == "Travel" {
			found = true
		}
	}
	if !found {
		t.Error("ReplaceTasks dropped a registered category")
	}
}

func TestReplaceCategoriesKeepsTasks(t *testing.T) {
	s := newTaskStore(t)
	created := s.Create(store.TaskDraft{Title: "Keep me"})

	s.ReplaceCategories([]string{"Custom"})

	if _, ok := s.Get(created.ID); !ok {
		t.Error("ReplaceCategories removed tasks")
	}
	categories := s.Categories()
	if len(categories) != 1 || categories[0] != "Custom" {
		t.Errorf("expected only the replacement category, got %v", categories)
	}
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	dto "taskgroups.com/taskgroups/internal/data_models"
	apperrors "taskgroups.com/taskgroups/internal/errors"
	model "taskgroups.com/taskgroups/internal/models"
	"taskgroups.com/taskgroups/internal/store"
)

func setupTestStore(t *testing.T) store.Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Group{}, &model.Task{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	return store.NewSqliteStore(db)
}

func setupServices(t *testing.T) (store.Store, *AuthService, *GroupService, *TaskService) {
	t.Helper()
	st := setupTestStore(t)
	return st, NewAuthService(st, zap.NewNop()), NewGroupService(st), NewTaskService(st)
}

func mustUser(t *testing.T, st store.Store, username string) *model.User {
	t.Helper()
	user, err := st.CreateUser(context.Background(), username, "hash")
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func strptr(s string) *string { return &s }
func intptr(i int) *int       { return &i }

func TestAuthVerify(t *testing.T) {
	_, auth, _, _ := setupServices(t)
	ctx := context.Background()

	if _, err := auth.CreateUser(ctx, "alice", "s3cret"); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	if _, ok := auth.Verify(ctx, "alice", "s3cret"); !ok {
		t.Error("expected valid credentials to verify")
	}
	if _, ok := auth.Verify(ctx, "alice", "wrong"); ok {
		t.Error("expected wrong password to fail")
	}
	if _, ok := auth.Verify(ctx, "nobody", "s3cret"); ok {
		t.Error("expected unknown user to fail")
	}

	user, err := auth.ResolveIdentity(ctx, "alice")
	if err != nil {
		t.Fatalf("failed to resolve identity: %v", err)
	}
	if user.ID == 0 {
		t.Error("expected a stable numeric identity")
	}
}

func TestEnsureDefaultUser(t *testing.T) {
	st, auth, _, _ := setupServices(t)
	ctx := context.Background()

	if err := auth.EnsureDefaultUser(ctx); err != nil {
		t.Fatalf("failed to seed default user: %v", err)
	}
	if _, ok := auth.Verify(ctx, DefaultUsername, DefaultPassword); !ok {
		t.Error("expected default credentials to verify after seeding")
	}

	// Seeding is first-run only.
	if err := auth.EnsureDefaultUser(ctx); err != nil {
		t.Fatalf("second seeding call failed: %v", err)
	}
	n, err := st.CountUsers(ctx)
	if err != nil {
		t.Fatalf("failed to count users: %v", err)
	}
	if n != 1 {
		t.Errorf("expected exactly one user, got %d", n)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	st, _, _, tasks := setupServices(t)
	ctx := context.Background()
	user := mustUser(t, st, "alice")

	if _, err := tasks.Create(ctx, user.ID, dto.CreateTaskRequest{}); !errors.Is(err, apperrors.ErrTitleRequired) {
		t.Errorf("expected ErrTitleRequired, got %v", err)
	}
	if _, err := tasks.Create(ctx, user.ID, dto.CreateTaskRequest{Title: "   "}); !errors.Is(err, apperrors.ErrTitleRequired) {
		t.Errorf("expected ErrTitleRequired for whitespace title, got %v", err)
	}
	if _, err := tasks.Create(ctx, user.ID, dto.CreateTaskRequest{Title: "ok", GroupID: intptr(99)}); !errors.Is(err, apperrors.ErrInvalidGroup) {
		t.Errorf("expected ErrInvalidGroup for unknown group, got %v", err)
	}
}

func TestCreateTaskForeignGroupRejected(t *testing.T) {
	st, _, groups, tasks := setupServices(t)
	ctx := context.Background()

	alice := mustUser(t, st, "alice")
	bob := mustUser(t, st, "bob")

	g, err := groups.Create(ctx, alice.ID, dto.CreateGroupRequest{Name: "Alice's"})
	if err != nil {
		t.Fatalf("failed to create group: %v", err)
	}

	_, err = tasks.Create(ctx, bob.ID, dto.CreateTaskRequest{Title: "sneaky", GroupID: &g.ID})
	if !errors.Is(err, apperrors.ErrInvalidGroup) {
		t.Errorf("expected ErrInvalidGroup for foreign group, got %v", err)
	}
}

func TestTaskCreateThenGet(t *testing.T) {
	st, _, _, tasks := setupServices(t)
	ctx := context.Background()
	user := mustUser(t, st, "alice")

	created, err := tasks.Create(ctx, user.ID, dto.CreateTaskRequest{Title: "Write report"})
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	if created.Completed {
		t.Error("expected new task to be incomplete")
	}

	got, err := tasks.Get(ctx, user.ID, created.ID)
	if err != nil {
		t.Fatalf("failed to get task: %v", err)
	}
	if got.Title != "Write report" {
		t.Errorf("expected title round-trip, got %q", got.Title)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("expected matching created_at, got %v vs %v", got.CreatedAt, created.CreatedAt)
	}
}

func TestUpdateTaskSemantics(t *testing.T) {
	st, _, groups, tasks := setupServices(t)
	ctx := context.Background()
	user := mustUser(t, st, "alice")

	g, err := groups.Create(ctx, user.ID, dto.CreateGroupRequest{Name: "Work"})
	if err != nil {
		t.Fatalf("failed to create group: %v", err)
	}
	task, err := tasks.Create(ctx, user.ID, dto.CreateTaskRequest{Title: "draft", GroupID: &g.ID})
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	if _, err := tasks.Update(ctx, user.ID, task.ID, dto.UpdateTaskRequest{Title: strptr(" ")}); !errors.Is(err, apperrors.ErrTitleEmpty) {
		t.Errorf("expected ErrTitleEmpty, got %v", err)
	}
	if _, err := tasks.Update(ctx, user.ID, 999, dto.UpdateTaskRequest{}); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}

	// group_id null clears, absence keeps.
	updated, err := tasks.Update(ctx, user.ID, task.ID, dto.UpdateTaskRequest{Title: strptr("final")})
	if err != nil {
		t.Fatalf("failed to update task: %v", err)
	}
	if updated.GroupID == nil || *updated.GroupID != g.ID {
		t.Error("expected group kept when group_id absent")
	}

	cleared, err := tasks.Update(ctx, user.ID, task.ID, dto.UpdateTaskRequest{
		GroupID: dto.OptionalInt{Set: true, Value: nil},
	})
	if err != nil {
		t.Fatalf("failed to clear group: %v", err)
	}
	if cleared.GroupID != nil {
		t.Errorf("expected group cleared, got %v", *cleared.GroupID)
	}
	if cleared.Title != "final" {
		t.Errorf("expected title kept, got %q", cleared.Title)
	}
}

func TestSetCompleted(t *testing.T) {
	st, _, _, tasks := setupServices(t)
	ctx := context.Background()
	user := mustUser(t, st, "alice")

	task, err := tasks.Create(ctx, user.ID, dto.CreateTaskRequest{Title: "toggle me"})
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	done, err := tasks.SetCompleted(ctx, user.ID, task.ID, true)
	if err != nil {
		t.Fatalf("failed to complete task: %v", err)
	}
	if !done.Completed {
		t.Error("expected task completed")
	}
	if !done.UpdatedAt.After(task.UpdatedAt) {
		t.Errorf("expected updated_at to advance: %v -> %v", task.UpdatedAt, done.UpdatedAt)
	}

	if _, err := tasks.SetCompleted(ctx, user.ID, 999, true); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestGroupValidationAndNoOpUpdate(t *testing.T) {
	st, _, groups, _ := setupServices(t)
	ctx := context.Background()
	user := mustUser(t, st, "alice")

	if _, err := groups.Create(ctx, user.ID, dto.CreateGroupRequest{Name: "  "}); !errors.Is(err, apperrors.ErrNameRequired) {
		t.Errorf("expected ErrNameRequired, got %v", err)
	}

	g, err := groups.Create(ctx, user.ID, dto.CreateGroupRequest{Name: "Work", Color: strptr("#3498db")})
	if err != nil {
		t.Fatalf("failed to create group: %v", err)
	}
	if g.TaskCount != 0 {
		t.Errorf("expected task_count 0 on fresh group, got %d", g.TaskCount)
	}

	if _, err := groups.Update(ctx, user.ID, g.ID, dto.UpdateGroupRequest{Name: strptr("")}); !errors.Is(err, apperrors.ErrNameEmpty) {
		t.Errorf("expected ErrNameEmpty, got %v", err)
	}
	if _, err := groups.Update(ctx, user.ID, 999, dto.UpdateGroupRequest{}); !errors.Is(err, apperrors.ErrGroupNotFound) {
		t.Errorf("expected ErrGroupNotFound, got %v", err)
	}

	// No fields provided: unchanged result, no error.
	same, err := groups.Update(ctx, user.ID, g.ID, dto.UpdateGroupRequest{})
	if err != nil {
		t.Fatalf("failed no-op update: %v", err)
	}
	if same.Name != "Work" || same.Color == nil || *same.Color != "#3498db" {
		t.Errorf("expected group unchanged, got %+v", same)
	}

	// Clearing the color with an explicit null.
	noColor, err := groups.Update(ctx, user.ID, g.ID, dto.UpdateGroupRequest{
		Color: dto.OptionalString{Set: true, Value: nil},
	})
	if err != nil {
		t.Fatalf("failed to clear color: %v", err)
	}
	if noColor.Color != nil {
		t.Errorf("expected color cleared, got %v", *noColor.Color)
	}
}

func TestDeleteGroupKeepsTasks(t *testing.T) {
	st, _, groups, tasks := setupServices(t)
	ctx := context.Background()
	user := mustUser(t, st, "alice")

	g, err := groups.Create(ctx, user.ID, dto.CreateGroupRequest{Name: "Work"})
	if err != nil {
		t.Fatalf("failed to create group: %v", err)
	}
	task, err := tasks.Create(ctx, user.ID, dto.CreateTaskRequest{Title: "survives", GroupID: &g.ID})
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	if err := groups.Delete(ctx, user.ID, g.ID); err != nil {
		t.Fatalf("failed to delete group: %v", err)
	}
	if _, err := groups.Get(ctx, user.ID, g.ID); !errors.Is(err, apperrors.ErrGroupNotFound) {
		t.Errorf("expected ErrGroupNotFound after delete, got %v", err)
	}

	got, err := tasks.Get(ctx, user.ID, task.ID)
	if err != nil {
		t.Fatalf("expected task to survive, got %v", err)
	}
	if got.GroupID != nil || got.GroupName != nil {
		t.Errorf("expected group reference cleared, got %v %v", got.GroupID, got.GroupName)
	}
}

func TestGroupDetailIncludesTasks(t *testing.T) {
	st, _, groups, tasks := setupServices(t)
	ctx := context.Background()
	user := mustUser(t, st, "alice")

	g, err := groups.Create(ctx, user.ID, dto.CreateGroupRequest{Name: "Work"})
	if err != nil {
		t.Fatalf("failed to create group: %v", err)
	}
	for _, title := range []string{"one", "two"} {
		if _, err := tasks.Create(ctx, user.ID, dto.CreateTaskRequest{Title: title, GroupID: &g.ID}); err != nil {
			t.Fatalf("failed to create task: %v", err)
		}
	}
	if _, err := tasks.Create(ctx, user.ID, dto.CreateTaskRequest{Title: "elsewhere"}); err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	detail, err := groups.Get(ctx, user.ID, g.ID)
	if err != nil {
		t.Fatalf("failed to get group: %v", err)
	}
	if len(detail.Tasks) != 2 {
		t.Errorf("expected 2 tasks in detail, got %d", len(detail.Tasks))
	}
}

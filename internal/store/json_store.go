package store

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	model "taskgroups.com/taskgroups/internal/models"
)

// JSONStore backs the adapter with an in-process structure rewritten to a
// single file after every mutation. One mutex serializes all access, so a
// mutation can never produce a torn file; concurrent writers still race at
// the operation level (last write wins), which is the documented limit of
// this backing.
type JSONStore struct {
	mu   sync.Mutex
	path string
	data fileData
}

type fileData struct {
	Users  []model.User  `json:"users"`
	Groups []model.Group `json:"groups"`
	Tasks  []model.Task  `json:"tasks"`
}

func NewJSONStore(path string) (*JSONStore, error) {
	s := &JSONStore{path: path}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, err
	}
	return s, nil
}

// save rewrites the whole backing file. Callers hold s.mu.
func (s *JSONStore) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o644)
}

func nextUserID(users []model.User) int {
	id := 1
	for _, u := range users {
		if u.ID >= id {
			id = u.ID + 1
		}
	}
	return id
}

func nextGroupID(groups []model.Group) int {
	id := 1
	for _, g := range groups {
		if g.ID >= id {
			id = g.ID + 1
		}
	}
	return id
}

func nextTaskID(tasks []model.Task) int {
	id := 1
	for _, t := range tasks {
		if t.ID >= id {
			id = t.ID + 1
		}
	}
	return id
}

func (s *JSONStore) UserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.data.Users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (s *JSONStore) UserByID(ctx context.Context, id int) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.data.Users {
		if u.ID == id {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (s *JSONStore) CreateUser(ctx context.Context, username, passwordHash string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.data.Users {
		if u.Username == username {
			return nil, ErrDuplicate
		}
	}

	user := model.User{
		ID:           nextUserID(s.data.Users),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	s.data.Users = append(s.data.Users, user)
	if err := s.save(); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *JSONStore) DeleteUser(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, u := range s.data.Users {
		if u.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrNotFound
	}
	s.data.Users = append(s.data.Users[:idx], s.data.Users[idx+1:]...)

	groups := s.data.Groups[:0]
	for _, g := range s.data.Groups {
		if g.UserID != id {
			groups = append(groups, g)
		}
	}
	s.data.Groups = groups

	tasks := s.data.Tasks[:0]
	for _, t := range s.data.Tasks {
		if t.UserID != id {
			tasks = append(tasks, t)
		}
	}
	s.data.Tasks = tasks

	return s.save()
}

func (s *JSONStore) CountUsers(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.data.Users)), nil
}

func (s *JSONStore) GroupsByUser(ctx context.Context, userID int) ([]model.GroupWithCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups := []model.GroupWithCount{}
	for _, g := range s.data.Groups {
		if g.UserID != userID {
			continue
		}
		groups = append(groups, model.GroupWithCount{
			Group:     g,
			TaskCount: s.countTasksLocked(g.ID),
		})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].CreatedAt.Equal(groups[j].CreatedAt) {
			return groups[i].ID > groups[j].ID
		}
		return groups[i].CreatedAt.After(groups[j].CreatedAt)
	})
	return groups, nil
}

func (s *JSONStore) GroupByID(ctx context.Context, userID, id int) (*model.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.findGroupLocked(userID, id)
	if g == nil {
		return nil, ErrNotFound
	}
	group := *g
	return &group, nil
}

func (s *JSONStore) GroupTaskCount(ctx context.Context, groupID int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countTasksLocked(groupID), nil
}

func (s *JSONStore) countTasksLocked(groupID int) int64 {
	var n int64
	for _, t := range s.data.Tasks {
		if t.GroupID != nil && *t.GroupID == groupID {
			n++
		}
	}
	return n
}

func (s *JSONStore) findGroupLocked(userID, id int) *model.Group {
	for i := range s.data.Groups {
		if s.data.Groups[i].ID == id && s.data.Groups[i].UserID == userID {
			return &s.data.Groups[i]
		}
	}
	return nil
}

func (s *JSONStore) CreateGroup(ctx context.Context, userID int, name string, color *string) (*model.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	group := model.Group{
		ID:        nextGroupID(s.data.Groups),
		UserID:    userID,
		Name:      name,
		Color:     color,
		CreatedAt: time.Now().UTC(),
	}
	s.data.Groups = append(s.data.Groups, group)
	if err := s.save(); err != nil {
		return nil, err
	}
	return &group, nil
}

func (s *JSONStore) UpdateGroup(ctx context.Context, userID, id int, update GroupUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.findGroupLocked(userID, id)
	if g == nil {
		return ErrNotFound
	}
	if update.Name == nil && !update.SetColor {
		return nil
	}
	if update.Name != nil {
		g.Name = *update.Name
	}
	if update.SetColor {
		g.Color = update.Color
	}
	return s.save()
}

func (s *JSONStore) DeleteGroup(ctx context.Context, userID, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, g := range s.data.Groups {
		if g.ID == id && g.UserID == userID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrNotFound
	}
	s.data.Groups = append(s.data.Groups[:idx], s.data.Groups[idx+1:]...)

	for i := range s.data.Tasks {
		if s.data.Tasks[i].GroupID != nil && *s.data.Tasks[i].GroupID == id {
			s.data.Tasks[i].GroupID = nil
		}
	}
	return s.save()
}

func (s *JSONStore) TasksByUser(ctx context.Context, userID int, filter TaskFilter) ([]model.TaskWithGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := []model.TaskWithGroup{}
	for _, t := range s.data.Tasks {
		if t.UserID != userID {
			continue
		}
		if filter.GroupID != nil && (t.GroupID == nil || *t.GroupID != *filter.GroupID) {
			continue
		}
		if filter.Completed != nil && t.Completed != *filter.Completed {
			continue
		}
		tasks = append(tasks, s.joinGroupLocked(t))
	}
	sortTasksWithGroup(tasks)
	return tasks, nil
}

func (s *JSONStore) joinGroupLocked(t model.Task) model.TaskWithGroup {
	row := model.TaskWithGroup{Task: t}
	if t.GroupID == nil {
		return row
	}
	for _, g := range s.data.Groups {
		if g.ID == *t.GroupID {
			name := g.Name
			row.GroupName = &name
			row.GroupColor = g.Color
			break
		}
	}
	return row
}

func sortTasksWithGroup(tasks []model.TaskWithGroup) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID > tasks[j].ID
		}
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
}

func (s *JSONStore) TasksByGroup(ctx context.Context, userID, groupID int) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := []model.Task{}
	for _, t := range s.data.Tasks {
		if t.UserID == userID && t.GroupID != nil && *t.GroupID == groupID {
			tasks = append(tasks, t)
		}
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID > tasks[j].ID
		}
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (s *JSONStore) TaskByID(ctx context.Context, userID, id int) (*model.TaskWithGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.findTaskLocked(userID, id)
	if t == nil {
		return nil, ErrNotFound
	}
	row := s.joinGroupLocked(*t)
	return &row, nil
}

func (s *JSONStore) findTaskLocked(userID, id int) *model.Task {
	for i := range s.data.Tasks {
		if s.data.Tasks[i].ID == id && s.data.Tasks[i].UserID == userID {
			return &s.data.Tasks[i]
		}
	}
	return nil
}

func (s *JSONStore) CreateTask(ctx context.Context, userID int, t NewTask) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	task := model.Task{
		ID:          nextTaskID(s.data.Tasks),
		UserID:      userID,
		GroupID:     t.GroupID,
		Title:       t.Title,
		Description: t.Description,
		Deadline:    t.Deadline,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.data.Tasks = append(s.data.Tasks, task)
	if err := s.save(); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *JSONStore) UpdateTask(ctx context.Context, userID, id int, update TaskUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.findTaskLocked(userID, id)
	if t == nil {
		return ErrNotFound
	}
	if update.Title != nil {
		t.Title = *update.Title
	}
	if update.SetDescription {
		t.Description = update.Description
	}
	if update.SetDeadline {
		t.Deadline = update.Deadline
	}
	if update.SetGroupID {
		t.GroupID = update.GroupID
	}
	if update.Completed != nil {
		t.Completed = *update.Completed
	}
	t.UpdatedAt = time.Now().UTC()
	return s.save()
}

func (s *JSONStore) DeleteTask(ctx context.Context, userID, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.data.Tasks {
		if t.ID == id && t.UserID == userID {
			s.data.Tasks = append(s.data.Tasks[:i], s.data.Tasks[i+1:]...)
			return s.save()
		}
	}
	return ErrNotFound
}

func (s *JSONStore) Close() error {
	return nil
}

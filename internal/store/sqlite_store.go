package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	model "taskgroups.com/taskgroups/internal/models"
)

// SqliteStore backs the adapter with a relational engine through gorm.
type SqliteStore struct {
	db *gorm.DB
}

func NewSqliteStore(db *gorm.DB) *SqliteStore {
	return &SqliteStore{db: db}
}

func (s *SqliteStore) UserByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).First(&user, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *SqliteStore) UserByID(ctx context.Context, id int) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *SqliteStore) CreateUser(ctx context.Context, username, passwordHash string) (*model.User, error) {
	if _, err := s.UserByUsername(ctx, username); err == nil {
		return nil, ErrDuplicate
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		PasswordHash: passwordHash,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *SqliteStore) DeleteUser(ctx context.Context, id int) error {
	if err := s.db.WithContext(ctx).Where("user_id = ?", id).Delete(&model.Task{}).Error; err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Where("user_id = ?", id).Delete(&model.Group{}).Error; err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SqliteStore) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.User{}).Count(&n).Error
	return n, err
}

func (s *SqliteStore) GroupsByUser(ctx context.Context, userID int) ([]model.GroupWithCount, error) {
	var groups []model.GroupWithCount
	err := s.db.WithContext(ctx).Table("groups").
		Select("groups.*, COUNT(tasks.id) AS task_count").
		Joins("LEFT JOIN tasks ON tasks.group_id = groups.id").
		Where("groups.user_id = ?", userID).
		Group("groups.id").
		Order("groups.created_at DESC, groups.id DESC").
		Scan(&groups).Error
	if err != nil {
		return nil, err
	}
	if groups == nil {
		groups = []model.GroupWithCount{}
	}
	return groups, nil
}

func (s *SqliteStore) GroupByID(ctx context.Context, userID, id int) (*model.Group, error) {
	var group model.Group
	err := s.db.WithContext(ctx).First(&group, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (s *SqliteStore) GroupTaskCount(ctx context.Context, groupID int) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.Task{}).Where("group_id = ?", groupID).Count(&n).Error
	return n, err
}

func (s *SqliteStore) CreateGroup(ctx context.Context, userID int, name string, color *string) (*model.Group, error) {
	group := &model.Group{
		UserID: userID,
		Name:   name,
		Color:  color,
	}
	if err := s.db.WithContext(ctx).Create(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}

func (s *SqliteStore) UpdateGroup(ctx context.Context, userID, id int, update GroupUpdate) error {
	fields := map[string]interface{}{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.SetColor {
		fields["color"] = update.Color
	}
	if len(fields) == 0 {
		_, err := s.GroupByID(ctx, userID, id)
		return err
	}

	res := s.db.WithContext(ctx).Model(&model.Group{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SqliteStore) DeleteGroup(ctx context.Context, userID, id int) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.Group{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return s.db.WithContext(ctx).Model(&model.Task{}).
		Where("group_id = ? AND user_id = ?", id, userID).
		Update("group_id", nil).Error
}

const taskColumns = "tasks.*, groups.name AS group_name, groups.color AS group_color"

func (s *SqliteStore) TasksByUser(ctx context.Context, userID int, filter TaskFilter) ([]model.TaskWithGroup, error) {
	query := s.db.WithContext(ctx).Table("tasks").
		Select(taskColumns).
		Joins("LEFT JOIN groups ON groups.id = tasks.group_id").
		Where("tasks.user_id = ?", userID)

	if filter.GroupID != nil {
		query = query.Where("tasks.group_id = ?", *filter.GroupID)
	}
	if filter.Completed != nil {
		query = query.Where("tasks.completed = ?", *filter.Completed)
	}

	var tasks []model.TaskWithGroup
	err := query.Order("tasks.created_at DESC, tasks.id DESC").Scan(&tasks).Error
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []model.TaskWithGroup{}
	}
	return tasks, nil
}

func (s *SqliteStore) TasksByGroup(ctx context.Context, userID, groupID int) ([]model.Task, error) {
	var tasks []model.Task
	err := s.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Order("created_at DESC, id DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

func (s *SqliteStore) TaskByID(ctx context.Context, userID, id int) (*model.TaskWithGroup, error) {
	var tasks []model.TaskWithGroup
	err := s.db.WithContext(ctx).Table("tasks").
		Select(taskColumns).
		Joins("LEFT JOIN groups ON groups.id = tasks.group_id").
		Where("tasks.id = ? AND tasks.user_id = ?", id, userID).
		Limit(1).
		Scan(&tasks).Error
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, ErrNotFound
	}
	return &tasks[0], nil
}

func (s *SqliteStore) CreateTask(ctx context.Context, userID int, t NewTask) (*model.Task, error) {
	task := &model.Task{
		UserID:      userID,
		GroupID:     t.GroupID,
		Title:       t.Title,
		Description: t.Description,
		Deadline:    t.Deadline,
		Completed:   false,
	}
	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

func (s *SqliteStore) UpdateTask(ctx context.Context, userID, id int, update TaskUpdate) error {
	fields := map[string]interface{}{
		"updated_at": time.Now().UTC(),
	}
	if update.Title != nil {
		fields["title"] = *update.Title
	}
	if update.SetDescription {
		fields["description"] = update.Description
	}
	if update.SetDeadline {
		fields["deadline"] = update.Deadline
	}
	if update.SetGroupID {
		fields["group_id"] = update.GroupID
	}
	if update.Completed != nil {
		fields["completed"] = *update.Completed
	}

	res := s.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SqliteStore) DeleteTask(ctx context.Context, userID, id int) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SqliteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

package config

import (
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	model "taskgroups.com/taskgroups/internal/models"
)

// NewSqliteDB opens the database file and migrates the schema. Errors are
// returned rather than fatal so the caller can fall back to the JSON store.
func NewSqliteDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&model.User{}, &model.Group{}, &model.Task{}); err != nil {
		return nil, err
	}

	return db, nil
}

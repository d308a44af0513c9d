package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Gorm is the SQLite-backed Store.
type Gorm struct {
	db *gorm.DB
}

// OpenSQLite creates a SQLite database connection with basic tuning and
// runs schema migrations.
func OpenSQLite(path string, logMode bool) (*Gorm, error) {
	// ensure parent directory exists
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	gormLogger := logger.Default
	if !logMode {
		gormLogger = gormLogger.LogMode(logger.Silent)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	// connection pool
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// SQLite performance and reliability tuning
	_, _ = sqlDB.Exec("PRAGMA journal_mode = WAL;")
	_, _ = sqlDB.Exec("PRAGMA synchronous = NORMAL;")
	_, _ = sqlDB.Exec("PRAGMA foreign_keys = ON;")

	if err := db.AutoMigrate(&models.User{}, &models.Post{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &Gorm{db: db}, nil
}

func (g *Gorm) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := g.db.WithContext(ctx).
		Where("email = ? AND deleted_at IS NULL", email).
		First(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (g *Gorm) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := g.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (g *Gorm) FindAllUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := g.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Order("created_at ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (g *Gorm) CreateUser(ctx context.Context, u *models.User) error {
	var count int64
	err := g.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ? AND deleted_at IS NULL", u.Email).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateEmail
	}
	return g.db.WithContext(ctx).Create(u).Error
}

func (g *Gorm) UpdateUser(ctx context.Context, id string, patch UserPatch) (*models.User, error) {
	updates := map[string]any{}
	if patch.DisplayName != nil {
		updates["display_name"] = *patch.DisplayName
	}
	if patch.PasswordHash != nil {
		updates["password_hash"] = *patch.PasswordHash
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.FailedLoginCount != nil {
		updates["failed_login_count"] = *patch.FailedLoginCount
	}
	if patch.SetLockedUntil {
		updates["locked_until"] = patch.LockedUntil
	}
	if patch.SetDeletedAt {
		updates["deleted_at"] = patch.DeletedAt
	}

	if len(updates) > 0 {
		res := g.db.WithContext(ctx).Model(&models.User{}).
			Where("id = ? AND deleted_at IS NULL", id).
			Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}

	return g.FindUserByID(ctx, id)
}

func (g *Gorm) FindPosts(ctx context.Context, f PostFilter) ([]models.Post, error) {
	q := g.db.WithContext(ctx).Model(&models.Post{}).
		Where("deleted_at IS NULL")
	if f.AuthorID != "" {
		q = q.Where("author_id = ?", f.AuthorID)
	}
	if f.Order == "ASC" {
		q = q.Order("created_at ASC")
	} else {
		q = q.Order("created_at DESC")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var posts []models.Post
	if err := q.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (g *Gorm) FindPostByID(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	err := g.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&p).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (g *Gorm) CreatePost(ctx context.Context, p *models.Post) error {
	return g.db.WithContext(ctx).Create(p).Error
}

func (g *Gorm) SoftDeletePost(ctx context.Context, id string, when time.Time) error {
	res := g.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", when)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *Gorm) InTransaction(ctx context.Context, fn func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Gorm{db: tx})
	})
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

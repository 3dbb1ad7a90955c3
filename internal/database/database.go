package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/yatube/yatube/internal/paginator"
	"gorm.io/gorm"
)

// DB is the storage interface used by the web layer.
type DB interface {
	// Users
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id uint) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetOrCreateOIDCUser(ctx context.Context, subject, username, email string) (*User, error)
	CountUsers(ctx context.Context) (int64, error)

	// Groups
	CreateGroup(ctx context.Context, group *Group) error
	GetGroupByID(ctx context.Context, id uint) (*Group, error)
	GetGroupBySlug(ctx context.Context, slug string) (*Group, error)
	GetGroups(ctx context.Context) ([]Group, error)
	CountGroups(ctx context.Context) (int64, error)

	// Posts
	CreatePost(ctx context.Context, post *Post) error
	GetPostByID(ctx context.Context, id uint) (*Post, error)
	UpdatePost(ctx context.Context, post *Post) error
	CountPosts(ctx context.Context) (int64, error)
	CountPostsByAuthor(ctx context.Context, authorID uint) (int64, error)
	GetPostPage(ctx context.Context, filter PostFilter, rawPage string, perPage int) (*paginator.Page[Post], error)

	Close() error
}

var _ DB = (*Client)(nil) // Ensure Client implements DB

// Client wraps the gorm.DB instance.
type Client struct {
	db *gorm.DB
}

// New creates a new database connection and performs migrations.
func New(dbpath string) (*Client, error) {
	db, err := gorm.Open(sqlite.Open(dsn(dbpath)), &gorm.Config{
		Logger:         newLogger(),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := db.AutoMigrate(
		&User{},
		&Group{},
		&Post{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Client{db: db}, nil
}

func dsn(dbpath string) string {
	sep := "?"
	if strings.Contains(dbpath, "?") {
		sep = "&"
	}
	return dbpath + sep + "_pragma=foreign_keys(1)"
}

// Close closes the underlying connection pool.
func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

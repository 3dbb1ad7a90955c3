package database

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/yatube/yatube/internal/paginator"
	"gorm.io/gorm"
)

// Post is a single text entry written by an author, optionally published in a group.
type Post struct {
	ID       uint      `gorm:"primaryKey"`
	Text     string    `gorm:"type:text;not null"`
	PubDate  time.Time `gorm:"autoCreateTime;index;not null"`
	AuthorID uint      `gorm:"not null;index"`
	Author   User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	GroupID  *uint     `gorm:"index"`
	Group    *Group    `gorm:"constraint:OnDelete:SET NULL;"`
	// Image is the path of the attached image relative to the media root.
	Image string
}

// PostFilter narrows a post listing. Nil fields don't filter.
type PostFilter struct {
	GroupID  *uint
	AuthorID *uint
}

func (f PostFilter) apply(db *gorm.DB) *gorm.DB {
	if f.GroupID != nil {
		db = db.Where("group_id = ?", *f.GroupID)
	}
	if f.AuthorID != nil {
		db = db.Where("author_id = ?", *f.AuthorID)
	}
	return db
}

func (c *Client) CreatePost(ctx context.Context, post *Post) error {
	if err := c.db.WithContext(ctx).Omit("Author", "Group").Create(post).Error; err != nil {
		log.Error("failed to create post", "error", err)
		return err
	}
	return nil
}

// GetPostByID returns the post with its author and group loaded.
func (c *Client) GetPostByID(ctx context.Context, id uint) (*Post, error) {
	var post Post
	if err := c.db.WithContext(ctx).Preload("Author").Preload("Group").First(&post, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("failed to get post by ID", "error", err)
		}
		return nil, err
	}
	return &post, nil
}

// UpdatePost stores the editable fields of a post. The author and
// publication date are never changed.
func (c *Client) UpdatePost(ctx context.Context, post *Post) error {
	result := c.db.WithContext(ctx).
		Model(&Post{ID: post.ID}).
		Select("Text", "GroupID", "Image").
		Updates(post)
	if result.Error != nil {
		log.Error("failed to update post", "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (c *Client) CountPosts(ctx context.Context) (int64, error) {
	var count int64
	if err := c.db.WithContext(ctx).Model(&Post{}).Count(&count).Error; err != nil {
		log.Error("failed to count posts", "error", err)
		return 0, err
	}
	return count, nil
}

func (c *Client) CountPostsByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	if err := c.db.WithContext(ctx).Model(&Post{}).Where("author_id = ?", authorID).Count(&count).Error; err != nil {
		log.Error("failed to count posts by author", "error", err)
		return 0, err
	}
	return count, nil
}

// GetPostPage returns one page of posts matching the filter, newest first.
// rawPage is the unparsed page parameter; see paginator.Paginator.Number.
func (c *Client) GetPostPage(ctx context.Context, filter PostFilter, rawPage string, perPage int) (*paginator.Page[Post], error) {
	var count int64
	if err := filter.apply(c.db.WithContext(ctx).Model(&Post{})).Count(&count).Error; err != nil {
		log.Error("failed to count posts", "error", err)
		return nil, err
	}

	p := paginator.New(count, perPage)
	number := p.Number(rawPage)
	offset, limit := p.Window(number)

	var posts []Post
	if err := filter.apply(c.db.WithContext(ctx)).
		Preload("Author").
		Preload("Group").
		Order("pub_date DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error; err != nil {
		log.Error("failed to get posts", "error", err)
		return nil, err
	}

	return paginator.NewPage(p, number, posts), nil
}

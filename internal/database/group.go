package database

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// Group is a community posts can be published in.
type Group struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:200;not null"`
	Slug        string `gorm:"uniqueIndex;not null"`
	Description string `gorm:"type:text"`
}

func (c *Client) CreateGroup(ctx context.Context, group *Group) error {
	if err := c.db.WithContext(ctx).Create(group).Error; err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Error("failed to create group", "error", err)
		}
		return err
	}
	return nil
}

func (c *Client) GetGroupByID(ctx context.Context, id uint) (*Group, error) {
	var group Group
	if err := c.db.WithContext(ctx).First(&group, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("failed to get group by ID", "error", err)
		}
		return nil, err
	}
	return &group, nil
}

func (c *Client) GetGroupBySlug(ctx context.Context, slug string) (*Group, error) {
	var group Group
	if err := c.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("failed to get group by slug", "error", err)
		}
		return nil, err
	}
	return &group, nil
}

// GetGroups returns all groups ordered by title.
func (c *Client) GetGroups(ctx context.Context) ([]Group, error) {
	var groups []Group
	if err := c.db.WithContext(ctx).Order("title").Order("id").Find(&groups).Error; err != nil {
		log.Error("failed to get groups", "error", err)
		return nil, err
	}
	return groups, nil
}

func (c *Client) CountGroups(ctx context.Context) (int64, error) {
	var count int64
	if err := c.db.WithContext(ctx).Model(&Group{}).Count(&count).Error; err != nil {
		log.Error("failed to count groups", "error", err)
		return 0, err
	}
	return count, nil
}

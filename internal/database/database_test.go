package database

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type DatabaseTestSuite struct {
	suite.Suite
	ctx    context.Context
	client *Client
	author *User
	group  *Group
}

func (s *DatabaseTestSuite) SetupTest() {
	s.ctx = context.Background()

	client, err := New(filepath.Join(s.T().TempDir(), "yatube.db"))
	require.NoError(s.T(), err)
	s.client = client

	s.author = &User{Username: "author", Email: "author@example.com"}
	require.NoError(s.T(), s.client.CreateUser(s.ctx, s.author))

	s.group = &Group{Title: "Test group", Slug: "test-slug", Description: "Test description"}
	require.NoError(s.T(), s.client.CreateGroup(s.ctx, s.group))
}

func (s *DatabaseTestSuite) TearDownTest() {
	s.NoError(s.client.Close())
}

func (s *DatabaseTestSuite) createPosts(n int, authorID uint, groupID *uint) {
	for i := range n {
		post := &Post{Text: fmt.Sprintf("text%d", i), AuthorID: authorID, GroupID: groupID}
		s.Require().NoError(s.client.CreatePost(s.ctx, post))
	}
}

func (s *DatabaseTestSuite) TestUsers() {
	user, err := s.client.GetUserByUsername(s.ctx, "author")
	s.Require().NoError(err)
	s.Equal(s.author.ID, user.ID)
	s.Equal("author", user.FullName())

	_, err = s.client.GetUserByUsername(s.ctx, "missing")
	s.ErrorIs(err, gorm.ErrRecordNotFound)

	err = s.client.CreateUser(s.ctx, &User{Username: "author"})
	s.ErrorIs(err, gorm.ErrDuplicatedKey)

	created, err := s.client.GetOrCreateOIDCUser(s.ctx, "sub-1", "oidc-user", "oidc@example.com")
	s.Require().NoError(err)
	s.Empty(created.PasswordHash)
	again, err := s.client.GetOrCreateOIDCUser(s.ctx, "sub-1", "renamed", "other@example.com")
	s.Require().NoError(err)
	s.Equal(created.ID, again.ID)
	s.Equal("oidc-user", again.Username)
	s.Equal("oidc@example.com", again.Email)

	count, err := s.client.CountUsers(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), count)
}

func (s *DatabaseTestSuite) TestOIDCUserNeverTakesExistingUsername() {
	_, err := s.client.GetOrCreateOIDCUser(s.ctx, "sub-evil", "author", "evil@example.com")
	s.ErrorIs(err, ErrUsernameInUse)

	first, err := s.client.GetOrCreateOIDCUser(s.ctx, "sub-1", "reader", "")
	s.Require().NoError(err)
	_, err = s.client.GetOrCreateOIDCUser(s.ctx, "sub-2", "reader", "")
	s.ErrorIs(err, ErrUsernameInUse)

	user, err := s.client.GetUserByUsername(s.ctx, "author")
	s.Require().NoError(err)
	s.Equal(s.author.ID, user.ID)
	s.Nil(user.OIDCSubject)
	s.NotEqual(first.ID, user.ID)
}

func (s *DatabaseTestSuite) TestGroups() {
	group, err := s.client.GetGroupBySlug(s.ctx, "test-slug")
	s.Require().NoError(err)
	s.Equal(s.group.ID, group.ID)

	byID, err := s.client.GetGroupByID(s.ctx, s.group.ID)
	s.Require().NoError(err)
	s.Equal("test-slug", byID.Slug)

	s.Require().NoError(s.client.CreateGroup(s.ctx, &Group{Title: "Another", Slug: "another"}))
	err = s.client.CreateGroup(s.ctx, &Group{Title: "Dup", Slug: "another"})
	s.ErrorIs(err, gorm.ErrDuplicatedKey)

	groups, err := s.client.GetGroups(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"Another", "Test group"}, lo.Map(groups, func(g Group, _ int) string { return g.Title }))
}

func (s *DatabaseTestSuite) TestCreateAndUpdatePost() {
	post := &Post{Text: "Test post", AuthorID: s.author.ID, GroupID: &s.group.ID}
	s.Require().NoError(s.client.CreatePost(s.ctx, post))
	s.NotZero(post.ID)
	s.False(post.PubDate.IsZero())

	stored, err := s.client.GetPostByID(s.ctx, post.ID)
	s.Require().NoError(err)
	s.Equal("author", stored.Author.Username)
	s.Require().NotNil(stored.Group)
	s.Equal("test-slug", stored.Group.Slug)

	stored.Text = "Edited"
	stored.GroupID = nil
	s.Require().NoError(s.client.UpdatePost(s.ctx, stored))

	edited, err := s.client.GetPostByID(s.ctx, post.ID)
	s.Require().NoError(err)
	s.Equal("Edited", edited.Text)
	s.Nil(edited.Group)
	s.Equal(s.author.ID, edited.AuthorID)
	s.True(post.PubDate.Equal(edited.PubDate))

	count, err := s.client.CountPosts(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), count)

	err = s.client.UpdatePost(s.ctx, &Post{ID: 999, Text: "missing"})
	s.ErrorIs(err, gorm.ErrRecordNotFound)

	_, err = s.client.GetPostByID(s.ctx, 999)
	s.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (s *DatabaseTestSuite) TestGetPostPage() {
	s.createPosts(13, s.author.ID, &s.group.ID)

	other := &User{Username: "other"}
	s.Require().NoError(s.client.CreateUser(s.ctx, other))
	s.createPosts(2, other.ID, nil)

	tests := []struct {
		name      string
		filter    PostFilter
		page      string
		wantLen   int
		wantPage  int
		wantCount int64
	}{
		{name: "all first page", filter: PostFilter{}, page: "", wantLen: 10, wantPage: 1, wantCount: 15},
		{name: "all second page", filter: PostFilter{}, page: "2", wantLen: 5, wantPage: 2, wantCount: 15},
		{name: "group first page", filter: PostFilter{GroupID: &s.group.ID}, page: "1", wantLen: 10, wantPage: 1, wantCount: 13},
		{name: "group second page", filter: PostFilter{GroupID: &s.group.ID}, page: "2", wantLen: 3, wantPage: 2, wantCount: 13},
		{name: "author out of range", filter: PostFilter{AuthorID: &s.author.ID}, page: "9", wantLen: 3, wantPage: 2, wantCount: 13},
		{name: "other author", filter: PostFilter{AuthorID: &other.ID}, page: "x", wantLen: 2, wantPage: 1, wantCount: 2},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			page, err := s.client.GetPostPage(s.ctx, tt.filter, tt.page, 10)
			s.Require().NoError(err)
			s.Equal(tt.wantLen, page.Len())
			s.Equal(tt.wantPage, page.Number)
			s.Equal(tt.wantCount, page.Count)
		})
	}

	first, err := s.client.GetPostPage(s.ctx, PostFilter{AuthorID: &s.author.ID}, "1", 10)
	s.Require().NoError(err)
	s.Equal("text12", first.Items[0].Text)
	s.Equal("author", first.Items[0].Author.Username)
	s.Require().NotNil(first.Items[0].Group)

	authorCount, err := s.client.CountPostsByAuthor(s.ctx, s.author.ID)
	s.Require().NoError(err)
	s.Equal(int64(13), authorCount)
}

func TestDatabaseTestSuite(t *testing.T) {
	suite.Run(t, new(DatabaseTestSuite))
}

func TestDSN(t *testing.T) {
	require.Equal(t, "a.db?_pragma=foreign_keys(1)", dsn("a.db"))
	require.Equal(t, "a.db?mode=ro&_pragma=foreign_keys(1)", dsn("a.db?mode=ro"))
}

package mock

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/yatube/yatube/internal/database"
	"github.com/yatube/yatube/internal/paginator"
	"gorm.io/gorm"
)

// MockDB is an in-memory implementation of database.DB for testing.
type MockDB struct {
	mu sync.RWMutex

	users      map[uint]*database.User
	nextUserID uint

	groups      map[uint]*database.Group
	nextGroupID uint

	posts      map[uint]*database.Post
	nextPostID uint

	// Error simulation
	CreateUserError  error
	GetUserError     error
	CreateGroupError error
	GetGroupError    error
	GetGroupsError   error
	CreatePostError  error
	GetPostError     error
	UpdatePostError  error
	CountError       error
	GetPostPageError error
}

var _ database.DB = (*MockDB)(nil)

// NewMockDB creates a new MockDB instance.
func NewMockDB() *MockDB {
	m := &MockDB{}
	m.Reset()
	return m
}

// Reset clears all data and errors from the mock database.
func (m *MockDB) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users = make(map[uint]*database.User)
	m.nextUserID = 1
	m.groups = make(map[uint]*database.Group)
	m.nextGroupID = 1
	m.posts = make(map[uint]*database.Post)
	m.nextPostID = 1

	m.CreateUserError = nil
	m.GetUserError = nil
	m.CreateGroupError = nil
	m.GetGroupError = nil
	m.GetGroupsError = nil
	m.CreatePostError = nil
	m.GetPostError = nil
	m.UpdatePostError = nil
	m.CountError = nil
	m.GetPostPageError = nil
}

func (m *MockDB) CreateUser(ctx context.Context, user *database.User) error {
	if m.CreateUserError != nil {
		return m.CreateUserError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = m.nextUserID
	user.CreatedAt = time.Now()
	m.nextUserID++
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *MockDB) GetUserByID(ctx context.Context, id uint) (*database.User, error) {
	if m.GetUserError != nil {
		return nil, m.GetUserError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	u := *user
	return &u, nil
}

func (m *MockDB) GetUserByUsername(ctx context.Context, username string) (*database.User, error) {
	if m.GetUserError != nil {
		return nil, m.GetUserError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.Username == username {
			u := *user
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockDB) GetOrCreateOIDCUser(ctx context.Context, subject, username, email string) (*database.User, error) {
	if m.GetUserError != nil {
		return nil, m.GetUserError
	}

	m.mu.RLock()
	for _, user := range m.users {
		if user.OIDCSubject != nil && *user.OIDCSubject == subject {
			u := *user
			m.mu.RUnlock()
			return &u, nil
		}
	}
	m.mu.RUnlock()

	user := &database.User{Username: username, Email: email, OIDCSubject: &subject}
	if err := m.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, database.ErrUsernameInUse
		}
		return nil, err
	}
	return user, nil
}

func (m *MockDB) CountUsers(ctx context.Context) (int64, error) {
	if m.CountError != nil {
		return 0, m.CountError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.users)), nil
}

func (m *MockDB) CreateGroup(ctx context.Context, group *database.Group) error {
	if m.CreateGroupError != nil {
		return m.CreateGroupError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, g := range m.groups {
		if g.Slug == group.Slug {
			return gorm.ErrDuplicatedKey
		}
	}
	group.ID = m.nextGroupID
	m.nextGroupID++
	stored := *group
	m.groups[group.ID] = &stored
	return nil
}

func (m *MockDB) GetGroupByID(ctx context.Context, id uint) (*database.Group, error) {
	if m.GetGroupError != nil {
		return nil, m.GetGroupError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	group, ok := m.groups[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	g := *group
	return &g, nil
}

func (m *MockDB) GetGroupBySlug(ctx context.Context, slug string) (*database.Group, error) {
	if m.GetGroupError != nil {
		return nil, m.GetGroupError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, group := range m.groups {
		if group.Slug == slug {
			g := *group
			return &g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockDB) GetGroups(ctx context.Context) ([]database.Group, error) {
	if m.GetGroupsError != nil {
		return nil, m.GetGroupsError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	groups := make([]database.Group, 0, len(m.groups))
	for _, group := range m.groups {
		groups = append(groups, *group)
	}
	slices.SortFunc(groups, func(a, b database.Group) int {
		return cmp.Or(cmp.Compare(a.Title, b.Title), cmp.Compare(a.ID, b.ID))
	})
	return groups, nil
}

func (m *MockDB) CountGroups(ctx context.Context) (int64, error) {
	if m.CountError != nil {
		return 0, m.CountError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.groups)), nil
}

func (m *MockDB) CreatePost(ctx context.Context, post *database.Post) error {
	if m.CreatePostError != nil {
		return m.CreatePostError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[post.AuthorID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	post.ID = m.nextPostID
	m.nextPostID++
	if post.PubDate.IsZero() {
		post.PubDate = time.Now()
	}
	stored := *post
	m.posts[post.ID] = &stored
	return nil
}

func (m *MockDB) GetPostByID(ctx context.Context, id uint) (*database.Post, error) {
	if m.GetPostError != nil {
		return nil, m.GetPostError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	post, ok := m.posts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	p := m.withRelations(*post)
	return &p, nil
}

func (m *MockDB) UpdatePost(ctx context.Context, post *database.Post) error {
	if m.UpdatePostError != nil {
		return m.UpdatePostError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.posts[post.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Text = post.Text
	stored.GroupID = post.GroupID
	stored.Image = post.Image
	return nil
}

func (m *MockDB) CountPosts(ctx context.Context) (int64, error) {
	if m.CountError != nil {
		return 0, m.CountError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.posts)), nil
}

func (m *MockDB) CountPostsByAuthor(ctx context.Context, authorID uint) (int64, error) {
	if m.CountError != nil {
		return 0, m.CountError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, post := range m.posts {
		if post.AuthorID == authorID {
			count++
		}
	}
	return count, nil
}

func (m *MockDB) GetPostPage(ctx context.Context, filter database.PostFilter, rawPage string, perPage int) (*paginator.Page[database.Post], error) {
	if m.GetPostPageError != nil {
		return nil, m.GetPostPageError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var posts []database.Post
	for _, post := range m.posts {
		if filter.GroupID != nil && (post.GroupID == nil || *post.GroupID != *filter.GroupID) {
			continue
		}
		if filter.AuthorID != nil && post.AuthorID != *filter.AuthorID {
			continue
		}
		posts = append(posts, m.withRelations(*post))
	}
	slices.SortFunc(posts, func(a, b database.Post) int {
		return cmp.Or(b.PubDate.Compare(a.PubDate), cmp.Compare(b.ID, a.ID))
	})

	p := paginator.New(int64(len(posts)), perPage)
	number := p.Number(rawPage)
	offset, limit := p.Window(number)
	end := min(offset+limit, len(posts))
	if offset > len(posts) {
		offset = len(posts)
	}
	return paginator.NewPage(p, number, posts[offset:end]), nil
}

func (m *MockDB) Close() error {
	return nil
}

// withRelations fills Author and Group. Callers must hold the lock.
func (m *MockDB) withRelations(post database.Post) database.Post {
	if author, ok := m.users[post.AuthorID]; ok {
		post.Author = *author
	}
	post.Group = nil
	if post.GroupID != nil {
		if group, ok := m.groups[*post.GroupID]; ok {
			g := *group
			post.Group = &g
		}
	}
	return post
}

package handler

import (
	"github.com/yatube/yatube/internal/api/models"
	"github.com/yatube/yatube/internal/database"
	"github.com/yatube/yatube/internal/forms"
	"github.com/yatube/yatube/internal/paginator"
)

// PageData is shared by every page. User is nil for guests.
type PageData struct {
	User *models.User
}

// PostListData is rendered by the index page.
type PostListData struct {
	PageData
	Page *paginator.Page[database.Post]
}

// GroupData is rendered by the group page.
type GroupData struct {
	PageData
	Group *database.Group
	Page  *paginator.Page[database.Post]
}

// ProfileData is rendered by the profile page.
type ProfileData struct {
	PageData
	Author *database.User
	Page   *paginator.Page[database.Post]
}

// PostDetailData is rendered by the post page.
type PostDetailData struct {
	PageData
	Post             *database.Post
	AuthorPostsCount int64
	IsAuthor         bool
}

// PostFormData is rendered by the create and edit pages. Post is nil when creating.
type PostFormData struct {
	PageData
	Form   *forms.PostForm
	IsEdit bool
	Post   *database.Post
}

type SignupData struct {
	PageData
	Form *forms.SignupForm
}

type LoginData struct {
	PageData
	Form     *forms.LoginForm
	Next     string
	OIDCName string
}

type ErrorData struct {
	PageData
	Path string
}

// LoggedOutData is rendered after logging out, so it never carries a user.
type LoggedOutData struct {
	PageData
}

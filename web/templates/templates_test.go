package templates_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yatube/yatube/internal/api/handler"
	"github.com/yatube/yatube/internal/api/models"
	"github.com/yatube/yatube/internal/config"
	"github.com/yatube/yatube/internal/database"
	"github.com/yatube/yatube/internal/forms"
	"github.com/yatube/yatube/internal/gravatar"
	"github.com/yatube/yatube/internal/paginator"
	"github.com/yatube/yatube/web/templates"
	"gorm.io/gorm"
)

func fixtures() (*database.User, *database.Group, []database.Post) {
	author := &database.User{Model: gorm.Model{ID: 1}, Username: "leo", FirstName: "Leo", LastName: "Tolstoy", Email: "leo@example.com"}
	group := &database.Group{ID: 1, Title: "Novels", Slug: "novels", Description: "Long stories\nabout <people>"}

	posts := make([]database.Post, 0, 13)
	for i := range 13 {
		post := database.Post{
			ID:       uint(13 - i),
			Text:     "Post <b>number</b>\nsecond line",
			PubDate:  time.Now().Add(-time.Duration(i) * time.Hour),
			AuthorID: author.ID,
			Author:   *author,
		}
		if i%2 == 0 {
			post.GroupID = &group.ID
			post.Group = group
		}
		if i == 0 {
			post.Image = "posts/image.png"
		}
		posts = append(posts, post)
	}
	return author, group, posts
}

func render(t *testing.T, tmpl *templates.Templates, name string, data any) string {
	t.Helper()
	component, err := tmpl.Component(name, data)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, component.Render(context.Background(), &buf))
	return buf.String()
}

func TestLoad(t *testing.T) {
	tmpl, err := templates.Load(templates.Funcs(nil))
	require.NoError(t, err)

	assert.Equal(t, []string{
		templates.NotFound,
		templates.ServerErr,
		templates.CreatePost,
		templates.GroupList,
		templates.Index,
		templates.PostDetail,
		templates.Profile,
		templates.LoggedOut,
		templates.Login,
		templates.Signup,
	}, tmpl.Names())

	_, err = tmpl.Component("posts/missing.html", nil)
	assert.Error(t, err)
}

func TestRenderPages(t *testing.T) {
	avatars := gravatar.New(&config.GravatarConfig{Enabled: true, DefaultImage: "identicon", Size: 80})
	tmpl, err := templates.Load(templates.Funcs(avatars))
	require.NoError(t, err)

	author, group, posts := fixtures()
	viewer := models.ToUser(author, avatars)
	page := paginator.NewPage(paginator.New(int64(len(posts)), 10), 1, posts[:10])
	lastPage := paginator.NewPage(paginator.New(int64(len(posts)), 10), 2, posts[10:])
	groups := []database.Group{*group}

	signup := forms.NewSignupForm()
	signup.AddError("username", "A user with that username already exists.")
	login := forms.NewLoginForm()
	login.AddError("__all__", "Please enter a correct username and password.")
	postForm := forms.NewPostForm(groups)
	postForm.AddError("text", "This field is required.")

	tests := []struct {
		name     string
		template string
		data     any
		contains []string
		excludes []string
	}{
		{
			name:     "index as guest",
			template: templates.Index,
			data:     handler.PostListData{Page: page},
			contains: []string{
				"Latest updates on the site",
				"Post &lt;b&gt;number&lt;/b&gt;<br>second line",
				`href="/group/novels/"`,
				`href="/profile/leo/"`,
				"Leo Tolstoy",
				`src="/media/posts/image.png"`,
				`href="?page=2"`,
				"Log in",
			},
			excludes: []string{"<b>number</b>", "New post"},
		},
		{
			name:     "index last page",
			template: templates.Index,
			data:     handler.PostListData{PageData: handler.PageData{User: viewer}, Page: lastPage},
			contains: []string{`href="?page=1"`, "New post", "/auth/logout/"},
		},
		{
			name:     "empty index",
			template: templates.Index,
			data:     handler.PostListData{Page: paginator.NewPage[database.Post](paginator.New(0, 10), 1, nil)},
			contains: []string{"No posts yet."},
			excludes: []string{"?page="},
		},
		{
			name:     "group",
			template: templates.GroupList,
			data:     handler.GroupData{Group: group, Page: page},
			contains: []string{"<h1>Novels</h1>", "Long stories<br>about &lt;people&gt;"},
		},
		{
			name:     "profile",
			template: templates.Profile,
			data:     handler.ProfileData{Author: author, Page: page},
			contains: []string{"All posts of Leo Tolstoy", "Total posts: 13", "https://www.gravatar.com/avatar/"},
		},
		{
			name:     "post detail as author",
			template: templates.PostDetail,
			data: handler.PostDetailData{
				PageData:         handler.PageData{User: viewer},
				Post:             lo.ToPtr(posts[0]),
				AuthorPostsCount: 1234,
				IsAuthor:         true,
			},
			contains: []string{"1,234", "/posts/13/edit/", "all posts of the group Novels"},
		},
		{
			name:     "post detail as guest",
			template: templates.PostDetail,
			data:     handler.PostDetailData{Post: lo.ToPtr(posts[1]), AuthorPostsCount: 13},
			excludes: []string{"/edit/", "all posts of the group"},
		},
		{
			name:     "create post",
			template: templates.CreatePost,
			data:     handler.PostFormData{PageData: handler.PageData{User: viewer}, Form: postForm},
			contains: []string{
				"New post",
				`action="/create/"`,
				`enctype="multipart/form-data"`,
				`<textarea id="id_text" name="text"`,
				`<select id="id_group" name="group">`,
				`<option value="1">Novels</option>`,
				`type="file" id="id_image"`,
				"This field is required.",
			},
		},
		{
			name:     "edit post",
			template: templates.CreatePost,
			data: handler.PostFormData{
				PageData: handler.PageData{User: viewer},
				Form:     forms.NewPostFormFor(groups, lo.ToPtr(posts[0])),
				IsEdit:   true,
				Post:     lo.ToPtr(posts[0]),
			},
			contains: []string{
				"Edit post",
				`action="/posts/13/edit/"`,
				`<option value="1" selected>Novels</option>`,
				"Current image",
			},
		},
		{
			name:     "signup",
			template: templates.Signup,
			data:     handler.SignupData{Form: signup},
			contains: []string{`type="password" id="id_password1"`, `type="email" id="id_email"`, "already exists"},
		},
		{
			name:     "login",
			template: templates.Login,
			data:     handler.LoginData{Form: login, Next: "/create/", OIDCName: "Keycloak"},
			contains: []string{`name="next" value="/create/"`, "Please enter a correct username and password.", "Log in with Keycloak"},
		},
		{
			name:     "logged out",
			template: templates.LoggedOut,
			data:     handler.LoggedOutData{},
			contains: []string{"You have been logged out"},
		},
		{
			name:     "not found",
			template: templates.NotFound,
			data:     handler.ErrorData{Path: "/unexisting_page/"},
			contains: []string{"Page not found", "/unexisting_page/"},
		},
		{
			name:     "server error",
			template: templates.ServerErr,
			data:     handler.ErrorData{},
			contains: []string{"Server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := render(t, tmpl, tt.template, tt.data)
			assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "short", templates.Truncate(30, "short"))
	assert.Equal(t, "Привет…", templates.Truncate(6, "Привет, мир"))
	assert.Equal(t, "a<br>b&lt;c&gt;", string(templates.LineBreaks("a\r\nb<c>")))
	assert.Equal(t, "2 January 2006", templates.FormatDate(time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC)))
	assert.NotEmpty(t, templates.FormatRelativeTime(time.Now().Add(-time.Hour)))
}

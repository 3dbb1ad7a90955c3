package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/yatube/yatube/internal/api/auth"
	"github.com/yatube/yatube/internal/database"
	"github.com/yatube/yatube/internal/forms"
	"github.com/yatube/yatube/internal/media"
	"github.com/yatube/yatube/web/templates"
)

// Index lists all posts, newest first.
func (h *Handler) Index(c *gin.Context) {
	page, err := h.db.GetPostPage(c.Request.Context(), database.PostFilter{}, c.Query("page"), h.perPage)
	if err != nil {
		h.ServerError(c, err)
		return
	}

	h.render(c, http.StatusOK, templates.Index, PostListData{
		PageData: h.pageData(c),
		Page:     page,
	})
}

// GroupPosts lists the posts of a single group.
func (h *Handler) GroupPosts(c *gin.Context) {
	ctx := c.Request.Context()

	group, err := h.db.GetGroupBySlug(ctx, c.Param("slug"))
	if err != nil {
		h.fail(c, err)
		return
	}

	page, err := h.db.GetPostPage(ctx, database.PostFilter{GroupID: &group.ID}, c.Query("page"), h.perPage)
	if err != nil {
		h.ServerError(c, err)
		return
	}

	h.render(c, http.StatusOK, templates.GroupList, GroupData{
		PageData: h.pageData(c),
		Group:    group,
		Page:     page,
	})
}

// Profile lists the posts of a single author.
func (h *Handler) Profile(c *gin.Context) {
	ctx := c.Request.Context()

	author, err := h.db.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		h.fail(c, err)
		return
	}

	page, err := h.db.GetPostPage(ctx, database.PostFilter{AuthorID: &author.ID}, c.Query("page"), h.perPage)
	if err != nil {
		h.ServerError(c, err)
		return
	}

	h.render(c, http.StatusOK, templates.Profile, ProfileData{
		PageData: h.pageData(c),
		Author:   author,
		Page:     page,
	})
}

// PostDetail shows a single post.
func (h *Handler) PostDetail(c *gin.Context) {
	post, ok := h.loadPost(c)
	if !ok {
		return
	}

	count, err := h.db.CountPostsByAuthor(c.Request.Context(), post.AuthorID)
	if err != nil {
		h.ServerError(c, err)
		return
	}

	data := PostDetailData{
		PageData:         h.pageData(c),
		Post:             post,
		AuthorPostsCount: count,
	}
	data.IsAuthor = data.User != nil && data.User.ID == post.AuthorID

	h.render(c, http.StatusOK, templates.PostDetail, data)
}

// PostCreate shows and handles the new post form.
func (h *Handler) PostCreate(c *gin.Context) {
	user := auth.CurrentUser(c)

	groups, err := h.db.GetGroups(c.Request.Context())
	if err != nil {
		h.ServerError(c, err)
		return
	}
	form := forms.NewPostForm(groups)

	if c.Request.Method != http.MethodPost {
		h.renderPostForm(c, form, nil)
		return
	}

	if !form.Bind(c) {
		h.renderPostForm(c, form, nil)
		return
	}

	post := &database.Post{AuthorID: user.ID}
	form.Apply(post)

	image, ok := h.saveImage(c, form, nil)
	if !ok {
		return
	}
	post.Image = image

	if err := h.db.CreatePost(c.Request.Context(), post); err != nil {
		h.removeImage(image)
		h.ServerError(c, err)
		return
	}

	log.Info("Post created", "post_id", post.ID, "author", user.Username)
	c.Redirect(http.StatusFound, profileURL(user.Username))
}

// PostEdit shows and handles the edit form. Only the author may edit a post,
// everyone else is sent back to the post.
func (h *Handler) PostEdit(c *gin.Context) {
	user := auth.CurrentUser(c)

	post, ok := h.loadPost(c)
	if !ok {
		return
	}
	if post.AuthorID != user.ID {
		c.Redirect(http.StatusFound, postURL(post.ID))
		return
	}

	groups, err := h.db.GetGroups(c.Request.Context())
	if err != nil {
		h.ServerError(c, err)
		return
	}
	form := forms.NewPostFormFor(groups, post)

	if c.Request.Method != http.MethodPost {
		h.renderPostForm(c, form, post)
		return
	}

	if !form.Bind(c) {
		h.renderPostForm(c, form, post)
		return
	}

	previousImage := post.Image
	form.Apply(post)

	image, ok := h.saveImage(c, form, post)
	if !ok {
		return
	}
	if image != "" {
		post.Image = image
	}

	if err := h.db.UpdatePost(c.Request.Context(), post); err != nil {
		h.removeImage(image)
		h.fail(c, err)
		return
	}
	if image != "" {
		h.removeImage(previousImage)
	}

	log.Info("Post updated", "post_id", post.ID, "author", user.Username)
	c.Redirect(http.StatusFound, postURL(post.ID))
}

func (h *Handler) renderPostForm(c *gin.Context, form *forms.PostForm, post *database.Post) {
	h.render(c, http.StatusOK, templates.CreatePost, PostFormData{
		PageData: h.pageData(c),
		Form:     form,
		IsEdit:   post != nil,
		Post:     post,
	})
}

// loadPost fetches the post named by the id parameter, rendering 404 if there is none.
func (h *Handler) loadPost(c *gin.Context) (*database.Post, bool) {
	id, err := parseUintParam(c.Param("id"))
	if err != nil {
		h.NotFound(c)
		return nil, false
	}

	post, err := h.db.GetPostByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return post, true
}

// saveImage stores the uploaded image, if any. An upload that isn't an
// image re-renders the form with an error and reports false. post is nil when creating.
func (h *Handler) saveImage(c *gin.Context, form *forms.PostForm, post *database.Post) (string, bool) {
	if form.Image == nil {
		return "", true
	}

	file, err := form.Image.Open()
	if err != nil {
		h.ServerError(c, fmt.Errorf("failed to open upload: %w", err))
		return "", false
	}
	defer file.Close() //nolint:errcheck

	rel, err := h.images.SavePostImage(file)
	if err != nil {
		if errors.Is(err, media.ErrNotAnImage) {
			form.AddError("image", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
			h.renderPostForm(c, form, post)
			return "", false
		}
		h.ServerError(c, err)
		return "", false
	}
	return rel, true
}

func (h *Handler) removeImage(rel string) {
	if rel == "" {
		return
	}
	if err := h.images.Remove(rel); err != nil {
		log.Warn("Failed to remove image", "image", rel, "error", err)
	}
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

func postURL(id uint) string {
	return fmt.Sprintf("/posts/%d/", id)
}

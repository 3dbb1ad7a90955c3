package forms

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/ccoveille/go-safecast"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/yatube/yatube/internal/database"
)

type postInput struct {
	Text  string `form:"text" binding:"required"`
	Group string `form:"group"`
}

// PostForm creates and edits posts.
type PostForm struct {
	Form

	Text    string
	GroupID *uint
	Image   *multipart.FileHeader

	groups []database.Group
}

// NewPostForm returns an unbound form offering the given groups.
func NewPostForm(groups []database.Group) *PostForm {
	choices := append([]Choice{{Value: "", Label: "---------"}}, lo.Map(groups, func(g database.Group, _ int) Choice {
		return Choice{Value: strconv.FormatUint(uint64(g.ID), 10), Label: g.Title}
	})...)

	return &PostForm{
		Form: newForm(
			&Field{
				Name:     "text",
				Label:    "Text",
				HelpText: "Text of the new post",
				Kind:     CharField,
				Required: true,
			},
			&Field{
				Name:     "group",
				Label:    "Group",
				HelpText: "Group the post will belong to",
				Kind:     ChoiceField,
				Choices:  choices,
			},
			&Field{
				Name:     "image",
				Label:    "Image",
				HelpText: "Picture attached to the post",
				Kind:     ImageField,
			},
		),
		groups: groups,
	}
}

// NewPostFormFor returns a form prefilled with the values of an existing post.
func NewPostFormFor(groups []database.Group, post *database.Post) *PostForm {
	f := NewPostForm(groups)
	f.Text = post.Text
	f.GroupID = post.GroupID
	f.Fields["text"].Value = post.Text
	if post.GroupID != nil {
		f.Fields["group"].Value = strconv.FormatUint(uint64(*post.GroupID), 10)
	}
	return f
}

// Bind reads the submitted values from the request and validates them.
// It reports whether the form is valid.
func (f *PostForm) Bind(c *gin.Context) bool {
	var in postInput
	if err := c.ShouldBind(&in); err != nil {
		f.addBindError(err, map[string]string{"Text": "text", "Group": "group"})
	}

	f.Text = strings.TrimSpace(in.Text)
	f.Fields["text"].Value = in.Text
	f.Fields["group"].Value = in.Group
	if f.Text == "" && len(f.Fields["text"].Errors) == 0 {
		f.AddError("text", msgRequired)
	}

	f.GroupID = nil
	if in.Group != "" {
		id, ok := f.groupID(in.Group)
		if !ok {
			f.AddError("group", msgInvalidChoice)
		} else {
			f.GroupID = &id
		}
	}

	file, err := c.FormFile("image")
	switch {
	case err == nil:
		f.Image = file
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		f.AddError("image", "Upload a valid image.")
	}

	return f.Valid()
}

func (f *PostForm) groupID(raw string) (uint, bool) {
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	id, err := safecast.Convert[uint](parsed)
	if err != nil {
		return 0, false
	}
	_, found := lo.Find(f.groups, func(g database.Group) bool { return g.ID == id })
	return id, found
}

// Apply copies the cleaned values onto post.
func (f *PostForm) Apply(post *database.Post) {
	post.Text = f.Text
	post.GroupID = f.GroupID
}

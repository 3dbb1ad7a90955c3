package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/ccoveille/go-safecast"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/yatube/yatube/internal/api/auth"
	"github.com/yatube/yatube/internal/config"
	"github.com/yatube/yatube/internal/database"
	"github.com/yatube/yatube/web/templates"
	"gorm.io/gorm"
)

// Renderer turns a page name and its data into a renderable component.
type Renderer interface {
	Component(name string, data any) (templ.Component, error)
}

// ImageStore stores uploaded post images.
type ImageStore interface {
	SavePostImage(r io.Reader) (string, error)
	Remove(rel string) error
}

type Handler struct {
	db       database.DB
	renderer Renderer
	images   ImageStore
	authn    *auth.Authenticator
	oidc     *auth.OIDCProvider
	perPage  int
}

// New creates the page handlers. oidc may be nil when OIDC login is disabled.
func New(db database.DB, renderer Renderer, images ImageStore, authn *auth.Authenticator, oidc *auth.OIDCProvider, cfg *config.Config) *Handler {
	return &Handler{
		db:       db,
		renderer: renderer,
		images:   images,
		authn:    authn,
		oidc:     oidc,
		perPage:  cfg.PostsPerPage,
	}
}

func (h *Handler) render(c *gin.Context, status int, name string, data any) {
	component, err := h.renderer.Component(name, data)
	if err != nil {
		log.Error("Failed to find template", "template", name, "error", err)
		c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := component.Render(c.Request.Context(), c.Writer); err != nil {
		log.Error("Failed to render template", "template", name, "error", err)
	}
}

// NotFound renders the 404 page. It is also used for unknown routes.
func (h *Handler) NotFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, templates.NotFound, ErrorData{
		PageData: h.pageData(c),
		Path:     c.Request.URL.Path,
	})
}

// ServerError logs err and renders the 500 page.
func (h *Handler) ServerError(c *gin.Context, err error) {
	log.Error("Request failed", "path", c.Request.URL.Path, "error", err)
	h.render(c, http.StatusInternalServerError, templates.ServerErr, ErrorData{
		PageData: h.pageData(c),
		Path:     c.Request.URL.Path,
	})
}

// Recovery renders the 500 page when a handler panics.
func (h *Handler) Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("Recovered from panic", "path", c.Request.URL.Path, "panic", recovered)
		h.render(c, http.StatusInternalServerError, templates.ServerErr, ErrorData{
			PageData: h.pageData(c),
			Path:     c.Request.URL.Path,
		})
		c.Abort()
	})
}

// fail maps missing records to 404 and everything else to 500.
func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		h.NotFound(c)
		return
	}
	h.ServerError(c, err)
}

func (h *Handler) pageData(c *gin.Context) PageData {
	return PageData{User: auth.CurrentUser(c)}
}

func parseUintParam(param string) (uint, error) {
	id, err := strconv.ParseUint(param, 10, 64)
	if err != nil {
		return 0, err
	}
	return safecast.Convert[uint](id)
}

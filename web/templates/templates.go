// Package templates holds the embedded HTML pages.
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"maps"
	"slices"
	"strings"

	"github.com/a-h/templ"
)

//go:embed base.html includes posts users core
var files embed.FS

// Page template names.
const (
	Index      = "posts/index.html"
	GroupList  = "posts/group_list.html"
	Profile    = "posts/profile.html"
	PostDetail = "posts/post_detail.html"
	CreatePost = "posts/create_post.html"
	Signup     = "users/signup.html"
	Login      = "users/login.html"
	LoggedOut  = "users/logged_out.html"
	NotFound   = "core/404.html"
	ServerErr  = "core/500.html"
)

// Templates is the parsed set of pages. Every page is rendered inside base.html.
type Templates struct {
	pages map[string]*template.Template
}

// Load parses every page below posts/, users/ and core/ with the given helpers.
func Load(funcs template.FuncMap) (*Templates, error) {
	base, err := template.New("base.html").Funcs(funcs).ParseFS(files, "base.html", "includes/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse base templates: %w", err)
	}

	t := &Templates{pages: make(map[string]*template.Template)}
	err = fs.WalkDir(files, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") || !strings.Contains(path, "/") || strings.HasPrefix(path, "includes/") {
			return nil
		}
		page, err := base.Clone()
		if err != nil {
			return err
		}
		if _, err := page.ParseFS(files, path); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		t.pages[path] = page
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Component returns the named page bound to data.
func (t *Templates) Component(name string, data any) (templ.Component, error) {
	page, ok := t.pages[name]
	if !ok {
		return nil, fmt.Errorf("unknown template %q", name)
	}
	return templ.FromGoHTML(page, data), nil
}

// Names returns the names of all loaded pages.
func (t *Templates) Names() []string {
	return slices.Sorted(maps.Keys(t.pages))
}

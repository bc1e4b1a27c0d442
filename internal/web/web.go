// Package web bundles the embedded site configuration and the HTML
// templates for the public and admin pages.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed site.yaml
var siteYAML []byte

//go:embed templates/*.tmpl
var templateFS embed.FS

type NavLink struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

// Site is the embedded site identity shared by every HTML page.
type Site struct {
	Title    string    `yaml:"title"`
	Tagline  string    `yaml:"tagline"`
	Language string    `yaml:"language"`
	Nav      []NavLink `yaml:"nav"`
}

func LoadSite() (*Site, error) {
	var s Site
	if err := yaml.Unmarshal(siteYAML, &s); err != nil {
		return nil, fmt.Errorf("parse site.yaml: %w", err)
	}
	if strings.TrimSpace(s.Title) == "" {
		return nil, fmt.Errorf("site.yaml: missing title")
	}
	if strings.TrimSpace(s.Language) == "" {
		s.Language = "ja"
	}
	if len(s.Nav) == 0 {
		return nil, fmt.Errorf("site.yaml: missing nav")
	}
	return &s, nil
}

// Templates compiles the page templates. The site is reachable from
// every template through the "site" function.
func Templates(site *Site) (*template.Template, error) {
	if site == nil {
		return nil, fmt.Errorf("site required")
	}
	tmpl, err := template.New("diary").Funcs(template.FuncMap{
		"site": func() *Site { return site },
	}).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

// View data passed by the page handlers.

type HomeData struct {
	Today            string
	Content          string
	TurnstileSiteKey string
}

type ArchiveItem struct {
	Date    string
	Preview string
}

type ArchiveData struct {
	Entries []ArchiveItem
}

type EntryData struct {
	Date    string
	Content string
	CanEdit bool
}

type AdminLoginData struct {
	ErrorMessage string
}

type AdminVersionsIndexData struct {
	Today string
	Token string
}

type AdminVersionItem struct {
	Number    int
	CreatedAt string
	Preview   string
}

type AdminVersionsListData struct {
	Date           string
	HasCurrent     bool
	CurrentContent string
	Versions       []AdminVersionItem
	Token          string
}

type AdminVersionDetailData struct {
	Date      string
	Number    int
	CreatedAt string
	Content   string
	Token     string
}

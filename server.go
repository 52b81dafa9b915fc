package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Dev-Dhanush-hub/portfolio/internal/catalog"
	"github.com/Dev-Dhanush-hub/portfolio/internal/config"
	"github.com/Dev-Dhanush-hub/portfolio/internal/prefs"
	"github.com/Dev-Dhanush-hub/portfolio/internal/selection"
	"github.com/Dev-Dhanush-hub/portfolio/internal/theme"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	visitorCookie       = "visitor_id"
	visitorCtxKey       = "visitor_id"
	visitorIssuedCtxKey = "visitor_issued"
	backgroundWindow    = 5 * time.Second
)

type server struct {
	cfg     *config.Config
	catalog *catalog.Catalog
	db      *sql.DB
	// backend is nil when preferences live in browser cookies.
	backend prefs.Backend

	adminToken  string
	hashingSalt string

	pending sync.WaitGroup
}

func newServer(cfg *config.Config, cat *catalog.Catalog, db *sql.DB, backend prefs.Backend) *server {
	s := &server{
		cfg:     cfg,
		catalog: cat,
		db:      db,
		backend: backend,
	}
	s.initAdminToken()
	return s
}

// page is the view model of index.html. It receives the dark mode flag from
// the theme controller.
type page struct {
	Dark        bool
	Theme       string
	ToggleLabel string

	OwnerName string
	Tagline   string
	Projects  []projectCard
	Modal     *projectModal
	Contact   contactLinks
}

func (p *page) SetDarkMode(on bool) {
	p.Dark = on
}

type projectCard struct {
	Position    int
	Name        string
	Description string
}

type projectModal struct {
	Position    int
	Name        string
	Description string
	Link        string
}

type contactLinks struct {
	Email    string
	LinkedIn string
	GitHub   string
}

func (s *server) router() *gin.Engine {
	r := gin.Default()
	r.LoadHTMLGlob("templates/*")

	r.Static("/static", "./static")

	if s.cfg.App.TrackingEnabled {
		r.Use(s.visitorTrackingMiddleware())
	}

	// Home page route
	r.GET("/", s.handleIndex)

	// HTMX theme toggle, plain form post without JavaScript
	r.POST("/theme/toggle", s.handleThemeToggle)

	// HTMX project dialog fragments
	r.GET("/projects/close", s.handleProjectClose)
	r.GET("/projects/:position", s.handleProjectOpen)

	r.GET("/api/projects", s.handleProjectList)
	r.GET("/api/theme", s.handleThemeGet)
	r.GET("/health", s.handleHealth)

	s.setupAdminRoutes(r)

	return r
}

func (s *server) handleIndex(c *gin.Context) {
	p := s.newPage()
	ctrl := s.themeController(c, p)
	p.setTheme(ctrl.Current())

	var sel selection.State
	if raw := c.Query("project"); raw != "" {
		if record, ok := s.lookup(raw); ok {
			sel.Select(record)
			s.recordEvent("project_view", record.Name)
		}
	}
	p.Modal = s.modalFor(&sel)

	c.HTML(http.StatusOK, "index.html", p)
}

func (s *server) handleThemeToggle(c *gin.Context) {
	p := s.newPage()
	// Toggle persists right away, so loading needs no write of its own.
	ctrl := s.themeController(c, p, theme.WithoutWriteBack())
	next := ctrl.Toggle(c.Request.Context())
	p.setTheme(next)

	s.recordEvent("theme_toggle", next.String())

	if !isHTMX(c) {
		c.Redirect(http.StatusSeeOther, backPath(c.GetHeader("Referer")))
		return
	}

	trigger, _ := json.Marshal(map[string]any{
		"themeChanged": map[string]string{"theme": next.String()},
	})
	c.Header("HX-Trigger", string(trigger))
	c.HTML(http.StatusOK, "theme-toggle.html", p)
}

func (s *server) handleProjectOpen(c *gin.Context) {
	record, ok := s.lookup(c.Param("position"))
	if !ok {
		c.String(http.StatusNotFound, "Project not found")
		return
	}

	if !isHTMX(c) {
		pos, _ := s.catalog.Position(record)
		c.Redirect(http.StatusSeeOther, "/?project="+strconv.Itoa(pos))
		return
	}

	var sel selection.State
	sel.Select(record)
	s.recordEvent("project_view", record.Name)

	c.HTML(http.StatusOK, "project-modal.html", gin.H{
		"Modal": s.modalFor(&sel),
	})
}

func (s *server) handleProjectClose(c *gin.Context) {
	if !isHTMX(c) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	var sel selection.State
	sel.Clear()

	c.HTML(http.StatusOK, "project-modal.html", gin.H{
		"Modal": s.modalFor(&sel),
	})
}

type projectResponse struct {
	Position int `json:"position"`
	catalog.Record
}

func (s *server) handleProjectList(c *gin.Context) {
	records := s.catalog.All()
	out := make([]projectResponse, len(records))
	for i, r := range records {
		out[i] = projectResponse{Position: i + 1, Record: r}
	}
	c.JSON(http.StatusOK, gin.H{"projects": out})
}

func (s *server) handleThemeGet(c *gin.Context) {
	ctrl := s.themeController(c, nil, theme.WithoutWriteBack())
	c.JSON(http.StatusOK, gin.H{"theme": ctrl.Current().String()})
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

func (s *server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status:  "healthy",
		Service: s.cfg.App.Name,
		Version: s.cfg.App.Version,
	})
}

func (s *server) newPage() *page {
	records := s.catalog.All()
	cards := make([]projectCard, len(records))
	for i, r := range records {
		cards[i] = projectCard{Position: i + 1, Name: r.Name, Description: r.Description}
	}

	return &page{
		OwnerName: OwnerName,
		Tagline:   Tagline,
		Projects:  cards,
		Contact: contactLinks{
			Email:    ContactEmail,
			LinkedIn: LinkedInURL,
			GitHub:   GitHubHandle,
		},
	}
}

func (p *page) setTheme(t theme.Preference) {
	p.Theme = t.String()
	p.ToggleLabel = t.ToggleLabel()
}

// modalFor returns nil when nothing is selected, which hides the dialog.
func (s *server) modalFor(sel *selection.State) *projectModal {
	record, ok := sel.Current()
	if !ok {
		return nil
	}
	pos, _ := s.catalog.Position(record)
	return &projectModal{
		Position:    pos,
		Name:        record.Name,
		Description: record.Description,
		Link:        record.Link,
	}
}

func (s *server) lookup(rawPosition string) (catalog.Record, bool) {
	pos, err := strconv.Atoi(rawPosition)
	if err != nil {
		return catalog.Record{}, false
	}
	return s.catalog.At(pos)
}

// themeController loads the visitor's theme. Visitors a server-side backend
// has never seen get nothing written until they toggle.
func (s *server) themeController(c *gin.Context, display theme.Display, opts ...theme.Option) *theme.Controller {
	store, known := s.preferenceStore(c)
	if !known {
		opts = append(opts, theme.WithoutWriteBack())
	}
	return theme.NewController(c.Request.Context(), store, display, opts...)
}

// preferenceStore returns the visitor's store for this request. known is
// false when a server-side backend just issued the visitor ID.
func (s *server) preferenceStore(c *gin.Context) (store prefs.Store, known bool) {
	if s.backend == nil {
		return prefs.NewCookieStore(c.Writer, c.Request), true
	}
	id, issued := visitorID(c)
	return s.backend.ForVisitor(id), !issued
}

// visitorID reads the visitor cookie, issuing a new ID when it is missing
// or malformed. issued reports whether the ID was created by this request.
func visitorID(c *gin.Context) (id string, issued bool) {
	if cached := c.GetString(visitorCtxKey); cached != "" {
		return cached, c.GetBool(visitorIssuedCtxKey)
	}

	id, err := c.Cookie(visitorCookie)
	if err != nil || uuid.Validate(id) != nil {
		id, issued = uuid.NewString(), true
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(visitorCookie, id, int(prefs.CookieMaxAge.Seconds()), "/", "", false, true)
	}

	c.Set(visitorCtxKey, id)
	c.Set(visitorIssuedCtxKey, issued)
	return id, issued
}

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

// backPath keeps only the local path of a Referer so redirects never leave
// the site. Paths a browser could read as protocol-relative fall back to /.
func backPath(referer string) string {
	u, err := url.Parse(referer)
	if err != nil {
		return "/"
	}

	path := u.EscapedPath()
	if !strings.HasPrefix(path, "/") || hostLike(path) || hostLike(u.Path) {
		return "/"
	}
	if u.RawQuery != "" {
		return path + "?" + u.RawQuery
	}
	return path
}

func hostLike(path string) bool {
	return strings.HasPrefix(path, "//") || strings.HasPrefix(path, `/\`)
}

// background runs fn off the request path with its own deadline.
func (s *server) background(fn func(ctx context.Context)) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), backgroundWindow)
		defer cancel()
		fn(ctx)
	}()
}

// recordEvent stores an interaction for the admin dashboard.
func (s *server) recordEvent(kind, subject string) {
	if s.db == nil || !s.cfg.App.TrackingEnabled {
		return
	}

	s.background(func(ctx context.Context) {
		_, err := s.db.ExecContext(ctx, `INSERT INTO events (kind, subject) VALUES (?, ?)`, kind, subject)
		if err != nil {
			log.Printf("Error recording %s event: %v", kind, err)
		}
	})
}

// admin.go - privacy-conscious visitor analytics and admin dashboard
package main

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Dev-Dhanush-hub/portfolio/internal/prefs"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

// cleanupSchedule runs the retention purge daily at 03:00 server time.
const cleanupSchedule = "0 3 * * *"

// Privacy-conscious visitor tracking struct
type VisitorMetric struct {
	ID        int       `json:"id"`
	HashedIP  string    `json:"hashed_ip"` // Hashed instead of raw IP for privacy
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

type ProjectStat struct {
	Position int    `json:"position,omitempty"`
	Name     string `json:"name"`
	Link     string `json:"link,omitempty"`
	Views    int64  `json:"views"`
}

type AdminStats struct {
	TotalVisitors     int64           `json:"total_visitors"`
	UniqueVisitors    int64           `json:"unique_visitors"`
	VisitorsToday     int64           `json:"visitors_today"`
	VisitorsThisWeek  int64           `json:"visitors_this_week"`
	TotalProjectViews int64           `json:"total_project_views"`
	TopProjects       []ProjectStat   `json:"top_projects"`
	ThemeToggles      int64           `json:"theme_toggles"`
	SwitchedToLight   int64           `json:"switched_to_light"`
	SwitchedToDark    int64           `json:"switched_to_dark"`
	RecentVisitors    []VisitorMetric `json:"recent_visitors"`
}

// Initialize admin system with privacy considerations
func (s *server) initAdminToken() {
	s.adminToken = generateAdminToken()
	s.hashingSalt = generateAdminToken() // Use for IP hashing

	log.Printf("Admin access available at: /admin/login")
	if gin.Mode() == gin.DebugMode {
		log.Printf("Admin token (dev only): %s", s.adminToken)
	}

	if s.cfg.App.TrackingEnabled {
		log.Println("Privacy: Visitor tracking enabled with hashed IP addresses")
	}
}

func generateAdminToken() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatal("Failed to generate admin token:", err)
	}
	return hex.EncodeToString(bytes)
}

// Hash IP address for privacy compliance (consistent per IP)
func (s *server) hashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + s.hashingSalt))
	return hex.EncodeToString(hash.Sum(nil))[:16] // Truncate for storage efficiency
}

// Middleware to check admin authentication
func (s *server) adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("admin_token")
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Privacy-conscious visitor tracking middleware
func (s *server) visitorTrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip tracking for fragments, static files, APIs and admin pages
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet ||
			isHTMX(c) ||
			strings.HasPrefix(path, "/static/") ||
			strings.HasPrefix(path, "/admin/") ||
			strings.HasPrefix(path, "/api/") ||
			strings.HasPrefix(path, "/health") ||
			strings.HasPrefix(path, "/favicon") ||
			strings.HasPrefix(path, "/privacy") {
			c.Next()
			return
		}

		// Respect Do Not Track header
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		ip, userAgent := c.ClientIP(), c.GetHeader("User-Agent")
		s.background(func(ctx context.Context) {
			s.trackVisitorPrivacy(ctx, ip, userAgent, path)
		})
		c.Next()
	}
}

// Track visitor with privacy protections
func (s *server) trackVisitorPrivacy(ctx context.Context, ip, userAgent, path string) {
	if s.db == nil {
		return
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path)
		VALUES (?, ?, ?)
	`, s.hashIP(ip), userAgent, path)

	if err != nil {
		log.Printf("Error recording visitor: %v", err)
	}
}

// Cleanup old visitor and event data for privacy compliance
func (s *server) cleanupOldVisitorData(ctx context.Context) (int64, error) {
	cutoff := fmt.Sprintf("-%d months", s.cfg.App.RetentionMonths)

	var removed int64
	for _, table := range []string{"visitors", "events"} {
		result, err := s.db.ExecContext(ctx,
			`DELETE FROM `+table+` WHERE timestamp < datetime('now', ?)`, cutoff)
		if err != nil {
			return removed, fmt.Errorf("failed to clean up %s: %w", table, err)
		}
		rows, _ := result.RowsAffected()
		removed += rows
	}

	// Server-side theme preferences follow the same retention window.
	if pruner, ok := s.backend.(prefs.Pruner); ok {
		pruned, err := pruner.Prune(ctx, time.Now().AddDate(0, -s.cfg.App.RetentionMonths, 0))
		if err != nil {
			return removed, err
		}
		removed += pruned
	}

	if removed > 0 {
		log.Printf("Privacy cleanup: Removed %d records older than %d months", removed, s.cfg.App.RetentionMonths)
	}
	return removed, nil
}

// Run retention cleanup every night, on top of the startup pass
func (s *server) scheduleCleanup() (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(cleanupSchedule, func() {
		s.background(func(ctx context.Context) {
			if _, err := s.cleanupOldVisitorData(ctx); err != nil {
				log.Printf("Error cleaning up old visitor data: %v", err)
			}
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule privacy cleanup: %w", err)
	}
	return c, nil
}

// Get comprehensive admin statistics
func (s *server) getAdminStats(ctx context.Context) (*AdminStats, error) {
	stats := &AdminStats{
		TopProjects:    []ProjectStat{},
		RecentVisitors: []VisitorMetric{},
	}

	counters := []struct {
		query string
		dest  *int64
	}{
		{`SELECT COUNT(*) FROM visitors`, &stats.TotalVisitors},
		// Unique visitors (by hashed IP)
		{`SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, &stats.UniqueVisitors},
		{`SELECT COUNT(*) FROM visitors WHERE DATE(timestamp) = DATE('now')`, &stats.VisitorsToday},
		{`SELECT COUNT(*) FROM visitors WHERE timestamp >= datetime('now', '-7 days')`, &stats.VisitorsThisWeek},
		{`SELECT COUNT(*) FROM events WHERE kind = 'project_view'`, &stats.TotalProjectViews},
		{`SELECT COUNT(*) FROM events WHERE kind = 'theme_toggle'`, &stats.ThemeToggles},
		{`SELECT COUNT(*) FROM events WHERE kind = 'theme_toggle' AND subject = 'light'`, &stats.SwitchedToLight},
		{`SELECT COUNT(*) FROM events WHERE kind = 'theme_toggle' AND subject = 'dark'`, &stats.SwitchedToDark},
	}
	for _, counter := range counters {
		if err := s.db.QueryRowContext(ctx, counter.query).Scan(counter.dest); err != nil {
			return nil, err
		}
	}

	// Top projects by dialog opens
	rows, err := s.db.QueryContext(ctx, `
		SELECT subject, COUNT(*) AS views
		FROM events
		WHERE kind = 'project_view'
		GROUP BY subject
		ORDER BY views DESC, subject ASC
		LIMIT 10
	`)
	if err != nil {
		return nil, err
	}

	links := make(map[string]int)
	records := s.catalog.All()
	for i, r := range records {
		links[r.Name] = i
	}

	for rows.Next() {
		var stat ProjectStat
		if err := rows.Scan(&stat.Name, &stat.Views); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to read project stats: %w", err)
		}
		// Projects removed from the catalog keep their counts without a link.
		if i, ok := links[stat.Name]; ok {
			stat.Position = i + 1
			stat.Link = records[i].Link
		}
		stats.TopProjects = append(stats.TopProjects, stat)
	}
	// Release the connection before the next query; the database allows one.
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	visitors, err := s.recentVisitors(ctx, 50)
	if err != nil {
		return nil, err
	}
	stats.RecentVisitors = visitors

	return stats, nil
}

// Recent visitors (with hashed IPs for privacy)
func (s *server) recentVisitors(ctx context.Context, limit int) ([]VisitorMetric, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	visitors := []VisitorMetric{}
	for rows.Next() {
		var visitor VisitorMetric
		err := rows.Scan(&visitor.ID, &visitor.HashedIP, &visitor.UserAgent, &visitor.Path, &visitor.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to read visitor: %w", err)
		}
		visitors = append(visitors, visitor)
	}
	return visitors, rows.Err()
}

// Setup all admin routes
func (s *server) setupAdminRoutes(r *gin.Engine) {
	// Privacy policy route
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":           "Privacy Policy",
			"retentionMonths": s.cfg.App.RetentionMonths,
		})
	})

	// Admin login page
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	// Admin login handler
	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")

		if s.cfg.Admin.DefaultCredentials && gin.Mode() == gin.DebugMode {
			log.Println("WARNING: Using default admin credentials. Set ADMIN_USERNAME and ADMIN_PASSWORD environment variables.")
		}

		userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.Admin.Username)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Admin.Password)) == 1
		if userOK && passOK {
			// Set secure cookie (24 hours)
			c.SetCookie("admin_token", s.adminToken, 3600*24, "/admin", "", false, true)
			log.Printf("Admin login successful from %s", s.hashIP(c.ClientIP()))
			c.Redirect(http.StatusFound, "/admin/dashboard")
		} else {
			log.Printf("Failed admin login attempt from %s", s.hashIP(c.ClientIP()))
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
				"title": "Admin Login",
				"error": "Invalid credentials",
			})
		}
	})

	// Admin logout
	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie("admin_token", "", -1, "/admin", "", false, true)
		log.Printf("Admin logout from %s", s.hashIP(c.ClientIP()))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	// Protected admin routes group
	adminGroup := r.Group("/admin")
	adminGroup.Use(s.adminAuthMiddleware())

	// Admin dashboard
	adminGroup.GET("/dashboard", func(c *gin.Context) {
		stats, err := s.getAdminStats(c.Request.Context())
		if err != nil {
			log.Printf("Error loading admin stats: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}

		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats":   stats,
			"version": s.cfg.App.Version,
		})
	})

	// Admin API endpoints for HTMX/AJAX
	adminGroup.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.getAdminStats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	// View visitors
	adminGroup.GET("/visitors", func(c *gin.Context) {
		visitors, err := s.recentVisitors(c.Request.Context(), 200)
		if err != nil {
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}

		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"visitors": visitors,
		})
	})

	// Privacy compliance endpoint - purge data past the retention window
	adminGroup.POST("/privacy/cleanup", func(c *gin.Context) {
		removed, err := s.cleanupOldVisitorData(c.Request.Context())
		if err != nil {
			log.Printf("Error cleaning up old visitor data: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Privacy cleanup failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "removed": removed})
	})

	// Admin statistics export (for backups or analysis)
	adminGroup.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.getAdminStats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Set headers for file download
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")

		log.Printf("Admin stats exported by %s", s.hashIP(c.ClientIP()))
		c.JSON(http.StatusOK, stats)
	})
}

package http

import (
	"errors"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"talent-portal/internal/auth"
	"talent-portal/internal/domain"
	"talent-portal/internal/service"
	"talent-portal/internal/storage"
)

const (
	sessionKey      = "session"
	protectedPage   = "post-job.html"
	multipartSlack  = 1 << 20
	submitSucceeded = "Application submitted successfully!"
)

type Config struct {
	CookieName     string
	CookieSecret   string
	SecureCookie   bool
	MaxUploadBytes int64
	StaticDir      string
	AllowOrigins   []string
	// RateLimit guards the login and application endpoints. Nil disables it.
	RateLimit gin.HandlerFunc
	// Metrics serves /metrics when set.
	Metrics http.Handler
	Logger  *logrus.Logger
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	auth   service.AuthService
	jobs   service.JobService
	intake service.IntakeService
	stager storage.Stager
	cfg    Config
	logger *logrus.Logger
}

func NewHandler(authSvc service.AuthService, jobs service.JobService, intake service.IntakeService, stager storage.Stager, cfg Config) *Handler {
	if cfg.CookieName == "" {
		cfg.CookieName = "talent_session"
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = storage.DefaultMaxBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &Handler{
		auth:   authSvc,
		jobs:   jobs,
		intake: intake,
		stager: stager,
		cfg:    cfg,
		logger: cfg.Logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestID(), requestLogger(h.logger), corsMiddleware(h.cfg.AllowOrigins))

	limit := h.cfg.RateLimit
	if limit == nil {
		limit = func(c *gin.Context) { c.Next() }
	}

	router.POST("/login", limit, h.login)
	router.POST("/logout", h.logout)
	router.GET("/auth-status", h.authStatus)
	router.POST("/post-job", h.requireSession, h.postJob)
	router.POST("/submit-contact", limit, h.submitContact)
	router.GET("/"+protectedPage, h.requireSession, h.postJobPage)

	api := router.Group("/api")
	{
		api.GET("/jobs", h.listJobs)
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
	}

	if h.cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(h.cfg.Metrics))
	}
	if h.cfg.StaticDir != "" {
		router.NoRoute(h.serveStatic)
	}
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.writeError(c, domain.Wrap(domain.ErrInvalidRequest, err))
		return
	}

	session, token, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	// A successful login replaces whatever session the client already held.
	if previous, ok := h.cookieToken(c); ok {
		_ = h.auth.Destroy(c.Request.Context(), previous)
	}
	if err := h.setSessionCookie(c, token, session.ExpiresAt); err != nil {
		_ = h.auth.Destroy(c.Request.Context(), token)
		h.writeError(c, domain.Wrap(domain.ErrInternal, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": session.User})
}

func (h *Handler) logout(c *gin.Context) {
	if token, ok := h.cookieToken(c); ok {
		if err := h.auth.Destroy(c.Request.Context(), token); err != nil {
			h.logger.WithError(err).Warn("destroy session")
		}
	}
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) authStatus(c *gin.Context) {
	session, ok := h.currentSession(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": true, "user": session.User})
}

func (h *Handler) postJob(c *gin.Context) {
	var input domain.JobInput
	if err := c.ShouldBind(&input); err != nil {
		h.writeError(c, domain.Wrap(domain.ErrInvalidRequest, err))
		return
	}

	job, err := h.jobs.Create(c.Request.Context(), sessionFrom(c), input)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "job": job})
}

func (h *Handler) listJobs(c *gin.Context) {
	jobs, err := h.jobs.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *Handler) submitContact(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxUploadBytes+multipartSlack)

	var app domain.Application
	if err := c.ShouldBind(&app); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(c, domain.ErrFileTooLarge)
			return
		}
		h.writeError(c, domain.Wrap(domain.ErrInvalidRequest, err))
		return
	}

	var staged *domain.StagedFile
	header, err := c.FormFile("resume")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		h.writeError(c, domain.Wrap(domain.ErrInvalidRequest, err))
		return
	default:
		f, err := header.Open()
		if err != nil {
			h.writeError(c, domain.Wrap(domain.ErrInternal, err))
			return
		}
		staged, err = h.stager.Stage(c.Request.Context(), storage.Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        f,
		})
		f.Close()
		if err != nil {
			h.writeError(c, err)
			return
		}
	}

	if err := h.intake.Submit(c.Request.Context(), app, staged); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": submitSucceeded})
}

func (h *Handler) postJobPage(c *gin.Context) {
	page := filepath.Join(h.cfg.StaticDir, protectedPage)
	if _, err := os.Stat(page); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.File(page)
}

// serveStatic serves public pages for any unmatched GET or HEAD request.
func (h *Handler) serveStatic(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	name := path.Clean("/" + c.Request.URL.Path)
	if name == "/" {
		name = "/index.html"
	}
	if strings.EqualFold(name, "/"+protectedPage) {
		h.writeError(c, domain.ErrUnauthenticated)
		return
	}

	full := filepath.Join(h.cfg.StaticDir, filepath.FromSlash(name))
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.File(full)
}

func (h *Handler) requireSession(c *gin.Context) {
	token, _ := h.cookieToken(c)
	session, err := h.auth.RequireSession(c.Request.Context(), token)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Set(sessionKey, session)
	c.Next()
}

func (h *Handler) currentSession(c *gin.Context) (*domain.Session, bool) {
	token, ok := h.cookieToken(c)
	if !ok {
		return nil, false
	}
	return h.auth.Validate(c.Request.Context(), token)
}

func (h *Handler) cookieToken(c *gin.Context) (string, bool) {
	value, err := c.Cookie(h.cfg.CookieName)
	if err != nil || value == "" {
		return "", false
	}
	token, err := auth.ParseCookie(h.cfg.CookieSecret, value)
	if err != nil {
		return "", false
	}
	return token, true
}

func (h *Handler) setSessionCookie(c *gin.Context, token string, expiresAt time.Time) error {
	value, err := auth.SignCookie(h.cfg.CookieSecret, token, expiresAt)
	if err != nil {
		return err
	}
	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.CookieName, value, maxAge, "/", "", h.cfg.SecureCookie, true)
	return nil
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.CookieName, "", -1, "/", "", h.cfg.SecureCookie, true)
}

func sessionFrom(c *gin.Context) *domain.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	session, _ := v.(*domain.Session)
	return session
}

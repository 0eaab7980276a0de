package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mobyapp/mobyapp/backend/go-services/internal/users"
	"github.com/mobyapp/mobyapp/backend/go-services/pkg/logger"
)

// MigrateRequest is the payroll migration payload.
type MigrateRequest struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	LastName   string `json:"lastName"`
	PictureURL string `json:"pictureUrl"`
}

// UserHandler exposes the Airtable-backed user operations over HTTP.
type UserHandler struct {
	svc *users.Service
}

func NewUserHandler(svc *users.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

// Register mounts the routes under /api/airtable, keeping the paths the
// MobyApp clients already call.
func (h *UserHandler) Register(r *gin.Engine) {
	api := r.Group("/api/airtable")
	api.POST("/records/migrateUser", h.MigrateUser)
	api.GET("/records/user", h.GetUser)
	api.GET("/records/user/profile", h.GetUserProfile)
	api.PUT("/records/user", h.UpdateUser)
	api.GET("/user/fullName", h.GetFullName)
	api.GET("/checkEmail", h.CheckEmail)
	api.GET("/getalluser", h.ListUsers)
	api.GET("/getallreferent", h.ListReferents)
	api.GET("/getallpartner", h.ListPartners)
	api.GET("/tecno", h.ListByTechnology)
}

// MigrateUser handles POST /records/migrateUser
func (h *UserHandler) MigrateUser(c *gin.Context) {
	var req MigrateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.svc.MigrateUser(c.Request.Context(), req.Email, req.Name, req.LastName, req.PictureURL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":         "user " + req.Email + " migrated and projects linked",
		"newUserId":       res.UserID,
		"projectsCreated": res.ProjectsCreated,
		"fields":          res.Fields,
	})
}

// GetUser handles GET /records/user?email= (existence check returning the raw record)
func (h *UserHandler) GetUser(c *gin.Context) {
	email, ok := requireEmail(c)
	if !ok {
		return
	}
	rec, err := h.svc.CheckUserExists(c.Request.Context(), email)
	if err != nil {
		writeError(c, err)
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user with email " + email + " not found in the users table"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": rec.ID, "fields": rec.Fields})
}

// GetUserProfile handles GET /records/user/profile?email= (full DTO with denormalized links)
func (h *UserHandler) GetUserProfile(c *gin.Context) {
	email, ok := requireEmail(c)
	if !ok {
		return
	}
	profile, err := h.svc.GetUserByEmail(c.Request.Context(), email)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateUser handles PUT /records/user?email=
func (h *UserHandler) UpdateUser(c *gin.Context) {
	email, ok := requireEmail(c)
	if !ok {
		return
	}
	var req users.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	profile, err := h.svc.UpdateUser(c.Request.Context(), email, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "user with email " + email + " updated",
		"id":      profile.ID,
		"fields":  profile,
	})
}

// GetFullName handles GET /user/fullName?email=
func (h *UserHandler) GetFullName(c *gin.Context) {
	email, ok := requireEmail(c)
	if !ok {
		return
	}
	name, err := h.svc.GetUserFullName(c.Request.Context(), email)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fullName": name})
}

// CheckEmail handles GET /checkEmail?email= (plain boolean body)
func (h *UserHandler) CheckEmail(c *gin.Context) {
	email, ok := requireEmail(c)
	if !ok {
		return
	}
	exists, err := h.svc.CheckEmailInPayroll(c.Request.Context(), email)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, exists)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	list, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *UserHandler) ListReferents(c *gin.Context) {
	list, err := h.svc.ListReferents(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *UserHandler) ListPartners(c *gin.Context) {
	list, err := h.svc.ListPartners(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ListByTechnology handles GET /tecno?tec=
func (h *UserHandler) ListByTechnology(c *gin.Context) {
	tec := c.Query("tec")
	if tec == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "must send 'tec' as a query parameter"})
		return
	}
	list, err := h.svc.ListByTechnology(c.Request.Context(), tec)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func requireEmail(c *gin.Context) (string, bool) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "must send an email as a query parameter (?email=...)"})
		return "", false
	}
	return email, true
}

// writeError maps the core error taxonomy onto HTTP statuses: caller-fault
// input to 400, missing entities to 404, anything else (store failures) to 500.
func writeError(c *gin.Context, err error) {
	switch {
	case users.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case users.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logger.Errorf("request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookshelfapp/bookshelf/internal/apperr"
)

// Controller handles authentication-related HTTP endpoints.
type Controller struct {
	service  *Service
	sessions *SessionManager
}

// NewController creates a new authentication controller.
func NewController(service *Service, sessions *SessionManager) *Controller {
	return &Controller{
		service:  service,
		sessions: sessions,
	}
}

// RegisterRoutes registers authentication routes on the router.
func (ac *Controller) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/auth/register", ac.Register)
	router.POST("/api/auth/login", ac.Login)
	router.POST("/api/auth/logout", ac.Logout)
	router.GET("/api/auth/me", ac.Me)
}

type registerRequest struct {
	Name            string `json:"name" form:"name"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
}

// Register handles new member sign-up.
// POST /api/auth/register
func (ac *Controller) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid registration request."})
		return
	}

	_, err := ac.service.Register(req.Name, req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		ac.respondError(c, err, "register user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true})
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Login verifies credentials and establishes a session.
// POST /api/auth/login
func (ac *Controller) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid login request."})
		return
	}

	user, err := ac.service.Authenticate(req.Email, req.Password)
	if err != nil {
		ac.respondError(c, err, "login")
		return
	}

	if err := ac.sessions.CreateSession(c.Request, user); err != nil {
		log.Printf("Failed to create session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Something went wrong. Please try again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":       user.ID,
			"name":     user.Name,
			"email":    user.Email,
			"is_admin": user.IsAdmin,
		},
	})
}

// Logout destroys the current session.
// POST /api/auth/logout
func (ac *Controller) Logout(c *gin.Context) {
	if err := ac.sessions.DestroySession(c.Request); err != nil {
		log.Printf("Failed to destroy session: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Me returns the claims of the current session.
// GET /api/auth/me
func (ac *Controller) Me(c *gin.Context) {
	actor := ac.sessions.Actor(c.Request)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "You must be signed in."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": actor})
}

func (ac *Controller) respondError(c *gin.Context, err error, context string) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		status := http.StatusBadRequest
		switch ae.Kind {
		case apperr.KindDuplicate:
			status = http.StatusConflict
		case apperr.KindAuthRequired:
			status = http.StatusUnauthorized
		}
		c.JSON(status, gin.H{"success": false, "error": ae.Message})
		return
	}
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Something went wrong. Please try again."})
}

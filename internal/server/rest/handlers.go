package rest

import (
	"net/http"

	"github.com/dmitrijs2005/authboard/internal/common"
	"github.com/dmitrijs2005/authboard/internal/server/models"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Message     string            `json:"message"`
	User        models.PublicUser `json:"user"`
	AccessToken string            `json:"access_token"`
}

type userResponse struct {
	User models.PublicUser `json:"user"`
}

var errBadBody = common.NewValidationError("invalid JSON body")

func (s *HTTPServer) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "Backend running", "message": "API works"})
}

func (s *HTTPServer) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, errBadBody)
		return
	}

	user, token, err := s.users.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "Registered", "username", user.Username, "user_id", user.ID)
	c.JSON(http.StatusCreated, authResponse{
		Message:     "User created successfully",
		User:        user.Public(),
		AccessToken: token,
	})
}

func (s *HTTPServer) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, errBadBody)
		return
	}

	user, token, err := s.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, authResponse{
		Message:     "Login successful",
		User:        user.Public(),
		AccessToken: token,
	})
}

func (s *HTTPServer) me(c *gin.Context) {
	c.JSON(http.StatusOK, userResponse{User: currentUser(c).Public()})
}

func (s *HTTPServer) dashboard(c *gin.Context) {
	view, err := s.pages.Dashboard(c.Request.Context(), currentUser(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *HTTPServer) profile(c *gin.Context) {
	view, err := s.pages.Profile(c.Request.Context(), currentUser(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *HTTPServer) admin(c *gin.Context) {
	view, err := s.pages.AdminPanel(c.Request.Context(), currentUser(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"quillpost/internal/app"
	"quillpost/internal/model"
	"quillpost/internal/transport/http/middleware"
	"quillpost/internal/transport/http/response"
)

type AuthHandler struct {
	authService *app.AuthService
	blogService *app.BlogService
}

type SignupRequest struct {
	FirstName string `json:"first_name" binding:"required,max=64"`
	LastName  string `json:"last_name" binding:"required,max=64"`
	Email     string `json:"email" binding:"required,email,max=128"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
	Country   string `json:"country" binding:"required,max=64"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=128"`
	Password string `json:"password" binding:"required,max=128"`
}

type tokenPayload struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}

func NewAuthHandler(authService *app.AuthService, blogService *app.BlogService) *AuthHandler {
	return &AuthHandler{authService: authService, blogService: blogService}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.authService.Signup(c.Request.Context(), app.SignupInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Country:   req.Country,
	})
	if err != nil {
		writeServiceError(c, err, "signup failed")
		return
	}

	response.Created(c, tokenPayload{Token: result.Token, ExpiresAt: result.ExpiresAt, User: result.User})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), app.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(c, err, "login failed")
		return
	}

	response.OK(c, tokenPayload{Token: result.Token, ExpiresAt: result.ExpiresAt, User: result.User})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	expiresAt, _ := c.Get(middleware.ContextTokenExpiresAtKey)
	until, _ := expiresAt.(time.Time)

	if err := h.authService.Logout(c.Request.Context(), c.GetString(middleware.ContextTokenIDKey), until); err != nil {
		writeServiceError(c, err, "logout failed")
		return
	}
	response.OK(c, nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.GetUserByID(c.Request.Context(), c.GetString(middleware.ContextUserIDKey))
	if err != nil {
		writeServiceError(c, err, "fetch current user failed")
		return
	}
	response.OK(c, user)
}

// MyBlogs lists the caller's posts in every state.
func (h *AuthHandler) MyBlogs(c *gin.Context) {
	result, err := h.blogService.ListMine(c.Request.Context(), middleware.ActorFromContext(c), listInputFromQuery(c))
	if err != nil {
		writeServiceError(c, err, "list blogs failed")
		return
	}
	response.OK(c, result)
}

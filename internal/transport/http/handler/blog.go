package handler

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"quillpost/internal/app"
	"quillpost/internal/transport/http/middleware"
	"quillpost/internal/transport/http/response"
)

type BlogHandler struct {
	blogService *app.BlogService
}

type PostRequest struct {
	Title       string   `json:"title" binding:"required,max=255"`
	Description string   `json:"description" binding:"required,max=1024"`
	Tags        []string `json:"tags" binding:"max=32,dive,max=64"`
	Body        string   `json:"body" binding:"required"`
}

func NewBlogHandler(blogService *app.BlogService) *BlogHandler {
	return &BlogHandler{blogService: blogService}
}

func (h *BlogHandler) Create(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	post, err := h.blogService.Create(c.Request.Context(), middleware.ActorFromContext(c), req.input())
	if err != nil {
		writeServiceError(c, err, "create blog failed")
		return
	}
	response.Created(c, post)
}

func (h *BlogHandler) List(c *gin.Context) {
	result, err := h.blogService.List(c.Request.Context(), middleware.ActorFromContext(c), listInputFromQuery(c))
	if err != nil {
		writeServiceError(c, err, "list blogs failed")
		return
	}
	response.OK(c, result)
}

func (h *BlogHandler) Get(c *gin.Context) {
	post, err := h.blogService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err, "fetch blog failed")
		return
	}
	response.OK(c, post)
}

func (h *BlogHandler) Update(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	post, err := h.blogService.Update(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id"), req.input())
	if err != nil {
		writeServiceError(c, err, "update blog failed")
		return
	}
	response.OK(c, post)
}

func (h *BlogHandler) Publish(c *gin.Context) {
	post, err := h.blogService.Publish(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, err, "publish blog failed")
		return
	}
	response.OK(c, post)
}

func (h *BlogHandler) Delete(c *gin.Context) {
	if err := h.blogService.Delete(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id")); err != nil {
		writeServiceError(c, err, "delete blog failed")
		return
	}
	response.OK(c, gin.H{"id": c.Param("id")})
}

func (h *BlogHandler) Export(c *gin.Context) {
	post, doc, err := h.blogService.Export(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err, "export blog failed")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename(post.Title)))
	c.Data(http.StatusOK, "application/pdf", doc)
}

// Audit lists the lifecycle events recorded for a post. Owners only.
func (h *BlogHandler) Audit(c *gin.Context) {
	entries, err := h.blogService.AuditTrail(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, err, "fetch audit log failed")
		return
	}
	response.OK(c, entries)
}

func (r PostRequest) input() app.CreatePostInput {
	return app.CreatePostInput{
		Title:       r.Title,
		Description: r.Description,
		Tags:        r.Tags,
		Body:        r.Body,
	}
}

func listInputFromQuery(c *gin.Context) app.ListInput {
	return app.ListInput{
		Page:      queryInt(c, "page"),
		Limit:     queryInt(c, "limit"),
		State:     c.Query("state"),
		Search:    c.Query("search"),
		Author:    c.Query("author"),
		Tag:       c.Query("tag"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
}

// queryInt returns 0 for absent or malformed values; pagination clamps them.
func queryInt(c *gin.Context, key string) int {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return parsed
}

var unsafeFilename = regexp.MustCompile(`[^a-z0-9]+`)

func exportFilename(title string) string {
	slug := strings.Trim(unsafeFilename.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if slug == "" {
		slug = "blog"
	}
	if len(slug) > 64 {
		slug = strings.TrimRight(slug[:64], "-")
	}
	return slug + ".pdf"
}

package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"thesisarchive/internal/common"
	"thesisarchive/internal/server/models"
	"thesisarchive/internal/server/services"
)

type registerRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
}

type registerResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Persistent bool   `json:"persistent"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type thesisRequest struct {
	Author   *string `json:"author"`
	Abstract *string `json:"abstract"`
	Filepath *string `json:"filepath"`
	Year     *int    `json:"year"`
}

type thesisResponse struct {
	ID       int64   `json:"id"`
	Author   *string `json:"author"`
	Abstract *string `json:"abstract"`
	Filepath *string `json:"filepath"`
	Year     *int    `json:"year"`
}

type uploadURLResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

func toThesisResponse(t *models.Thesis) thesisResponse {
	return thesisResponse{
		ID:       t.ID,
		Author:   t.Author,
		Abstract: t.Abstract,
		Filepath: t.Filepath,
		Year:     t.Year,
	}
}

// writeError maps service errors to HTTP statuses. Anything that is not a
// known sentinel is treated as a store outage and reported as 503.
func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
	case errors.Is(err, common.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, common.ErrorUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, common.ErrorAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	default:
		s.logger.Error(c.Request.Context(), "request failed", "error", err.Error())
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service unavailable"})
	}
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	account, err := s.identity.Register(c.Request.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, registerResponse{
		ID:          account.ID,
		Email:       account.Email,
		DisplayName: account.DisplayName,
	})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	token, err := s.identity.Authenticate(c.Request.Context(), req.Email, req.Password, req.Persistent)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{Token: token})
}

func (s *Server) handleLogout(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := s.identity.Logout(c.Request.Context(), token); err != nil {
		s.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) handleCreateThesis(c *gin.Context) {
	var req thesisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	input := &services.ThesisInput{
		Author:   req.Author,
		Abstract: req.Abstract,
		Filepath: req.Filepath,
		Year:     req.Year,
	}

	id, err := s.theses.Create(c.Request.Context(), c.GetString(ctxKeyToken), input)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (s *Server) handleListTheses(c *gin.Context) {
	list, err := s.theses.List(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}

	result := make([]thesisResponse, 0, len(list))
	for _, t := range list {
		result = append(result, toThesisResponse(t))
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleGetThesis(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	thesis, err := s.theses.Get(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toThesisResponse(thesis))
}

func (s *Server) handleUploadURL(c *gin.Context) {
	key, url, err := s.files.GetPresignedPutUrl(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, uploadURLResponse{Key: key, URL: url})
}

// handleGetAttachment redirects to a short-lived download URL for the record's
// file. Records without a file yield 404 just like missing records.
func (s *Server) handleGetAttachment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	thesis, err := s.theses.Get(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}

	if thesis.Filepath == nil || *thesis.Filepath == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	url, err := s.files.GetPresignedGetUrl(c.Request.Context(), *thesis.Filepath)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, url)
}

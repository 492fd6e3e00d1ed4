package handler

import (
	"errors"
	"net/http"

	"github.com/edutrack/edutrack-api/internal/model"
	"github.com/edutrack/edutrack-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VideoHandler handles video endpoints
type VideoHandler struct {
	catalog *service.CatalogService
}

func NewVideoHandler(catalog *service.CatalogService) *VideoHandler {
	return &VideoHandler{catalog: catalog}
}

// List godoc
// @Summary List recorded videos
// @Tags Videos
// @Produce json
// @Security BearerAuth
// @Param educator_id query string false "Filter by educator"
// @Param status query string false "Filter by status"
// @Param limit query int false "Max rows"
// @Success 200 {array} model.Video
// @Router /videos [get]
func (h *VideoHandler) List(c *gin.Context) {
	var req model.VideoListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid query", Message: err.Error()})
		return
	}

	videos, err := h.catalog.ListVideos(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to list videos"})
		return
	}
	c.JSON(http.StatusOK, videos)
}

// Add godoc
// @Summary Record a YouTube link for an educator
// @Tags Videos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.AddVideoRequest true "Add video"
// @Success 201 {object} model.Video
// @Failure 400 {object} model.ErrorResponse
// @Router /videos [post]
func (h *VideoHandler) Add(c *gin.Context) {
	var req model.AddVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	video, err := h.catalog.AddVideo(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEducatorNotFound):
			c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "Educator not found"})
		case errors.Is(err, service.ErrInvalidVideoURL):
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Please enter a valid YouTube URL"})
		case errors.Is(err, service.ErrVideoExists):
			c.JSON(http.StatusConflict, model.ErrorResponse{Error: "This video is already recorded for the educator"})
		default:
			c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to add video"})
		}
		return
	}
	c.JSON(http.StatusCreated, video)
}

// Refresh godoc
// @Summary Re-fetch platform metadata for a video
// @Tags Videos
// @Produce json
// @Security BearerAuth
// @Param id path string true "Video ID"
// @Success 200 {object} model.Video
// @Failure 404 {object} model.ErrorResponse
// @Router /videos/{id}/refresh [post]
func (h *VideoHandler) Refresh(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid video id"})
		return
	}

	video, err := h.catalog.RefreshVideo(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "Video not found"})
			return
		}
		c.JSON(http.StatusBadGateway, model.ErrorResponse{Error: "Failed to refresh metadata", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, video)
}

// Delete godoc
// @Summary Delete a recorded video
// @Tags Videos
// @Produce json
// @Security BearerAuth
// @Param id path string true "Video ID"
// @Success 200 {object} model.SuccessResponse
// @Router /videos/{id} [delete]
func (h *VideoHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid video id"})
		return
	}

	if err := h.catalog.DeleteVideo(id); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Video deleted"})
}

package handler

import (
	"errors"
	"net/http"

	"github.com/edutrack/edutrack-api/internal/model"
	"github.com/edutrack/edutrack-api/internal/service"
	"github.com/edutrack/edutrack-api/pkg/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EducatorHandler handles educator CRUD endpoints
type EducatorHandler struct {
	catalog *service.CatalogService
	storage storage.Storage
}

func NewEducatorHandler(catalog *service.CatalogService, storage storage.Storage) *EducatorHandler {
	return &EducatorHandler{
		catalog: catalog,
		storage: storage,
	}
}

// List godoc
// @Summary List all educators with content rollups
// @Tags Educators
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.EducatorResponse
// @Router /educators [get]
func (h *EducatorHandler) List(c *gin.Context) {
	educators, err := h.catalog.ListEducators()
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to list educators"})
		return
	}
	c.JSON(http.StatusOK, educators)
}

// Get godoc
// @Summary Get a single educator
// @Tags Educators
// @Produce json
// @Security BearerAuth
// @Param id path string true "Educator ID"
// @Success 200 {object} model.EducatorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /educators/{id} [get]
func (h *EducatorHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid educator id"})
		return
	}

	educator, err := h.catalog.GetEducator(id)
	if err != nil {
		if errors.Is(err, service.ErrEducatorNotFound) {
			c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "Educator not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to load educator"})
		return
	}
	c.JSON(http.StatusOK, educator)
}

// Create godoc
// @Summary Register a new educator
// @Tags Educators
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.CreateEducatorRequest true "Create educator"
// @Success 201 {object} model.Educator
// @Failure 400 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /educators [post]
func (h *EducatorHandler) Create(c *gin.Context) {
	var req model.CreateEducatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	educator, err := h.catalog.CreateEducator(req, "")
	if err != nil {
		if errors.Is(err, service.ErrEducatorEmailExists) {
			c.JSON(http.StatusConflict, model.ErrorResponse{Error: "Educator with this email already exists"})
			return
		}
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, educator)
}

// Update godoc
// @Summary Update an educator (JSON fields or multipart with avatar file)
// @Tags Educators
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Educator ID"
// @Success 200 {object} model.EducatorResponse
// @Router /educators/{id} [put]
func (h *EducatorHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid educator id"})
		return
	}

	var req model.UpdateEducatorRequest
	avatarURL := ""

	if form, err := c.MultipartForm(); err == nil {
		if names := form.Value["name"]; len(names) > 0 {
			req.Name = names[0]
		}
		if subjects := form.Value["subject"]; len(subjects) > 0 {
			req.Subject = subjects[0]
		}

		if files := form.File["avatar"]; len(files) > 0 {
			fileHeader := files[0]

			file, err := fileHeader.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Failed to read file", Message: err.Error()})
				return
			}
			defer file.Close()

			if h.storage == nil {
				c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{Error: "File upload service unavailable"})
				return
			}
			result, err := h.storage.Upload(c.Request.Context(), file, fileHeader, "avatars")
			if err != nil {
				c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to upload avatar", Message: err.Error()})
				return
			}
			avatarURL = result.URL
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	educator, err := h.catalog.UpdateEducator(id, req, avatarURL)
	if err != nil {
		if errors.Is(err, service.ErrEducatorNotFound) {
			c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "Educator not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, educator)
}

// Delete godoc
// @Summary Delete an educator and their videos
// @Tags Educators
// @Produce json
// @Security BearerAuth
// @Param id path string true "Educator ID"
// @Success 200 {object} model.SuccessResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /educators/{id} [delete]
func (h *EducatorHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid educator id"})
		return
	}

	if err := h.catalog.DeleteEducator(id); err != nil {
		if errors.Is(err, service.ErrEducatorNotFound) {
			c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "Educator not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Educator deleted"})
}

// Videos godoc
// @Summary List an educator's videos
// @Tags Educators
// @Produce json
// @Security BearerAuth
// @Param id path string true "Educator ID"
// @Success 200 {array} model.Video
// @Router /educators/{id}/videos [get]
func (h *EducatorHandler) Videos(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid educator id"})
		return
	}

	videos, err := h.catalog.ListVideosByEducator(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to list videos"})
		return
	}
	c.JSON(http.StatusOK, videos)
}

package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lenslink-backend-go/internal/core"
	"lenslink-backend-go/internal/middleware"
	"lenslink-backend-go/internal/models"
)

// FolderHandler handles API endpoints related to deliverables folders.
type FolderHandler struct {
	folderService core.FolderService
	logger        *zap.Logger
}

// NewFolderHandler creates a new FolderHandler.
func NewFolderHandler(fs core.FolderService, logger *zap.Logger) *FolderHandler {
	return &FolderHandler{folderService: fs, logger: logger}
}

// mapFolderErrorToStatus maps errors from core.FolderService to HTTP status codes.
func (h *FolderHandler) mapFolderErrorToStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrFolderNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: core.ErrFolderNotFound.Error()})
	case errors.Is(err, core.ErrForbiddenAccess):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: core.ErrForbiddenAccess.Error()})
	default:
		h.logger.Error("Unexpected folder service error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
	}
}

func (h *FolderHandler) requireUserAndFolderID(c *gin.Context) (*models.User, string, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User profile not found in context"})
		return nil, "", false
	}
	folderID := c.Param("folderId")
	if folderID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Folder ID is required"})
		return nil, "", false
	}
	return user, folderID, true
}

// CreateFolder handles POST /folders.
func (h *FolderHandler) CreateFolder(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User profile not found in context"})
		return
	}

	var req models.CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	folder, err := h.folderService.CreateFolder(c.Request.Context(), user.ID, req)
	if err != nil {
		h.mapFolderErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, folder)
}

// ListFolders handles GET /folders.
func (h *FolderHandler) ListFolders(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User profile not found in context"})
		return
	}

	folders, err := h.folderService.ListFolders(c.Request.Context(), user.ID)
	if err != nil {
		h.mapFolderErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, folders)
}

// GetFolder handles GET /folders/:folderId (owner or shared-with).
func (h *FolderHandler) GetFolder(c *gin.Context) {
	user, folderID, ok := h.requireUserAndFolderID(c)
	if !ok {
		return
	}

	folder, err := h.folderService.GetFolderByID(c.Request.Context(), user, folderID)
	if err != nil {
		h.mapFolderErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, folder)
}

// RenameFolder handles PUT /folders/:folderId.
func (h *FolderHandler) RenameFolder(c *gin.Context) {
	user, folderID, ok := h.requireUserAndFolderID(c)
	if !ok {
		return
	}

	var req models.RenameFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	folder, err := h.folderService.RenameFolder(c.Request.Context(), user.ID, folderID, req)
	if err != nil {
		h.mapFolderErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, folder)
}

// DeleteFolder handles DELETE /folders/:folderId.
func (h *FolderHandler) DeleteFolder(c *gin.Context) {
	user, folderID, ok := h.requireUserAndFolderID(c)
	if !ok {
		return
	}

	if err := h.folderService.DeleteFolder(c.Request.Context(), user.ID, folderID); err != nil {
		h.mapFolderErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Folder deleted"})
}

// AddFile handles POST /folders/:folderId/files.
func (h *FolderHandler) AddFile(c *gin.Context) {
	user, folderID, ok := h.requireUserAndFolderID(c)
	if !ok {
		return
	}

	var req models.AddFolderFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	folder, err := h.folderService.AddFile(c.Request.Context(), user.ID, folderID, req)
	if err != nil {
		h.mapFolderErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, folder)
}

// ShareFolder handles POST /folders/:folderId/share.
func (h *FolderHandler) ShareFolder(c *gin.Context) {
	user, folderID, ok := h.requireUserAndFolderID(c)
	if !ok {
		return
	}

	var req models.ShareFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	folder, err := h.folderService.ShareFolder(c.Request.Context(), user.ID, folderID, req)
	if err != nil {
		h.mapFolderErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, folder)
}

package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-pethotel/internal/application"
	"github.com/Kilat-Pet-Delivery/service-pethotel/internal/media"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/middleware"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/response"
)

// actorFrom builds the caller identity placed in the context by AuthMiddleware.
func actorFrom(c *gin.Context) (application.Actor, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return application.Actor{}, false
	}
	role, _ := middleware.GetUserRole(c)
	return application.Actor{ID: id, Role: role}, true
}

// queryID reads a positive integer id from the query string or form body.
func queryID(c *gin.Context, key string) (int64, bool) {
	raw := c.Query(key)
	if raw == "" {
		raw = c.PostForm(key)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, fmt.Sprintf("invalid %s", key))
		return 0, false
	}
	return id, true
}

// paramID reads a positive integer id from the URL path.
func paramID(c *gin.Context, key string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(key), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, fmt.Sprintf("invalid %s", key))
		return 0, false
	}
	return id, true
}

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

// optionalUpload reads the named multipart file. A missing file yields nil.
func optionalUpload(c *gin.Context, field string) (*media.Upload, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	up, err := readUpload(fh)
	if err != nil {
		return nil, err
	}
	return &up, nil
}

// readUpload loads at most one byte more than the store accepts so oversized
// files are still reported as too large.
func readUpload(fh *multipart.FileHeader) (media.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return media.Upload{}, fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, media.MaxFileSize+1))
	if err != nil {
		return media.Upload{}, fmt.Errorf("failed to read upload %s: %w", fh.Filename, err)
	}
	return media.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// streamFile writes a stored file to the response and closes it.
func streamFile(c *gin.Context, file *application.FileDTO) {
	defer file.Content.Close()
	c.DataFromReader(http.StatusOK, file.Size, file.ContentType, file.Content, map[string]string{
		"Content-Disposition": fmt.Sprintf("inline; filename=%q", file.Name),
	})
}

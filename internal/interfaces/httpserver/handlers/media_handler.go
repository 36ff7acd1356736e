package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"recipehub/media-api/internal/domain/media"
	"recipehub/media-api/internal/infrastructure/auth"
	"recipehub/media-api/internal/infrastructure/metrics"
	"recipehub/media-api/internal/interfaces/httpserver/requests"
	"recipehub/media-api/internal/interfaces/httpserver/responses"
	"recipehub/media-api/internal/utils/platformerrors"
	"recipehub/media-api/utils/mediaid"
)

// multipartOverhead is the slack allowed on top of the file ceiling for form fields and boundaries.
const multipartOverhead = 1 << 20

const (
	codeInvalidForm  = "media-request-invalid-form"
	codeInvalidBody  = "media-request-invalid-body"
	codeInvalidQuery = "media-request-invalid-query"
	codeMissingFile  = "media-upload-missing-file"
	codeActorUnbound = "media-request-no-actor"
)

// MediaService is the domain surface the handlers call.
type MediaService interface {
	Policy() media.Policy
	SelectBackend(forceLocal bool) media.Backend
	UploadLocal(ctx context.Context, actor media.Actor, in media.UploadInput) (*media.Record, error)
	Presign(ctx context.Context, actor media.Actor, in media.PresignInput) (*media.PresignedUpload, error)
	Confirm(ctx context.Context, actor media.Actor, in media.ConfirmInput) (*media.Record, error)
	Get(ctx context.Context, actor media.Actor, id string) (*media.Record, error)
	Update(ctx context.Context, actor media.Actor, id string, in media.UpdateInput) (*media.Record, error)
	Delete(ctx context.Context, actor media.Actor, id string) (*media.Record, error)
	List(ctx context.Context, actor media.Actor, filter media.ListFilter) (*media.ListResult, error)
	Stats(ctx context.Context, actor media.Actor, filter media.StatsFilter) (*media.Stats, error)
	IncrementUsage(ctx context.Context, id string) error
	BulkDelete(ctx context.Context, actor media.Actor, ids []string) (*media.BulkResult, error)
	BulkUpdateTags(ctx context.Context, actor media.Actor, ids []string, tags []string) (*media.BulkResult, error)
	Sweep(ctx context.Context, actor media.Actor, maxAgeHours int) (*media.SweepResult, error)
}

// MediaHandler exposes media endpoints.
type MediaHandler struct {
	service MediaService
	log     zerolog.Logger
	now     func() time.Time
}

func NewMediaHandler(service MediaService, log zerolog.Logger) *MediaHandler {
	return &MediaHandler{
		service: service,
		log:     log.With().Str("component", "media-handler").Logger(),
		now:     time.Now,
	}
}

// UploadMode godoc
// @Summary      Report the active upload mode
// @Description  Returns "object" when clients should request a presigned grant, "local" when they should POST the file here.
// @Tags         media
// @Produce      json
// @Param        force_local  query     bool  false  "Pretend the caller forces local storage"
// @Success      200          {object}  responses.UploadModeResponse
// @Security     BearerAuth
// @Router       /v1/media/upload-mode [get]
func (h *MediaHandler) UploadMode(c *gin.Context) {
	forceLocal, err := parseBool(c.Query("force_local"), false)
	if err != nil {
		h.writeError(c, invalid(c, codeInvalidQuery, "force_local must be a boolean", err))
		return
	}
	policy := h.service.Policy()
	c.JSON(http.StatusOK, responses.UploadModeResponse{
		Mode:             h.service.SelectBackend(forceLocal),
		PresignAvailable: h.service.SelectBackend(false) == media.BackendObject,
		MaxBytes:         policy.MaxBytes,
		AllowedMimeTypes: append(append([]string{}, policy.ImageMIMEs...), policy.VideoMIMEs...),
	})
}

// Upload godoc
// @Summary      Upload a file to local storage
// @Description  Stores the file on the server, renders a thumbnail and returns the ready record.
// @Tags         media
// @Accept       multipart/form-data
// @Produce      json
// @Param        file            formData  file    true   "File to upload"
// @Param        force_local     formData  bool    false  "Store locally even when object storage is configured"
// @Param        generate_thumb  formData  bool    false  "Render a thumbnail (default true)"
// @Param        alt             formData  string  false  "Alt text"
// @Param        tags            formData  string  false  "Comma separated tags"
// @Success      201             {object}  media.Record
// @Failure      400             {object}  platformerrors.HTTPErrorResponse
// @Failure      409             {object}  platformerrors.HTTPErrorResponse
// @Failure      502             {object}  platformerrors.HTTPErrorResponse
// @Security     BearerAuth
// @Router       /v1/media/upload [post]
func (h *MediaHandler) Upload(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	policy := h.service.Policy()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, policy.MaxBytes+multipartOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(c, invalid(c, media.CodeFileTooLarge, "file exceeds the maximum upload size", err))
			return
		}
		h.writeError(c, invalid(c, codeMissingFile, "multipart field \"file\" is required", err))
		return
	}

	forceLocal, err := parseBool(c.PostForm("force_local"), false)
	if err != nil {
		h.writeError(c, invalid(c, codeInvalidForm, "force_local must be a boolean", err))
		return
	}
	generateThumb, err := parseBool(c.PostForm("generate_thumb"), true)
	if err != nil {
		h.writeError(c, invalid(c, codeInvalidForm, "generate_thumb must be a boolean", err))
		return
	}

	file, err := header.Open()
	if err != nil {
		h.writeError(c, invalid(c, codeInvalidForm, "failed to open uploaded file", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.writeError(c, invalid(c, codeInvalidForm, "failed to read uploaded file", err))
		return
	}

	in := media.UploadInput{
		Filename:          header.Filename,
		MimeType:          header.Header.Get("Content-Type"),
		Data:              data,
		Tags:              requests.SplitList(c.PostForm("tags")),
		ForceLocal:        forceLocal,
		GenerateThumbnail: generateThumb,
	}
	if alt, ok := c.GetPostForm("alt"); ok {
		in.AltText = &alt
	}

	record, err := h.service.UploadLocal(c.Request.Context(), actor, in)
	kind, _ := policy.KindOf(media.NormalizeMIME(in.MimeType))
	metrics.RecordUpload(kindLabel(kind), metrics.Status(err), int64(len(data)))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// Presign godoc
// @Summary      Request a presigned upload grant
// @Description  Returns a POST policy for uploading directly to object storage. Not available with local storage only.
// @Tags         media
// @Accept       json
// @Produce      json
// @Param        request  body      requests.PresignRequest  true  "Upload to authorize"
// @Success      200      {object}  responses.PresignResponse
// @Failure      400      {object}  platformerrors.HTTPErrorResponse
// @Failure      501      {object}  platformerrors.HTTPErrorResponse
// @Security     BearerAuth
// @Router       /v1/media/presign [post]
func (h *MediaHandler) Presign(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req requests.PresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, invalid(c, codeInvalidBody, "filename and mime_type are required", err))
		return
	}

	upload, err := h.service.Presign(c.Request.Context(), actor, req.ToDomain())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, responses.NewPresignResponse(upload, h.now()))
}

// Confirm godoc
// @Summary      Register a presigned upload
// @Description  Creates the record for an object the client uploaded with a presigned grant.
// @Tags         media
// @Accept       json
// @Produce      json
// @Param        request  body      requests.ConfirmRequest  true  "Uploaded object"
// @Success      201      {object}  media.Record
// @Failure      400      {object}  platformerrors.HTTPErrorResponse
// @Security     BearerAuth
// @Router       /v1/media/confirm [post]
func (h *MediaHandler) Confirm(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req requests.ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, invalid(c, codeInvalidBody, "storage_key is required", err))
		return
	}

	record, err := h.service.Confirm(c.Request.Context(), actor, req.ToDomain())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// List godoc
// @Summary      List media
// @Tags         media
// @Produce      json
// @Param        kind         query     string  false  "image or video"
// @Param        status       query     string  false  "uploading, processing, ready or failed"
// @Param        uploader_id  query     string  false  "Uploader"
// @Param        tags         query     string  false  "Comma separated tags, any match"
// @Param        search       query     string  false  "Substring of name or alt text"
// @Param        sort         query     string  false  "newest, oldest, name, size, kind or usage"
// @Param        limit        query     int     false  "Page size"
// @Param        cursor       query     string  false  "Cursor from page_info.next_cursor"
// @Success      200          {object}  responses.ListResponse
// @Failure      400          {object}  platformerrors.HTTPErrorResponse
// @Security     BearerAuth
// @Router       /v1/media [get]
func (h *MediaHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	filter := media.ListFilter{
		Kind:       media.Kind(strings.ToLower(c.Query("kind"))),
		Status:     media.Status(strings.ToLower(c.Query("status"))),
		UploaderID: c.Query("uploader_id"),
		Tags:       requests.SplitList(c.Query("tags")),
		Search:     c.Query("search"),
		Sort:       media.SortMode(strings.ToLower(c.Query("sort"))),
		Cursor:     c.Query("cursor"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(c, invalid(c, codeInvalidQuery, "limit must be an integer", err))
			return
		}
		filter.Limit = limit
	}

	result, err := h.service.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, responses.NewListResponse(result))
}

// Stats godoc
// @Summary      Aggregate media usage
// @Tags         media
// @Produce      json
// @Param        uploader_id  query     string  false  "Uploader"
// @Param        from         query     string  false  "RFC 3339 lower bound on created_at"
// @Param        to           query     string  false  "RFC 3339 upper bound on created_at"
// @Success      200          {object}  media.Stats
// @Failure      400          {object}  platformerrors.HTTPErrorResponse
// @Security     BearerAuth
// @Router       /v1/media/stats [get]
func (h *MediaHandler) Stats(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	filter := media.StatsFilter{UploaderID: c.Query("uploader_id")}
	for name, dst := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.writeError(c, invalid(c, codeInvalidQuery, name+" must be an RFC 3339 timestamp", err))
			return
		}
		*dst = &t
	}

	stats, err := h.service.Stats(c.Request.Context(), actor, filter)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Get godoc
// @Summary      Get a media record
// @Tags         media
// @Produce      json
// @Param        id   path      string  true  "Media ID"
// @Success      200  {object}  media.Record
// @Failure      404  {object}  platformerrors.HTTPErrorResponse
// @Security     BearerAuth
// @Router       /v1/media/{id} [get]
func (h *MediaHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.mediaID(c)
	if !ok {
		return
	}
	record, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// Update godoc
// @Summary      Update a media record
// @Description  Patches alt text, tags, status or URL. Only the uploader or an admin may update.
// @Tags         media
// @Accept       json
// @Produce      json
// @Param        id       path      string                  true  "Media ID"
// @Param        request  body      requests.UpdateRequest  true  "Fields to change"
// @Success      200      {object}  media.Record
// @Failure      400      {object}  platformerrors.HTTPErrorResponse
// @Failure      403      {object}  platformerrors.HTTPErrorResponse
// @Failure      404      {object}  platformerrors.HTTPErrorResponse
// @Security     BearerAuth
// @Router       /v1/media/{id} [patch]
func (h *MediaHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.mediaID(c)
	if !ok {
		return
	}
	var req requests.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, invalid(c, codeInvalidBody, "request body must be a JSON object", err))
		return
	}

	record, err := h.service.Update(c.Request.Context(), actor, id, req.ToDomain())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// Delete godoc
// @Summary      Delete a media record
// @Description  Removes the record, then its bytes and thumbnail.
// @Tags         media
// @Param        id   path  string  true  "Media ID"
// @Success      204  "no content"
// @Failure      403  {object}  platformerrors.HTTPErrorResponse
// @Failure      404  {object}  platformerrors.HTTPErrorResponse
// @Security     BearerAuth
// @Router       /v1/media/{id} [delete]
func (h *MediaHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.mediaID(c)
	if !ok {
		return
	}
	if _, err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RecordUsage godoc
// @Summary      Record that a recipe used this media
// @Tags         media
// @Param        id   path  string  true  "Media ID"
// @Success      204  "no content"
// @Failure      404  {object}  platformerrors.HTTPErrorResponse
// @Security     BearerAuth
// @Router       /v1/media/{id}/usage [post]
func (h *MediaHandler) RecordUsage(c *gin.Context) {
	if _, ok := h.actor(c); !ok {
		return
	}
	id, ok := h.mediaID(c)
	if !ok {
		return
	}
	if err := h.service.IncrementUsage(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// BulkDelete godoc
// @Summary      Delete many media records
// @Tags         media
// @Accept       json
// @Produce      json
// @Param        request  body      requests.BulkDeleteRequest  true  "IDs to delete"
// @Success      200      {object}  responses.BulkResponse
// @Failure      400      {object}  platformerrors.HTTPErrorResponse
// @Security     BearerAuth
// @Router       /v1/media/bulk/delete [post]
func (h *MediaHandler) BulkDelete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req requests.BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, invalid(c, codeInvalidBody, "ids is required", err))
		return
	}

	result, err := h.service.BulkDelete(c.Request.Context(), actor, req.IDs)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, responses.NewBulkResponse(result))
}

// BulkTags godoc
// @Summary      Replace tags on many media records
// @Tags         media
// @Accept       json
// @Produce      json
// @Param        request  body      requests.BulkTagsRequest  true  "IDs and tags"
// @Success      200      {object}  responses.BulkResponse
// @Failure      400      {object}  platformerrors.HTTPErrorResponse
// @Security     BearerAuth
// @Router       /v1/media/bulk/tags [post]
func (h *MediaHandler) BulkTags(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req requests.BulkTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, invalid(c, codeInvalidBody, "ids is required", err))
		return
	}

	result, err := h.service.BulkUpdateTags(c.Request.Context(), actor, req.IDs, req.Tags)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, responses.NewBulkResponse(result))
}

// Cleanup godoc
// @Summary      Sweep stale uploads
// @Description  Deletes records still uploading or failed that are older than max_age_hours. Admin only.
// @Tags         media
// @Accept       json
// @Produce      json
// @Param        request  body      requests.CleanupRequest  true  "Age threshold"
// @Success      200      {object}  media.SweepResult
// @Failure      400      {object}  platformerrors.HTTPErrorResponse
// @Failure      403      {object}  platformerrors.HTTPErrorResponse
// @Security     BearerAuth
// @Router       /v1/media/cleanup [post]
func (h *MediaHandler) Cleanup(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req requests.CleanupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, invalid(c, codeInvalidBody, "max_age_hours is required", err))
		return
	}

	result, err := h.service.Sweep(c.Request.Context(), actor, req.MaxAgeHours)
	if err != nil {
		h.writeError(c, err)
		return
	}
	metrics.RecordSweep(result.DeletedCount)
	c.JSON(http.StatusOK, result)
}

func (h *MediaHandler) actor(c *gin.Context) (media.Actor, bool) {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		h.writeError(c, platformerrors.NewError(c.Request.Context(), platformerrors.LayerHandler,
			platformerrors.ErrorTypeUnauthorized, "request has no authenticated actor", nil, codeActorUnbound))
		return media.Actor{}, false
	}
	return actor, true
}

// mediaID reads the :id path param. Anything that is not a media ULID cannot
// exist, so it is answered with NOT_FOUND without touching storage.
func (h *MediaHandler) mediaID(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if !mediaid.IsValid(id) {
		h.writeError(c, platformerrors.NewErrorWithContext(c.Request.Context(), platformerrors.LayerHandler,
			platformerrors.ErrorTypeNotFound, "media not found", nil, media.CodeNotFound, map[string]any{"media_id": id}))
		return "", false
	}
	return id, true
}

func (h *MediaHandler) writeError(c *gin.Context, err error) {
	platformerrors.WriteError(c, err, h.log)
}

func invalid(c *gin.Context, code, message string, err error) error {
	return platformerrors.NewError(c.Request.Context(), platformerrors.LayerHandler,
		platformerrors.ErrorTypeValidation, message, err, code)
}

func parseBool(raw string, fallback bool) (bool, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	return strconv.ParseBool(strings.TrimSpace(raw))
}

func kindLabel(kind media.Kind) string {
	if kind == "" {
		return "unknown"
	}
	return string(kind)
}

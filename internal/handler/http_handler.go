package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Mummayiz/Multi-user-Chat-app/internal/domain"
	"github.com/Mummayiz/Multi-user-Chat-app/internal/identity"
	"github.com/Mummayiz/Multi-user-Chat-app/pkg/log"
	"github.com/Mummayiz/Multi-user-Chat-app/pkg/middleware"
	"github.com/Mummayiz/Multi-user-Chat-app/pkg/response"
	"github.com/Mummayiz/Multi-user-Chat-app/pkg/storage"
)

// maxUploadSize caps a single file upload at 16 MiB.
const maxUploadSize = 16 << 20

// HTTPHandler handles account and file endpoints.
type HTTPHandler struct {
	identity       *identity.Service
	store          storage.Storage
	authMiddleware *middleware.AuthMiddleware
}

// NewHTTPHandler creates a new HTTP handler.
func NewHTTPHandler(idsvc *identity.Service, store storage.Storage, authMiddleware *middleware.AuthMiddleware) *HTTPHandler {
	return &HTTPHandler{
		identity:       idsvc,
		store:          store,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers all routes.
func (h *HTTPHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Register)
			auth.POST("/login", h.Login)
			auth.GET("/me", h.authMiddleware.RequireAuth(), h.Me)
		}

		files := api.Group("/files")
		{
			files.POST("", h.Upload)
			files.GET("/:name", h.Download)
		}
	}
}

// Health reports service liveness.
func (h *HTTPHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Register handles account registration.
func (h *HTTPHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid register request")
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.identity.Register(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrUsernameTaken) {
			response.Conflict(c, "username already exists")
			return
		}
		l.Error().Err(err).Msg("register failed")
		response.InternalError(c, "failed to register user")
		return
	}

	response.Created(c, result)
}

// Login handles account login.
func (h *HTTPHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid login request")
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.identity.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			response.Unauthorized(c, "invalid username or password")
			return
		}
		l.Error().Err(err).Msg("login failed")
		response.InternalError(c, "failed to login")
		return
	}

	response.Success(c, result)
}

// Me returns the authenticated session's identity.
func (h *HTTPHandler) Me(c *gin.Context) {
	username := middleware.GetUsername(c)
	if username == "" {
		response.Unauthorized(c, "unauthorized")
		return
	}
	response.Success(c, gin.H{
		"user_id":  middleware.GetUserID(c),
		"username": username,
	})
}

// Upload stores a multipart file under a fresh unique name and returns
// both the stored name and the original name for the file_message frame.
func (h *HTTPHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	header, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "missing file field")
		return
	}
	if header.Size > maxUploadSize {
		response.BadRequest(c, "file too large")
		return
	}
	original := filepath.Base(header.Filename)
	if original == "" || original == "." || original == "/" {
		response.BadRequest(c, "invalid filename")
		return
	}

	f, err := header.Open()
	if err != nil {
		l.Error().Err(err).Msg("open uploaded file failed")
		response.InternalError(c, "failed to read upload")
		return
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		l.Error().Err(err).Msg("detect content type failed")
		response.InternalError(c, "failed to read upload")
		return
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		l.Error().Err(err).Msg("rewind uploaded file failed")
		response.InternalError(c, "failed to read upload")
		return
	}

	stored := uuid.New().String() + filepath.Ext(original)
	if err := h.store.Write(ctx, stored, f, header.Size, mtype.String()); err != nil {
		l.Error().Err(err).Str("filename", stored).Msg("store upload failed")
		response.InternalError(c, "failed to store file")
		return
	}

	l.Info().
		Str("filename", stored).
		Str("original_name", original).
		Int64("size", header.Size).
		Str("content_type", mtype.String()).
		Msg("file uploaded")

	response.Created(c, &domain.UploadResponse{
		Filename:     stored,
		OriginalName: original,
	})
}

// Download streams a stored file back to the client.
func (h *HTTPHandler) Download(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	name := filepath.Base(c.Param("name"))
	if name == "" || name == "." || name == "/" {
		response.BadRequest(c, "invalid filename")
		return
	}

	rc, err := h.store.Read(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			response.NotFound(c, "file not found")
			return
		}
		l.Error().Err(err).Str("filename", name).Msg("read stored file failed")
		response.InternalError(c, "failed to read file")
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		l.Warn().Err(err).Str("filename", name).Msg("stream stored file interrupted")
	}
}

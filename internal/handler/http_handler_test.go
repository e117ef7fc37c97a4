package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/Mummayiz/Multi-user-Chat-app/internal/domain"
	"github.com/Mummayiz/Multi-user-Chat-app/internal/identity"
	"github.com/Mummayiz/Multi-user-Chat-app/internal/repository"
	"github.com/Mummayiz/Multi-user-Chat-app/pkg/jwt"
	"github.com/Mummayiz/Multi-user-Chat-app/pkg/middleware"
	"github.com/Mummayiz/Multi-user-Chat-app/pkg/storage"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Username]; ok {
		return repository.ErrUsernameExists
	}
	if user.ID == "" {
		user.ID = "id-" + user.Username
	}
	cp := *user
	r.users[user.Username] = &cp
	return nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := jwt.NewManager("test-secret", time.Hour, "chatrelay")
	idsvc := identity.NewService(&fakeUserRepo{users: make(map[string]*domain.User)}, tokens, 4)

	store, err := storage.NewLocalStorage(storage.LocalConfig{BasePath: t.TempDir()})
	require.NoError(t, err)

	h := NewHTTPHandler(idsvc, store, middleware.NewAuthMiddleware(tokens))
	r := gin.New()
	h.RegisterRoutes(r)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterAndLogin(t *testing.T) {
	r := newTestRouter(t)

	w := postJSON(t, r, "/api/v1/auth/register", gin.H{"username": "alice", "password": "hunter22"})
	require.Equal(t, http.StatusCreated, w.Code)

	// Duplicate registration is a conflict.
	w = postJSON(t, r, "/api/v1/auth/register", gin.H{"username": "alice", "password": "otherpass"})
	require.Equal(t, http.StatusConflict, w.Code)

	w = postJSON(t, r, "/api/v1/auth/login", gin.H{"username": "alice", "password": "hunter22"})
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data domain.AuthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, "alice", envelope.Data.Username)
	require.NotEmpty(t, envelope.Data.AccessToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	r := newTestRouter(t)

	w := postJSON(t, r, "/api/v1/auth/register", gin.H{"username": "alice", "password": "hunter22"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/api/v1/auth/login", gin.H{"username": "alice", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegister_MissingFields(t *testing.T) {
	r := newTestRouter(t)

	w := postJSON(t, r, "/api/v1/auth/register", gin.H{"username": "alice"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMe_RequiresToken(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	registered := postJSON(t, r, "/api/v1/auth/register", gin.H{"username": "alice", "password": "hunter22"})
	var envelope struct {
		Data domain.AuthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(registered.Body.Bytes(), &envelope))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+envelope.Data.AccessToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "alice")
}

func TestUploadThenDownload(t *testing.T) {
	r := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("hello from the chat"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/files", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var envelope struct {
		Data domain.UploadResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, "notes.txt", envelope.Data.OriginalName)
	require.NotEqual(t, "notes.txt", envelope.Data.Filename)
	require.True(t, strings.HasSuffix(envelope.Data.Filename, ".txt"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/files/"+envelope.Data.Filename, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "hello from the chat", w.Body.String())
}

func TestUpload_MissingFile(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/files", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDownload_NotFound(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/files/nope.txt", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}

package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"odoo_gallery/internal/domain/models"
	"odoo_gallery/internal/odoo"
	gallerysvc "odoo_gallery/internal/services/gallery_service"
	httptransport "odoo_gallery/internal/transport/http"
	"odoo_gallery/internal/transport/http/dto"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Login(ctx context.Context, serverURL, database, username, password string) (models.UserDetails, error) {
	args := m.Called(ctx, serverURL, database, username, password)
	return args.Get(0).(models.UserDetails), args.Error(1)
}

func (m *MockUserService) Details(ctx context.Context) (models.UserDetails, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.UserDetails), args.Error(1)
}

func (m *MockUserService) RecentSessions(ctx context.Context) ([]models.RecentSession, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.RecentSession), args.Error(1)
}

func (m *MockUserService) Logout() {
	m.Called()
}

type MockGalleryService struct {
	mock.Mock
}

func (m *MockGalleryService) FetchGallery(ctx context.Context, barcode string) (models.Gallery, error) {
	args := m.Called(ctx, barcode)
	return args.Get(0).(models.Gallery), args.Error(1)
}

func (m *MockGalleryService) AddImage(ctx context.Context, input dto.ImageUploadInput) (int, error) {
	args := m.Called(ctx, input)
	return args.Int(0), args.Error(1)
}

func (m *MockGalleryService) ModifyImage(ctx context.Context, img models.Image) error {
	args := m.Called(ctx, img)
	return args.Error(0)
}

func (m *MockGalleryService) RemoveImage(ctx context.Context, imageID int) error {
	args := m.Called(ctx, imageID)
	return args.Error(0)
}

func (m *MockGalleryService) TogglePublished(ctx context.Context, img models.Image) (models.Image, error) {
	args := m.Called(ctx, img)
	return args.Get(0).(models.Image), args.Error(1)
}

func (m *MockGalleryService) Reorder(ctx context.Context, gallery models.Gallery, order []int) (gallerysvc.ReorderResult, error) {
	args := m.Called(ctx, gallery, order)
	return args.Get(0).(gallerysvc.ReorderResult), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) GenerateTokens(user models.UserDetails) (*models.TokenPair, error) {
	args := m.Called(user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenPair), args.Error(1)
}

func (m *MockAuthService) RefreshTokens(refreshToken string) (*models.TokenPair, error) {
	args := m.Called(refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenPair), args.Error(1)
}

func (m *MockAuthService) RevokeAll(ctx context.Context, userID int) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type fixture struct {
	e       *echo.Echo
	routers *httptransport.Routers
	users   *MockUserService
	gallery *MockGalleryService
	auth    *MockAuthService
}

func setup(t *testing.T) *fixture {
	t.Helper()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	users := new(MockUserService)
	gallery := new(MockGalleryService)
	auth := new(MockAuthService)

	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}

	return &fixture{
		e:       e,
		routers: httptransport.NewRouter(log, users, gallery, auth),
		users:   users,
		gallery: gallery,
		auth:    auth,
	}
}

func (f *fixture) request(method, target, body string) (*httptest.ResponseRecorder, echo.Context) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return rec, f.e.NewContext(req, rec)
}

func TestLogin_Success(t *testing.T) {
	f := setup(t)

	user := models.UserDetails{UserID: 7, UserName: "Admin"}
	f.users.On("Login", mock.Anything, "https://erp.local", "prod", "admin", "secret").
		Return(user, nil)
	f.auth.On("GenerateTokens", user).
		Return(&models.TokenPair{UserID: 7, AccessToken: "acc", RefreshToken: "ref"}, nil)

	rec, c := f.request(http.MethodPost, "/api/v1/login",
		`{"server_url":"https://erp.local","database":"prod","username":"admin","password":"secret"}`)

	require.NoError(t, f.routers.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			AccessToken  string           `json:"access_token"`
			RefreshToken string           `json:"refresh_token"`
			User         dto.UserResponse `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "acc", resp.Data.AccessToken)
	assert.Equal(t, 7, resp.Data.User.UserID)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := setup(t)

	f.users.On("Login", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(models.UserDetails{}, fmt.Errorf("login: %w", odoo.ErrInvalidCredentials))

	rec, c := f.request(http.MethodPost, "/api/v1/login",
		`{"server_url":"https://erp.local","database":"prod","username":"admin","password":"wrong"}`)

	require.NoError(t, f.routers.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	f.auth.AssertNotCalled(t, "GenerateTokens", mock.Anything)
}

func TestLogin_MissingFields(t *testing.T) {
	f := setup(t)

	rec, c := f.request(http.MethodPost, "/api/v1/login", `{"username":"admin"}`)

	require.NoError(t, f.routers.Login(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.users.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetGallery_Success(t *testing.T) {
	f := setup(t)

	f.gallery.On("FetchGallery", mock.Anything, "2100000012345").
		Return(models.Gallery{
			ProductID:   42,
			ProductName: "Shoe",
			Status:      "success",
			Images: []models.Image{
				{ID: 1, Name: "Front", Sequence: 1, IsPublished: true, FileName: "front"},
			},
		}, nil)

	rec, c := f.request(http.MethodGet, "/", "")
	c.SetPath("/api/v1/products/:barcode/images")
	c.SetParamNames("barcode")
	c.SetParamValues("2100000012345")

	require.NoError(t, f.routers.GetGallery(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.GalleryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 42, resp.ProductID)
	require.Len(t, resp.Images, 1)
	assert.Equal(t, "Front", resp.Images[0].Name)
}

func TestGetGallery_SessionRequired(t *testing.T) {
	f := setup(t)

	f.gallery.On("FetchGallery", mock.Anything, "2100000012345").
		Return(models.Gallery{}, fmt.Errorf("fetch: %w", odoo.ErrSessionMissing))

	rec, c := f.request(http.MethodGet, "/", "")
	c.SetPath("/api/v1/products/:barcode/images")
	c.SetParamNames("barcode")
	c.SetParamValues("2100000012345")

	require.NoError(t, f.routers.GetGallery(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUploadImage_Success(t *testing.T) {
	f := setup(t)

	f.gallery.On("AddImage", mock.Anything, dto.ImageUploadInput{
		ProductID: 42,
		Name:      "Back",
		ImageData: "aGVsbG8=",
	}).Return(31, nil)

	rec, c := f.request(http.MethodPost, "/", `{"name":"Back","image_data":"aGVsbG8="}`)
	c.SetPath("/api/v1/products/:product_id/images")
	c.SetParamNames("product_id")
	c.SetParamValues("42")

	require.NoError(t, f.routers.UploadImage(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"image_id":31`)
}

func TestUploadImage_DuplicateName(t *testing.T) {
	f := setup(t)

	f.gallery.On("AddImage", mock.Anything, mock.Anything).
		Return(0, fmt.Errorf("add: %w", odoo.ErrDuplicateImageName))

	rec, c := f.request(http.MethodPost, "/", `{"name":"Back","image_data":"aGVsbG8="}`)
	c.SetPath("/api/v1/products/:product_id/images")
	c.SetParamNames("product_id")
	c.SetParamValues("42")

	require.NoError(t, f.routers.UploadImage(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUploadImage_BadProductID(t *testing.T) {
	f := setup(t)

	rec, c := f.request(http.MethodPost, "/", `{"name":"Back","image_data":"aGVsbG8="}`)
	c.SetPath("/api/v1/products/:product_id/images")
	c.SetParamNames("product_id")
	c.SetParamValues("abc")

	require.NoError(t, f.routers.UploadImage(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.gallery.AssertNotCalled(t, "AddImage", mock.Anything, mock.Anything)
}

func TestUpdateImage_Success(t *testing.T) {
	f := setup(t)

	expected := models.Image{
		ID:          31,
		Name:        "Back",
		Sequence:    2,
		ImageData:   "aGVsbG8=",
		IsPublished: true,
		FileName:    "back",
	}
	f.gallery.On("ModifyImage", mock.Anything, expected).Return(nil)

	rec, c := f.request(http.MethodPut, "/",
		`{"name":"Back","sequence":2,"image_data":"aGVsbG8=","is_published":true,"file_name":"back"}`)
	c.SetPath("/api/v1/images/:id")
	c.SetParamNames("id")
	c.SetParamValues("31")

	require.NoError(t, f.routers.UpdateImage(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTogglePublish_ReturnsUpdatedRecord(t *testing.T) {
	f := setup(t)

	f.gallery.On("TogglePublished", mock.Anything, mock.Anything).
		Return(models.Image{ID: 31, Name: "Back", Sequence: 2, IsPublished: true}, nil)

	rec, c := f.request(http.MethodPost, "/",
		`{"name":"Back","sequence":2,"image_data":"aGVsbG8=","is_published":false}`)
	c.SetPath("/api/v1/images/:id/publish")
	c.SetParamNames("id")
	c.SetParamValues("31")

	require.NoError(t, f.routers.TogglePublish(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.ImageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.IsPublished)
}

func TestReorderImages_PartialFailure(t *testing.T) {
	f := setup(t)

	gallery := models.Gallery{
		ProductID: 42,
		Images: []models.Image{
			{ID: 1, Sequence: 1},
			{ID: 2, Sequence: 2},
			{ID: 3, Sequence: 3},
		},
	}
	f.gallery.On("FetchGallery", mock.Anything, "2100000012345").Return(gallery, nil)
	f.gallery.On("Reorder", mock.Anything, gallery, []int{3, 1, 2}).
		Return(gallerysvc.ReorderResult{
			Updated: []int{1, 3},
			Failed:  map[int]error{2: fmt.Errorf("write rejected")},
		}, nil)

	rec, c := f.request(http.MethodPut, "/",
		`{"barcode":"2100000012345","image_ids":[3,1,2]}`)
	c.SetPath("/api/v1/products/:product_id/images/order")
	c.SetParamNames("product_id")
	c.SetParamValues("42")

	require.NoError(t, f.routers.ReorderImages(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.ReorderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []int{1, 3}, resp.Updated)
	assert.Contains(t, resp.Failed, 2)
}

func TestReorderImages_BarcodeMismatch(t *testing.T) {
	f := setup(t)

	f.gallery.On("FetchGallery", mock.Anything, "2100000012345").
		Return(models.Gallery{ProductID: 99}, nil)

	rec, c := f.request(http.MethodPut, "/",
		`{"barcode":"2100000012345","image_ids":[1,2]}`)
	c.SetPath("/api/v1/products/:product_id/images/order")
	c.SetParamNames("product_id")
	c.SetParamValues("42")

	require.NoError(t, f.routers.ReorderImages(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.gallery.AssertNotCalled(t, "Reorder", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteImage_Success(t *testing.T) {
	f := setup(t)

	f.gallery.On("RemoveImage", mock.Anything, 31).Return(nil)

	rec, c := f.request(http.MethodDelete, "/", "")
	c.SetPath("/api/v1/images/:id")
	c.SetParamNames("id")
	c.SetParamValues("31")

	require.NoError(t, f.routers.DeleteImage(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMe_Cached(t *testing.T) {
	f := setup(t)

	f.users.On("Details", mock.Anything).
		Return(models.UserDetails{UserID: 7, UserName: "Admin", ImageData: "img=="}, nil)

	rec, c := f.request(http.MethodGet, "/api/v1/me", "")

	require.NoError(t, f.routers.Me(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_name":"Admin"`)
}

func TestRecentSessions(t *testing.T) {
	f := setup(t)

	f.users.On("RecentSessions", mock.Anything).
		Return([]models.RecentSession{
			{ID: 7, Username: "admin", ServerURL: "https://erp.local", Database: "prod", LastLogin: time.Now()},
		}, nil)

	rec, c := f.request(http.MethodGet, "/api/v1/sessions/recent", "")

	require.NoError(t, f.routers.RecentSessions(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []dto.RecentSessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "admin", resp[0].Username)
}

func TestRefresh_InvalidToken(t *testing.T) {
	f := setup(t)

	f.auth.On("RefreshTokens", "stale").Return(nil, fmt.Errorf("token expired"))

	rec, c := f.request(http.MethodPost, "/api/v1/refresh", `{"refresh_token":"stale"}`)

	err := f.routers.Refresh(c)
	require.Error(t, err)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	_ = rec
}

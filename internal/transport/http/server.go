package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"odoo_gallery/internal/domain/models"
	"odoo_gallery/internal/lib/logger/sl"
	"odoo_gallery/internal/odoo"
	gallerysvc "odoo_gallery/internal/services/gallery_service"
	"odoo_gallery/internal/transport/http/dto"
	"odoo_gallery/internal/transport/http/dto/request"
	"odoo_gallery/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"

	_ "odoo_gallery/docs"
)

type UserService interface {
	Login(ctx context.Context, serverURL, database, username, password string) (models.UserDetails, error)
	Details(ctx context.Context) (models.UserDetails, error)
	RecentSessions(ctx context.Context) ([]models.RecentSession, error)
	Logout()
}

type GalleryService interface {
	FetchGallery(ctx context.Context, barcode string) (models.Gallery, error)
	AddImage(ctx context.Context, input dto.ImageUploadInput) (int, error)
	ModifyImage(ctx context.Context, img models.Image) error
	RemoveImage(ctx context.Context, imageID int) error
	TogglePublished(ctx context.Context, img models.Image) (models.Image, error)
	Reorder(ctx context.Context, gallery models.Gallery, order []int) (gallerysvc.ReorderResult, error)
}

type AuthService interface {
	GenerateTokens(user models.UserDetails) (*models.TokenPair, error)
	RefreshTokens(refreshToken string) (*models.TokenPair, error)
	RevokeAll(ctx context.Context, userID int) error
}

type Routers struct {
	log            *slog.Logger
	UserService    UserService
	GalleryService GalleryService
	AuthService    AuthService
}

func NewRouter(log *slog.Logger, userService UserService, galleryService GalleryService, authService AuthService) *Routers {
	return &Routers{
		log:            log,
		UserService:    userService,
		GalleryService: galleryService,
		AuthService:    authService,
	}
}

// Login godoc
// @Summary Аутентификация в Odoo
// @Description Вход по адресу сервера, базе, логину и паролю. Возвращает JWT-токены и данные пользователя.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Данные для входа"
// @Success 200 {object} response.Response "Успешный вход (токены и пользователь)"
// @Failure 400 {object} response.ErrorResponse "Неверный формат запроса"
// @Failure 401 {object} response.ErrorResponse "Ошибка аутентификации"
// @Router /api/v1/login [post]
func (r *Routers) Login(c echo.Context) error {
	const op = "http.routers.Login"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.LoginRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("invalid format request", slog.String("username", req.Username))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	user, err := r.UserService.Login(c.Request().Context(), req.ServerURL, req.Database, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, odoo.ErrInvalidCredentials) {
			log.Warn("login rejected", slog.String("username", req.Username))
			return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
		}
		log.Error("login failed", sl.Err(err))
		return c.JSON(http.StatusBadGateway, response.ErrOdooUnavailable)
	}

	tokens, err := r.AuthService.GenerateTokens(user)
	if err != nil {
		log.Error("failed to generate tokens", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Status: "error",
			Error:  "internal_error",
		})
	}

	return c.JSON(http.StatusOK, response.Response{
		Status: "success",
		Data: map[string]any{
			"user":          dto.ToUserResponse(user),
			"access_token":  tokens.AccessToken,
			"refresh_token": tokens.RefreshToken,
		},
	})
}

// Refresh godoc
// @Summary Обновление пары токенов
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.RefreshRequest true "Refresh-токен"
// @Success 200 {object} models.TokenPair
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /api/v1/refresh [post]
func (r *Routers) Refresh(c echo.Context) error {
	const op = "http.routers.Refresh"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.RefreshRequest

	if err := c.Bind(&req); err != nil {
		log.Error("validation bind", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	newTokens, err := r.AuthService.RefreshTokens(req.RefreshToken)
	if err != nil {
		log.Error("error refresh tokens", sl.Err(err))
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}

	return c.JSON(http.StatusOK, newTokens)
}

// Logout godoc
// @Summary Завершение сессии
// @Description Сбрасывает сессию Odoo и отзывает refresh-токены пользователя
// @Tags auth
// @Produce json
// @Success 200 {object} response.Response
// @Security ApiKeyAuth
// @Router /api/v1/logout [post]
func (r *Routers) Logout(c echo.Context) error {
	const op = "http.routers.Logout"

	log := r.log.With(
		slog.String("op", op),
	)

	user, err := r.UserService.Details(c.Request().Context())
	if err == nil {
		if err := r.AuthService.RevokeAll(c.Request().Context(), user.UserID); err != nil {
			log.Warn("failed to revoke tokens", sl.Err(err))
		}
	}

	r.UserService.Logout()

	return c.JSON(http.StatusOK, response.Response{Status: "success"})
}

// GetGallery godoc
// @Summary Галерея изображений товара
// @Description Возвращает изображения варианта товара по штрихкоду, отсортированные по sequence
// @Tags gallery
// @Produce json
// @Param barcode path string true "Штрихкод товара"
// @Success 200 {object} dto.GalleryResponse
// @Failure 400 {object} response.ErrorResponse "Пустой штрихкод"
// @Failure 401 {object} response.ErrorResponse "Нет активной сессии"
// @Failure 502 {object} response.ErrorResponse "Odoo недоступен или ответил некорректно"
// @Security ApiKeyAuth
// @Router /api/v1/products/{barcode}/images [get]
func (r *Routers) GetGallery(c echo.Context) error {
	const op = "http.routers.GetGallery"

	log := r.log.With(
		slog.String("op", op),
	)

	gallery, err := r.GalleryService.FetchGallery(c.Request().Context(), c.Param("barcode"))
	if err != nil {
		return r.galleryError(c, log, err)
	}

	return c.JSON(http.StatusOK, dto.ToGalleryResponse(gallery))
}

// UploadImage godoc
// @Summary Добавление изображения к товару
// @Description Загружает base64-изображение в галерею товара
// @Tags gallery
// @Accept json
// @Produce json
// @Param product_id path int true "Идентификатор варианта товара"
// @Param request body dto.ImageUploadInput true "Название и данные изображения"
// @Success 201 {object} response.Response "Идентификатор созданного изображения"
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Имя уже занято в этой галерее"
// @Failure 502 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/products/{product_id}/images [post]
func (r *Routers) UploadImage(c echo.Context) error {
	const op = "http.routers.UploadImage"

	log := r.log.With(
		slog.String("op", op),
	)

	productID, err := strconv.Atoi(c.Param("product_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "product_id must be an integer"))
	}

	var req dto.ImageUploadInput

	if err := c.Bind(&req); err != nil {
		log.Error("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	req.ProductID = productID

	if err := c.Validate(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	imageID, err := r.GalleryService.AddImage(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, odoo.ErrDuplicateImageName) {
			log.Warn("duplicate image name", slog.String("name", req.Name))
			return c.JSON(http.StatusConflict, response.ErrDuplicateImageName)
		}
		return r.galleryError(c, log, err)
	}

	log.Info("image uploaded", slog.Int("image_id", imageID))

	return c.JSON(http.StatusCreated, response.Response{
		Status: "success",
		Data:   map[string]int{"image_id": imageID},
	})
}

// UpdateImage godoc
// @Summary Обновление записи изображения
// @Description Перезаписывает запись изображения целиком: название, порядок, пиксели, видимость
// @Tags gallery
// @Accept json
// @Produce json
// @Param id path int true "Идентификатор изображения"
// @Param request body dto.ImageUpdateRequest true "Полная запись изображения"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/images/{id} [put]
func (r *Routers) UpdateImage(c echo.Context) error {
	const op = "http.routers.UpdateImage"

	log := r.log.With(
		slog.String("op", op),
	)

	imageID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "image id must be an integer"))
	}

	var req dto.ImageUpdateRequest

	if err := c.Bind(&req); err != nil {
		log.Error("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	if err := r.GalleryService.ModifyImage(c.Request().Context(), req.ToDomain(imageID)); err != nil {
		return r.galleryError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.Response{Status: "success"})
}

// TogglePublish godoc
// @Summary Переключение видимости изображения
// @Description Переключает is_published и перезаписывает запись; при отказе сервера возвращается исходное состояние
// @Tags gallery
// @Accept json
// @Produce json
// @Param id path int true "Идентификатор изображения"
// @Param request body dto.ImageUpdateRequest true "Текущая запись изображения"
// @Success 200 {object} dto.ImageResponse "Запись после переключения"
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/images/{id}/publish [post]
func (r *Routers) TogglePublish(c echo.Context) error {
	const op = "http.routers.TogglePublish"

	log := r.log.With(
		slog.String("op", op),
	)

	imageID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "image id must be an integer"))
	}

	var req dto.ImageUpdateRequest

	if err := c.Bind(&req); err != nil {
		log.Error("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	updated, err := r.GalleryService.TogglePublished(c.Request().Context(), req.ToDomain(imageID))
	if err != nil {
		return r.galleryError(c, log, err)
	}

	return c.JSON(http.StatusOK, dto.ImageResponse{
		ID:          updated.ID,
		Name:        updated.Name,
		Sequence:    updated.Sequence,
		ImageData:   updated.ImageData,
		IsPublished: updated.IsPublished,
		FileName:    updated.FileName,
	})
}

// ReorderImages godoc
// @Summary Пересортировка галереи
// @Description Принимает идентификаторы изображений в желаемом порядке и отправляет по одной записи на каждое изменившееся. Частичный отказ — штатный исход и отражается в ответе.
// @Tags gallery
// @Accept json
// @Produce json
// @Param product_id path int true "Идентификатор варианта товара"
// @Param request body dto.ReorderRequest true "Штрихкод и новый порядок"
// @Success 200 {object} dto.ReorderResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/products/{product_id}/images/order [put]
func (r *Routers) ReorderImages(c echo.Context) error {
	const op = "http.routers.ReorderImages"

	log := r.log.With(
		slog.String("op", op),
	)

	productID, err := strconv.Atoi(c.Param("product_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "product_id must be an integer"))
	}

	var req dto.ReorderRequest

	if err := c.Bind(&req); err != nil {
		log.Error("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	gallery, err := r.GalleryService.FetchGallery(c.Request().Context(), req.Barcode)
	if err != nil {
		return r.galleryError(c, log, err)
	}

	if gallery.ProductID != productID {
		log.Warn("barcode resolves to another product",
			slog.Int("path_product_id", productID),
			slog.Int("gallery_product_id", gallery.ProductID),
		)
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "barcode does not match product_id"))
	}

	result, err := r.GalleryService.Reorder(c.Request().Context(), gallery, req.ImageIDs)
	if err != nil {
		return r.galleryError(c, log, err)
	}

	resp := dto.ReorderResponse{Updated: result.Updated}
	if len(result.Failed) > 0 {
		resp.Failed = make(map[int]string, len(result.Failed))
		for id, ferr := range result.Failed {
			resp.Failed[id] = ferr.Error()
		}
	}

	return c.JSON(http.StatusOK, resp)
}

// DeleteImage godoc
// @Summary Удаление изображения
// @Tags gallery
// @Param id path int true "Идентификатор изображения"
// @Success 204
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/images/{id} [delete]
func (r *Routers) DeleteImage(c echo.Context) error {
	const op = "http.routers.DeleteImage"

	log := r.log.With(
		slog.String("op", op),
	)

	imageID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "image id must be an integer"))
	}

	if err := r.GalleryService.RemoveImage(c.Request().Context(), imageID); err != nil {
		return r.galleryError(c, log, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// Me godoc
// @Summary Данные текущего пользователя
// @Description Возвращает имя и аватар пользователя активной сессии
// @Tags users
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/me [get]
func (r *Routers) Me(c echo.Context) error {
	const op = "http.routers.Me"

	log := r.log.With(
		slog.String("op", op),
	)

	user, err := r.UserService.Details(c.Request().Context())
	if err != nil {
		return r.galleryError(c, log, err)
	}

	return c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// RecentSessions godoc
// @Summary Недавние сессии
// @Description Возвращает до пяти последних входов, новые впереди
// @Tags users
// @Produce json
// @Success 200 {array} dto.RecentSessionResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/sessions/recent [get]
func (r *Routers) RecentSessions(c echo.Context) error {
	const op = "http.routers.RecentSessions"

	log := r.log.With(
		slog.String("op", op),
	)

	sessions, err := r.UserService.RecentSessions(c.Request().Context())
	if err != nil {
		log.Error("failed to list recent sessions", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Status: "error",
			Error:  "internal_error",
		})
	}

	return c.JSON(http.StatusOK, dto.ToRecentSessionResponses(sessions))
}

// galleryError переводит ошибки доменного слоя в HTTP-статусы
func (r *Routers) galleryError(c echo.Context, log *slog.Logger, err error) error {
	switch {
	case errors.Is(err, odoo.ErrSessionMissing):
		return c.JSON(http.StatusUnauthorized, response.ErrSessionRequired)
	case errors.Is(err, gallerysvc.ErrEmptyImageName),
		errors.Is(err, gallerysvc.ErrEmptyBarcode),
		errors.Is(err, gallerysvc.ErrUnknownImage):
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	default:
		log.Error("odoo call failed", sl.Err(err))
		return c.JSON(http.StatusBadGateway, response.ErrOdooUnavailable)
	}
}

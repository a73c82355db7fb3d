package odoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"odoo_gallery/internal/domain/models"
	"odoo_gallery/internal/lib/logger/sl"
	"odoo_gallery/internal/odoo/rpc"
)

// Удаленные модели и методы, которые потребляет клиент
const (
	modelProduct    = "product.product"
	modelMultiImage = "base_multi_image.image"
	modelUsers      = "res.users"

	fnVariantImages = "get_variant_images_endpoint"
	fnUploadImage   = "upload_product_image_endpoint"
	fnUserImage     = "get_user_image_endpoint"
	fnWrite         = "write"
	fnUnlink        = "unlink"
)

// Caller — транспортная граница клиента; подменяется в тестах.
type Caller interface {
	Call(ctx context.Context, baseURL, service, method string, args []any) (json.RawMessage, error)
}

// Client выполняет аутентифицированные операции над галереей товара.
// Состав аргументов execute всегда один: [база, uid, пароль, модель,
// функция, ...аргументы функции].
type Client struct {
	log      *slog.Logger
	rpc      Caller
	sessions *SessionStore
}

func NewClient(log *slog.Logger, caller Caller, sessions *SessionStore) *Client {
	return &Client{
		log:      log,
		rpc:      caller,
		sessions: sessions,
	}
}

func (c *Client) Sessions() *SessionStore {
	return c.sessions
}

// Login выполняет common/login. Ноль или нечитаемый ответ — отказ во
// входе, сессия при этом не трогается.
func (c *Client) Login(ctx context.Context, serverURL, database, username, password string) (int, error) {
	const op = "odoo.Client.Login"

	log := c.log.With(
		slog.String("op", op),
		slog.String("database", database),
		slog.String("username", username),
	)

	log.Info("attempting to login")

	raw, err := c.rpc.Call(ctx, serverURL, rpc.ServiceCommon, "login", []any{database, username, password})
	if err != nil {
		if errors.Is(err, rpc.ErrEmptyResult) {
			log.Warn("login response unreadable", sl.Err(err))
			return 0, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	userID, err := decodeLoginResult(raw)
	if err != nil {
		log.Warn("login response unreadable", sl.Err(err))
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if userID == 0 {
		log.Info("login rejected")
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	c.sessions.Set(models.Session{
		ServerURL: serverURL,
		Database:  database,
		UserID:    userID,
		Password:  password,
	})

	log.Info("logged in", slog.Int("user_id", userID))

	return userID, nil
}

// FetchGallery загружает галерею по штрихкоду, без кэширования.
func (c *Client) FetchGallery(ctx context.Context, barcode string) (models.Gallery, error) {
	const op = "odoo.Client.FetchGallery"

	raw, err := c.execute(ctx, modelProduct, fnVariantImages, barcode)
	if err != nil {
		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}

	gallery, err := decodeGallery(raw)
	if err != nil {
		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}

	return gallery, nil
}

// AddImage загружает новое изображение и возвращает присвоенный сервером
// идентификатор. Нарушение уникальности имени распознается по debug-тексту.
func (c *Client) AddImage(ctx context.Context, productID int, name, fileName, imageData string, sequence int) (int, error) {
	const op = "odoo.Client.AddImage"

	raw, err := c.execute(ctx, modelProduct, fnUploadImage, productID, name, fileName, imageData, sequence)
	if err != nil {
		var fault *rpc.ServerFault
		if errors.As(err, &fault) && isDuplicateName(fault.Debug) {
			return 0, fmt.Errorf("%s: %w", op, ErrDuplicateImageName)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	imageID, err := decodeAddResult(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return imageID, nil
}

// WriteImage перезаписывает запись изображения целиком.
func (c *Client) WriteImage(ctx context.Context, img models.Image) error {
	const op = "odoo.Client.WriteImage"

	raw, err := c.execute(ctx, modelMultiImage, fnWrite, []int{img.ID}, img.WriteValues())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := decodeAck(raw); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// UnlinkImage безвозвратно удаляет изображение по идентификатору.
func (c *Client) UnlinkImage(ctx context.Context, imageID int) error {
	const op = "odoo.Client.UnlinkImage"

	raw, err := c.execute(ctx, modelMultiImage, fnUnlink, []int{imageID})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := decodeAck(raw); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// FetchUserDetails запрашивает имя и аватар текущего пользователя.
func (c *Client) FetchUserDetails(ctx context.Context) (models.UserDetails, error) {
	const op = "odoo.Client.FetchUserDetails"

	sess, ok := c.sessions.Current()
	if !ok {
		return models.UserDetails{}, fmt.Errorf("%s: %w", op, ErrSessionMissing)
	}

	raw, err := c.execute(ctx, modelUsers, fnUserImage, sess.UserID)
	if err != nil {
		return models.UserDetails{}, fmt.Errorf("%s: %w", op, err)
	}

	details, err := decodeUserDetails(raw, sess.UserID)
	if err != nil {
		return models.UserDetails{}, fmt.Errorf("%s: %w", op, err)
	}

	return details, nil
}

// execute выполняет object/execute от имени активной сессии. Без сессии
// падает сразу, не выходя в сеть.
func (c *Client) execute(ctx context.Context, model, function string, args ...any) (json.RawMessage, error) {
	sess, ok := c.sessions.Current()
	if !ok {
		return nil, ErrSessionMissing
	}

	callArgs := append([]any{sess.Database, sess.UserID, sess.Password, model, function}, args...)

	return c.rpc.Call(ctx, sess.ServerURL, rpc.ServiceObject, "execute", callArgs)
}

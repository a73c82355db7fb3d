package odoo

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"odoo_gallery/internal/domain/models"
	"odoo_gallery/internal/lib/slug"
)

// Маркер нарушения уникальности в debug-тексте ошибки Odoo (сообщение
// PostgreSQL, которое сервер вкладывает в error.data.debug)
const duplicateNameMarker = "duplicate key value violates unique constraint"

// rawImage — запись изображения в том виде, в котором ее отдает сервер.
// file_name полиморфно: строка либо boolean false ("не задано").
type rawImage struct {
	ID          *int            `json:"id"`
	Name        *string         `json:"name"`
	Sequence    *int            `json:"sequence"`
	ImageData   *string         `json:"image_data"`
	IsPublished *bool           `json:"is_published"`
	FileName    json.RawMessage `json:"file_name"`
}

// toImage переводит сырую запись в доменную. Записи без обязательных полей
// отбрасываются: сервер отдает частично заполненные строки, и одна из них
// не должна ронять всю галерею.
func (r rawImage) toImage() (models.Image, bool) {
	if r.ID == nil || r.Name == nil || r.Sequence == nil || r.ImageData == nil || r.IsPublished == nil {
		return models.Image{}, false
	}

	return models.Image{
		ID:          *r.ID,
		Name:        *r.Name,
		Sequence:    *r.Sequence,
		ImageData:   *r.ImageData,
		IsPublished: *r.IsPublished,
		FileName:    decodeFileName(r.FileName, *r.Name),
	}, true
}

// decodeFileName сводит полиморфное file_name к каноничной строке.
// false, "false" и любое нестроковое значение означают "не задано" —
// тогда имя файла выводится из отображаемого имени.
func decodeFileName(raw json.RawMessage, name string) string {
	if len(raw) > 0 {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "false" {
			return s
		}
	}
	return slug.Make(name)
}

type rawGallery struct {
	Status        string     `json:"status"`
	Message       string     `json:"message"`
	ProductID     *int       `json:"product_id"`
	ProductName   string     `json:"product_name"`
	ProductImages []rawImage `json:"product_images"`
}

func decodeGallery(raw json.RawMessage) (models.Gallery, error) {
	var decoded rawGallery
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return models.Gallery{}, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	if decoded.ProductID == nil {
		return models.Gallery{}, fmt.Errorf("%w: product_id missing", ErrBadResponse)
	}

	gallery := models.Gallery{
		ProductID:   *decoded.ProductID,
		ProductName: decoded.ProductName,
		Status:      decoded.Status,
		Message:     decoded.Message,
		Images:      make([]models.Image, 0, len(decoded.ProductImages)),
	}

	for _, r := range decoded.ProductImages {
		if img, ok := r.toImage(); ok {
			gallery.Images = append(gallery.Images, img)
		}
	}

	sort.SliceStable(gallery.Images, func(i, j int) bool {
		return gallery.Images[i].Sequence < gallery.Images[j].Sequence
	})

	return gallery, nil
}

// decodeLoginResult возвращает идентификатор пользователя. Ноль — это
// валидный ответ сервера "вход отклонен", а не сбой протокола.
func decodeLoginResult(raw json.RawMessage) (int, error) {
	var id int
	if err := json.Unmarshal(raw, &id); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return id, nil
}

// decodeAck разбирает подтверждение write и unlink: целое 1 — успех,
// любое другое целое — отказ. Оба вызова используют одно и то же правило.
func decodeAck(raw json.RawMessage) error {
	var ack int
	if err := json.Unmarshal(raw, &ack); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if ack != 1 {
		return fmt.Errorf("%w: ack %d", ErrNotAcknowledged, ack)
	}
	return nil
}

type rawAddResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	ImageID *int   `json:"image_id"`
}

func decodeAddResult(raw json.RawMessage) (int, error) {
	var decoded rawAddResult
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if decoded.ImageID == nil {
		if decoded.Message != "" {
			return 0, fmt.Errorf("upload rejected: %s", decoded.Message)
		}
		return 0, fmt.Errorf("%w: image_id missing", ErrBadResponse)
	}
	return *decoded.ImageID, nil
}

type rawUserDetails struct {
	UserID    *int   `json:"user_id"`
	UserName  string `json:"user_name"`
	ImageData string `json:"image_data"`
}

func decodeUserDetails(raw json.RawMessage, fallbackID int) (models.UserDetails, error) {
	var decoded rawUserDetails
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return models.UserDetails{}, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	details := models.UserDetails{
		UserID:    fallbackID,
		UserName:  decoded.UserName,
		ImageData: decoded.ImageData,
	}
	if decoded.UserID != nil {
		details.UserID = *decoded.UserID
	}

	return details, nil
}

func isDuplicateName(debug string) bool {
	return strings.Contains(debug, duplicateNameMarker)
}

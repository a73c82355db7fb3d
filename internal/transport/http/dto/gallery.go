package dto

import "odoo_gallery/internal/domain/models"

// GalleryResponse представляет собой DTO для ответа с галереей товара
type GalleryResponse struct {
	ProductID   int             `json:"product_id"`   // Идентификатор варианта товара
	ProductName string          `json:"product_name"` // Название товара
	Status      string          `json:"status"`       // Статус ответа Odoo
	Message     string          `json:"message"`      // Сообщение Odoo
	Images      []ImageResponse `json:"images"`       // Изображения в порядке sequence
}

type ImageResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Sequence    int    `json:"sequence"`
	ImageData   string `json:"image_data"` // base64
	IsPublished bool   `json:"is_published"`
	FileName    string `json:"file_name"`
}

// ImageUploadInput содержит данные для загрузки нового изображения
type ImageUploadInput struct {
	ProductID int    `json:"product_id" validate:"required,min=1"`
	Name      string `json:"name" validate:"required"`
	ImageData string `json:"image_data" validate:"required,base64"`
}

// ImageUpdateRequest — полная запись изображения; сервер перезаписывает
// запись целиком, поэтому частичные патчи не принимаются
type ImageUpdateRequest struct {
	Name        string `json:"name" validate:"required"`
	Sequence    int    `json:"sequence" validate:"required,min=1"`
	ImageData   string `json:"image_data" validate:"required"`
	IsPublished bool   `json:"is_published"`
	FileName    string `json:"file_name"`
}

func (r ImageUpdateRequest) ToDomain(id int) models.Image {
	return models.Image{
		ID:          id,
		Name:        r.Name,
		Sequence:    r.Sequence,
		ImageData:   r.ImageData,
		IsPublished: r.IsPublished,
		FileName:    r.FileName,
	}
}

// ReorderRequest — новый порядок изображений, идентификаторы в желаемой
// последовательности. Штрихкод нужен, чтобы перечитать актуальную галерею
// перед пересчетом sequence.
type ReorderRequest struct {
	Barcode  string `json:"barcode" validate:"required"`
	ImageIDs []int  `json:"image_ids" validate:"required,min=1,unique"`
}

// ReorderResponse сообщает по каждому изображению, применилась ли новая
// позиция; частичный отказ — штатный исход
type ReorderResponse struct {
	Updated []int          `json:"updated"`
	Failed  map[int]string `json:"failed,omitempty"`
}

func ToGalleryResponse(g models.Gallery) GalleryResponse {
	resp := GalleryResponse{
		ProductID:   g.ProductID,
		ProductName: g.ProductName,
		Status:      g.Status,
		Message:     g.Message,
		Images:      make([]ImageResponse, 0, len(g.Images)),
	}
	for _, img := range g.Images {
		resp.Images = append(resp.Images, ImageResponse{
			ID:          img.ID,
			Name:        img.Name,
			Sequence:    img.Sequence,
			ImageData:   img.ImageData,
			IsPublished: img.IsPublished,
			FileName:    img.FileName,
		})
	}
	return resp
}

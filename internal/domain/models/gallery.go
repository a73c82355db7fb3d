package models

// Gallery представляет собой упорядоченную коллекцию изображений одного товара
type Gallery struct {
	ProductID   int     `json:"product_id"`   // Идентификатор варианта товара
	ProductName string  `json:"product_name"` // Название товара
	Status      string  `json:"status"`       // Статус ответа сервера
	Message     string  `json:"message"`      // Сообщение сервера
	Images      []Image `json:"images"`       // Изображения, отсортированные по Sequence
}

// ImageByID returns the image with the given server id.
func (g Gallery) ImageByID(id int) (Image, bool) {
	for _, img := range g.Images {
		if img.ID == id {
			return img, true
		}
	}
	return Image{}, false
}

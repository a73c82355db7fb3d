package models

// Image представляет одно изображение варианта товара в Odoo
type Image struct {
	ID          int    `json:"id"`           // Идентификатор записи base_multi_image.image (присваивается сервером)
	Name        string `json:"name"`         // Отображаемое имя, редактируется пользователем
	Sequence    int    `json:"sequence"`     // Порядок отображения, 1..N, сервер является источником истины
	ImageData   string `json:"image_data"`   // Пиксели изображения в base64
	IsPublished bool   `json:"is_published"` // Видимость на сайте
	FileName    string `json:"file_name"`    // Имя файла; при отсутствии на сервере выводится из Name
}

// ImageWrite содержит полную запись для base_multi_image.image.write.
// Сервер перезаписывает запись целиком, частичные патчи не отправляются.
type ImageWrite struct {
	Name        string `json:"name"`
	Sequence    int    `json:"sequence"`
	ImageData   string `json:"image_data"`
	IsPublished bool   `json:"is_published"`
	FileName    string `json:"file_name"`
}

func (i Image) WriteValues() ImageWrite {
	return ImageWrite{
		Name:        i.Name,
		Sequence:    i.Sequence,
		ImageData:   i.ImageData,
		IsPublished: i.IsPublished,
		FileName:    i.FileName,
	}
}

package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"odoo_gallery/internal/domain/models"
	"odoo_gallery/internal/lib/logger/sl"
	"odoo_gallery/internal/lib/slug"
	"odoo_gallery/internal/transport/http/dto"

	"github.com/google/uuid"
)

// Новые изображения уходят на сервер с фиксированным sequence 10 — так
// ведет себя боевой сервер, порядок пересчитывается при следующей загрузке
// галереи. Не менять на max(existing)+1 без согласования контракта.
const defaultImageSequence = 10

var (
	ErrEmptyBarcode   = errors.New("barcode is empty")
	ErrEmptyImageName = errors.New("image name is empty")
	ErrUnknownImage   = errors.New("image does not belong to the gallery")
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.3 --all
type GalleryProvider interface {
	FetchGallery(ctx context.Context, barcode string) (models.Gallery, error)
	AddImage(ctx context.Context, productID int, name, fileName, imageData string, sequence int) (int, error)
	WriteImage(ctx context.Context, img models.Image) error
	UnlinkImage(ctx context.Context, imageID int) error
}

type SessionReader interface {
	Current() (models.Session, bool)
}

type Journal interface {
	AppendEntry(ctx context.Context, entry models.JournalEntry) error
}

type ArchiveStorage interface {
	Save(ctx context.Context, subPath, fileName string, data []byte) (string, int64, error)
}

type GalleryService struct {
	log      *slog.Logger
	provider GalleryProvider
	sessions SessionReader
	journal  Journal
	archive  ArchiveStorage
}

// NewGalleryService создает сервис галереи. journal и archive опциональны:
// без них изменения просто не журналируются и не архивируются.
func NewGalleryService(log *slog.Logger, provider GalleryProvider, sessions SessionReader, journal Journal, archive ArchiveStorage) *GalleryService {
	return &GalleryService{
		log:      log,
		provider: provider,
		sessions: sessions,
		journal:  journal,
		archive:  archive,
	}
}

// FetchGallery загружает галерею по штрихкоду
func (s *GalleryService) FetchGallery(ctx context.Context, barcode string) (models.Gallery, error) {
	const op = "service.GalleryService.FetchGallery"
	log := s.log.With(
		slog.String("op", op),
		slog.String("barcode", barcode),
	)

	log.Info("fetching gallery")

	if strings.TrimSpace(barcode) == "" {
		return models.Gallery{}, fmt.Errorf("%s: %w", op, ErrEmptyBarcode)
	}

	gallery, err := s.provider.FetchGallery(ctx, barcode)
	if err != nil {
		log.Error("failed to fetch gallery", sl.Err(err))
		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("gallery fetched", slog.Int("images", len(gallery.Images)))
	return gallery, nil
}

// AddImage загружает новое изображение товара
func (s *GalleryService) AddImage(ctx context.Context, input dto.ImageUploadInput) (int, error) {
	const op = "service.GalleryService.AddImage"
	log := s.log.With(
		slog.String("op", op),
		slog.Int("product_id", input.ProductID),
	)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		log.Error("image name is required")
		return 0, fmt.Errorf("%s: %w", op, ErrEmptyImageName)
	}

	fileName := slug.Make(name)

	log.Info("uploading image", slog.String("file_name", fileName))

	imageID, err := s.provider.AddImage(ctx, input.ProductID, name, fileName, input.ImageData, defaultImageSequence)
	if err != nil {
		log.Error("failed to upload image", sl.Err(err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.archiveUpload(ctx, input.ProductID, fileName, input.ImageData)
	s.journalEntry(ctx, "add_image", input.ProductID, imageID, name)

	log.Info("image uploaded", slog.Int("image_id", imageID))
	return imageID, nil
}

// ModifyImage отправляет полную запись изображения. Вызывающая сторона
// обязана передать актуальную запись целиком, иначе остальные поля
// откатятся к значениям из отправленной копии.
func (s *GalleryService) ModifyImage(ctx context.Context, img models.Image) error {
	const op = "service.GalleryService.ModifyImage"
	log := s.log.With(
		slog.String("op", op),
		slog.Int("image_id", img.ID),
	)

	log.Info("modifying image")

	if err := s.provider.WriteImage(ctx, img); err != nil {
		log.Error("failed to modify image", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.journalEntry(ctx, "write_image", 0, img.ID, img.Name)

	log.Info("image modified")
	return nil
}

// RemoveImage удаляет изображение без возможности восстановления
func (s *GalleryService) RemoveImage(ctx context.Context, imageID int) error {
	const op = "service.GalleryService.RemoveImage"
	log := s.log.With(
		slog.String("op", op),
		slog.Int("image_id", imageID),
	)

	log.Info("removing image")

	if err := s.provider.UnlinkImage(ctx, imageID); err != nil {
		log.Error("failed to remove image", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.journalEntry(ctx, "unlink_image", 0, imageID, "")

	log.Info("image removed")
	return nil
}

// TogglePublished оптимистично переключает видимость; при отказе сервера
// возвращается исходная запись.
func (s *GalleryService) TogglePublished(ctx context.Context, img models.Image) (models.Image, error) {
	const op = "service.GalleryService.TogglePublished"
	log := s.log.With(
		slog.String("op", op),
		slog.Int("image_id", img.ID),
	)

	flipped := img
	flipped.IsPublished = !img.IsPublished

	log.Info("toggling published", slog.Bool("to", flipped.IsPublished))

	if err := s.provider.WriteImage(ctx, flipped); err != nil {
		log.Error("failed to toggle published, reverting", sl.Err(err))
		return img, fmt.Errorf("%s: %w", op, err)
	}

	s.journalEntry(ctx, "write_image", 0, img.ID, img.Name)

	return flipped, nil
}

// ReorderResult — исход пересортировки по каждому изображению. Пересылка
// не транзакционна: часть записей может примениться, часть нет.
type ReorderResult struct {
	Updated []int
	Failed  map[int]error
}

func (r ReorderResult) AllApplied() bool {
	return len(r.Failed) == 0
}

// Reorder пересчитывает sequence = позиция+1 и отправляет по одной записи
// на каждое изменившееся изображение.
func (s *GalleryService) Reorder(ctx context.Context, gallery models.Gallery, order []int) (ReorderResult, error) {
	const op = "service.GalleryService.Reorder"
	log := s.log.With(
		slog.String("op", op),
		slog.Int("product_id", gallery.ProductID),
		slog.Int("images", len(order)),
	)

	log.Info("reordering gallery")

	// pending — изображения, чья позиция меняется, с новым sequence
	pending := make(map[int]models.Image, len(order))
	for idx, id := range order {
		img, ok := gallery.ImageByID(id)
		if !ok {
			log.Error("unknown image in order", slog.Int("image_id", id))
			return ReorderResult{}, fmt.Errorf("%s: %w: %d", op, ErrUnknownImage, id)
		}

		newSeq := idx + 1
		if img.Sequence != newSeq {
			img.Sequence = newSeq
			pending[id] = img
		}
	}

	result := ReorderResult{
		Updated: make([]int, 0, len(pending)),
		Failed:  make(map[int]error),
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for id, img := range pending {
		wg.Add(1)
		go func(id int, img models.Image) {
			defer wg.Done()

			err := s.provider.WriteImage(ctx, img)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed[id] = err
				return
			}
			result.Updated = append(result.Updated, id)
		}(id, img)
	}

	wg.Wait()

	sort.Ints(result.Updated)

	if !result.AllApplied() {
		log.Warn("reorder applied partially",
			slog.Int("updated", len(result.Updated)),
			slog.Int("failed", len(result.Failed)),
		)
	} else {
		log.Info("reorder applied", slog.Int("updated", len(result.Updated)))
	}

	s.journalEntry(ctx, "reorder", gallery.ProductID, 0, fmt.Sprintf("updated=%d failed=%d", len(result.Updated), len(result.Failed)))

	return result, nil
}

// archiveUpload сохраняет локальную копию загруженных байтов; отказ архива
// не мешает операции
func (s *GalleryService) archiveUpload(ctx context.Context, productID int, fileName, imageData string) {
	if s.archive == nil {
		return
	}

	data, err := base64.StdEncoding.DecodeString(imageData)
	if err != nil {
		s.log.Warn("skip archive: image data is not base64", sl.Err(err))
		return
	}

	if _, _, err := s.archive.Save(ctx, fmt.Sprintf("%d", productID), fileName+".png", data); err != nil {
		s.log.Warn("failed to archive upload", sl.Err(err))
	}
}

// journalEntry пишет запись аудита; отказ журнала не мешает операции
func (s *GalleryService) journalEntry(ctx context.Context, operation string, productID, imageID int, detail string) {
	if s.journal == nil {
		return
	}

	var userID int
	if sess, ok := s.sessions.Current(); ok {
		userID = sess.UserID
	}

	entry := models.JournalEntry{
		ID:        uuid.New(),
		UserID:    userID,
		Operation: operation,
		ProductID: productID,
		ImageID:   imageID,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.journal.AppendEntry(ctx, entry); err != nil {
		s.log.Warn("failed to append journal entry", sl.Err(err))
	}
}

package services_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"odoo_gallery/internal/domain/models"
	services "odoo_gallery/internal/services/gallery_service"
	"odoo_gallery/internal/transport/http/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGalleryProvider struct {
	mock.Mock
}

func (m *MockGalleryProvider) FetchGallery(ctx context.Context, barcode string) (models.Gallery, error) {
	args := m.Called(ctx, barcode)
	return args.Get(0).(models.Gallery), args.Error(1)
}

func (m *MockGalleryProvider) AddImage(ctx context.Context, productID int, name, fileName, imageData string, sequence int) (int, error) {
	args := m.Called(ctx, productID, name, fileName, imageData, sequence)
	return args.Int(0), args.Error(1)
}

func (m *MockGalleryProvider) WriteImage(ctx context.Context, img models.Image) error {
	args := m.Called(ctx, img)
	return args.Error(0)
}

func (m *MockGalleryProvider) UnlinkImage(ctx context.Context, imageID int) error {
	args := m.Called(ctx, imageID)
	return args.Error(0)
}

type MockSessionReader struct {
	mock.Mock
}

func (m *MockSessionReader) Current() (models.Session, bool) {
	args := m.Called()
	return args.Get(0).(models.Session), args.Bool(1)
}

type MockJournal struct {
	mock.Mock
}

func (m *MockJournal) AppendEntry(ctx context.Context, entry models.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

var testCtx = context.Background()

func newService(provider *MockGalleryProvider) *services.GalleryService {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	sessions := new(MockSessionReader)
	sessions.On("Current").Return(models.Session{UserID: 2}, true).Maybe()
	return services.NewGalleryService(log, provider, sessions, nil, nil)
}

func threeImageGallery() models.Gallery {
	return models.Gallery{
		ProductID:   10,
		ProductName: "Bottle",
		Images: []models.Image{
			{ID: 1, Name: "a", Sequence: 1, ImageData: "x", IsPublished: true, FileName: "a.png"},
			{ID: 2, Name: "b", Sequence: 2, ImageData: "x", IsPublished: true, FileName: "b.png"},
			{ID: 3, Name: "c", Sequence: 3, ImageData: "x", IsPublished: false, FileName: "c.png"},
		},
	}
}

func TestAddImage_EmptyName(t *testing.T) {
	provider := new(MockGalleryProvider)
	service := newService(provider)

	_, err := service.AddImage(testCtx, dto.ImageUploadInput{ProductID: 10, Name: "   ", ImageData: "Zm9v"})
	assert.ErrorIs(t, err, services.ErrEmptyImageName)
	provider.AssertNotCalled(t, "AddImage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAddImage_DefaultSequenceAndSlug(t *testing.T) {
	provider := new(MockGalleryProvider)
	service := newService(provider)

	// новые изображения всегда уходят с sequence 10, имя файла — слаг
	provider.On("AddImage", testCtx, 10, "Ürün Görseli", "Urun-Gorseli", "Zm9v", 10).
		Return(31, nil).Once()

	id, err := service.AddImage(testCtx, dto.ImageUploadInput{ProductID: 10, Name: "Ürün Görseli", ImageData: "Zm9v"})
	require.NoError(t, err)
	assert.Equal(t, 31, id)
	provider.AssertExpectations(t)
}

func TestReorder_PushesDenseSequences(t *testing.T) {
	provider := new(MockGalleryProvider)
	service := newService(provider)

	// новый порядок [3,1,2]: каждое изображение получает sequence = позиция+1
	expected := map[int]int{3: 1, 1: 2, 2: 3}
	for id, seq := range expected {
		id, seq := id, seq
		provider.On("WriteImage", testCtx, mock.MatchedBy(func(img models.Image) bool {
			return img.ID == id && img.Sequence == seq
		})).Return(nil).Once()
	}

	result, err := service.Reorder(testCtx, threeImageGallery(), []int{3, 1, 2})
	require.NoError(t, err)
	assert.True(t, result.AllApplied())
	assert.ElementsMatch(t, []int{1, 2, 3}, result.Updated)

	// ровно три вызова WriteImage
	provider.AssertNumberOfCalls(t, "WriteImage", 3)
	provider.AssertExpectations(t)
}

func TestReorder_SkipsUnchangedPositions(t *testing.T) {
	provider := new(MockGalleryProvider)
	service := newService(provider)

	// перестановка [1,3,2] не трогает первое изображение
	provider.On("WriteImage", testCtx, mock.MatchedBy(func(img models.Image) bool {
		return img.ID == 3 && img.Sequence == 2
	})).Return(nil).Once()
	provider.On("WriteImage", testCtx, mock.MatchedBy(func(img models.Image) bool {
		return img.ID == 2 && img.Sequence == 3
	})).Return(nil).Once()

	result, err := service.Reorder(testCtx, threeImageGallery(), []int{1, 3, 2})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{2, 3}, result.Updated)
	provider.AssertNumberOfCalls(t, "WriteImage", 2)
}

func TestReorder_PartialFailureIsObservable(t *testing.T) {
	provider := new(MockGalleryProvider)
	service := newService(provider)

	writeErr := errors.New("write rejected")

	provider.On("WriteImage", testCtx, mock.MatchedBy(func(img models.Image) bool {
		return img.ID == 3
	})).Return(nil).Once()
	provider.On("WriteImage", testCtx, mock.MatchedBy(func(img models.Image) bool {
		return img.ID == 1
	})).Return(writeErr).Once()
	provider.On("WriteImage", testCtx, mock.MatchedBy(func(img models.Image) bool {
		return img.ID == 2
	})).Return(nil).Once()

	result, err := service.Reorder(testCtx, threeImageGallery(), []int{3, 1, 2})
	require.NoError(t, err)

	assert.False(t, result.AllApplied())
	assert.ElementsMatch(t, []int{2, 3}, result.Updated)
	require.Contains(t, result.Failed, 1)
	assert.ErrorIs(t, result.Failed[1], writeErr)
}

func TestReorder_UnknownImage(t *testing.T) {
	provider := new(MockGalleryProvider)
	service := newService(provider)

	_, err := service.Reorder(testCtx, threeImageGallery(), []int{3, 1, 99})
	assert.ErrorIs(t, err, services.ErrUnknownImage)
	provider.AssertNotCalled(t, "WriteImage", mock.Anything, mock.Anything)
}

func TestTogglePublished_Success(t *testing.T) {
	provider := new(MockGalleryProvider)
	service := newService(provider)

	img := models.Image{ID: 5, Name: "n", Sequence: 1, ImageData: "x", IsPublished: false, FileName: "n.png"}

	provider.On("WriteImage", testCtx, mock.MatchedBy(func(sent models.Image) bool {
		return sent.ID == 5 && sent.IsPublished
	})).Return(nil).Once()

	updated, err := service.TogglePublished(testCtx, img)
	require.NoError(t, err)
	assert.True(t, updated.IsPublished)
}

func TestTogglePublished_RevertsOnFailure(t *testing.T) {
	provider := new(MockGalleryProvider)
	service := newService(provider)

	img := models.Image{ID: 5, IsPublished: true}

	provider.On("WriteImage", testCtx, mock.Anything).Return(errors.New("boom")).Once()

	reverted, err := service.TogglePublished(testCtx, img)
	require.Error(t, err)
	// возвращается исходная запись для отката отображения
	assert.True(t, reverted.IsPublished)
}

func TestModifyImage_JournalFailureDoesNotBlock(t *testing.T) {
	provider := new(MockGalleryProvider)
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	sessions := new(MockSessionReader)
	sessions.On("Current").Return(models.Session{UserID: 2}, true)

	journal := new(MockJournal)
	journal.On("AppendEntry", testCtx, mock.Anything).Return(errors.New("pg down")).Once()

	service := services.NewGalleryService(log, provider, sessions, journal, nil)

	provider.On("WriteImage", testCtx, mock.Anything).Return(nil).Once()

	err := service.ModifyImage(testCtx, models.Image{ID: 5, Name: "n"})
	assert.NoError(t, err)
	journal.AssertExpectations(t)
}

func TestRemoveImage(t *testing.T) {
	provider := new(MockGalleryProvider)
	service := newService(provider)

	provider.On("UnlinkImage", testCtx, 9).Return(nil).Once()
	require.NoError(t, service.RemoveImage(testCtx, 9))

	provider.On("UnlinkImage", testCtx, 9).Return(errors.New("gone")).Once()
	assert.Error(t, service.RemoveImage(testCtx, 9))
}

func TestFetchGallery_EmptyBarcode(t *testing.T) {
	provider := new(MockGalleryProvider)
	service := newService(provider)

	_, err := service.FetchGallery(testCtx, "  ")
	assert.Error(t, err)
	provider.AssertNotCalled(t, "FetchGallery", mock.Anything, mock.Anything)
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"odoo_gallery/internal/storage"
)

// FileStorage интерфейс для работы с файловым хранилищем
type FileStorage interface {
	Save(ctx context.Context, subPath, fileName string, data []byte) (filePath string, fileSize int64, err error)
	Delete(ctx context.Context, filePath string) error
	GetFullPath(relativePath string) string
	GetBaseDir() string
}

// LocalFileStorage реализация для локальной файловой системы
type LocalFileStorage struct {
	baseDir string // Базовый каталог для хранения (например: "./uploads")
	maxSize int64  // Максимальный размер файла в байтах, 0 — без ограничения
}

func NewLocalFileStorage(baseDir string, maxSize int64) (*LocalFileStorage, error) {
	// Создаем директорию, если она не существует
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &LocalFileStorage{
		baseDir: baseDir,
		maxSize: maxSize,
	}, nil
}

// Save записывает декодированные байты изображения в baseDir/subPath/fileName
// и возвращает путь относительно baseDir
func (s *LocalFileStorage) Save(ctx context.Context, subPath, fileName string, data []byte) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	if s.maxSize > 0 && int64(len(data)) > s.maxSize {
		return "", 0, storage.ErrFileTooLarge
	}

	filePath := filepath.Join(s.baseDir, subPath, fileName)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create directories: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		_ = os.Remove(filePath)
		return "", 0, fmt.Errorf("failed to write file: %w", err)
	}

	return filepath.Join(subPath, fileName), int64(len(data)), nil
}

// Delete удаляет файл из хранилища
func (s *LocalFileStorage) Delete(ctx context.Context, filePath string) error {
	fullPath := filepath.Join(s.baseDir, filePath)
	if err := os.Remove(fullPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return storage.ErrFileNotFound
		}
		return err
	}
	return nil
}

// GetFullPath возвращает полный путь к файлу на диске
func (s *LocalFileStorage) GetFullPath(relativePath string) string {
	return filepath.Join(s.baseDir, relativePath)
}

func (s *LocalFileStorage) GetBaseDir() string {
	return s.baseDir
}

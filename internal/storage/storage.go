package storage

import "errors"

var (
	ErrFileTooLarge = errors.New("file size exceeds limit")
	ErrFileNotFound = errors.New("file not found")
)

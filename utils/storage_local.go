package utils

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type localStorage struct {
	dir string
}

func (s *localStorage) resolve(objectKey string) (string, error) {
	if objectKey == "" || strings.Contains(objectKey, "..") || strings.HasPrefix(objectKey, "/") {
		return "", errors.New("invalid object key")
	}
	return filepath.Join(s.dir, filepath.FromSlash(objectKey)), nil
}

func (s *localStorage) Save(ctx context.Context, objectKey string, data []byte, contentType string) error {
	path, err := s.resolve(objectKey)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *localStorage) Open(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	path, err := s.resolve(objectKey)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrorRecordNotFound
		}
		return nil, err
	}
	return f, nil
}

func (s *localStorage) Delete(ctx context.Context, objectKey string) error {
	path, err := s.resolve(objectKey)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

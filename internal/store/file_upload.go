// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// extensionPattern limits the kept extension to a short alphanumeric suffix
// so an uploaded name can never steer the written path.
var extensionPattern = regexp.MustCompile(`^\.[A-Za-z0-9]{1,16}$`)

// uploadFileStorage is the local filesystem implementation of [FileStorage].
// Every saved file gets a fresh generated name inside dir.
type uploadFileStorage struct {
	dir string
	ids IDGenerator
}

// NewUploadFileStorage creates dir (and parents) when missing and returns a
// [FileStorage] writing into it. A relative dir is resolved against the
// working directory. A nil ids selects [UUIDGenerator].
func NewUploadFileStorage(dir string, ids IDGenerator) (FileStorage, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, ErrEmptyUploadDir
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("error resolving upload directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("error creating upload directory: %w", err)
	}

	if ids == nil {
		ids = NewUUIDGenerator()
	}

	return &uploadFileStorage{dir: abs, ids: ids}, nil
}

// Save copies r into <dir>/<id><ext>, where ext is the extension of
// originalName when it is safe to keep. The file is created exclusively; a
// failed copy removes it.
func (s *uploadFileStorage) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, s.ids.Generate()+safeExtension(originalName))

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFileNotSaved, err)
	}

	_, copyErr := io.Copy(f, &contextReader{ctx: ctx, r: r})
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("%w: %w", ErrFileNotSaved, err)
	}

	return path, nil
}

func safeExtension(name string) string {
	// multipart file names may carry client paths in either style
	name = name[strings.LastIndexAny(name, `/\`)+1:]
	ext := filepath.Ext(name)
	if !extensionPattern.MatchString(ext) {
		return ""
	}
	return ext
}

// contextReader stops a copy once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

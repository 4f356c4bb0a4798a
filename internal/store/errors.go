package store

import "errors"

// Sentinel errors returned by the upload storage. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrEmptyUploadDir is returned when the storage is created without a directory.
	ErrEmptyUploadDir = errors.New("empty upload directory")

	// ErrFileNotSaved is returned when writing an uploaded file fails part way;
	// the partial file is removed.
	ErrFileNotSaved = errors.New("uploaded file was not saved")
)

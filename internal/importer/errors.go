package importer

import "errors"

var (
	// ErrDestinationExists indicates the destination file already exists and
	// the collision policy kept it.
	ErrDestinationExists = errors.New("destination file already exists")

	// ErrMoveFailed indicates the file could not be moved into place.
	ErrMoveFailed = errors.New("failed to move file")

	// ErrSizeMismatch indicates a copied file does not match its source size.
	ErrSizeMismatch = errors.New("copied size does not match source")

	// ErrPathTraversal indicates a destination would escape the output root.
	ErrPathTraversal = errors.New("path traversal detected")

	// ErrIncomplete indicates a fixture lacks the fields needed for a path.
	ErrIncomplete = errors.New("fixture has no name")

	// ErrUnknownPlaceholder indicates a naming template uses an unknown name.
	ErrUnknownPlaceholder = errors.New("unknown template placeholder")
)

package importer

import "errors"

var (
	ErrUnsupportedFormat = errors.New("error unsupported file format")
	ErrSheetNotFound     = errors.New("error sheet not found")
	ErrEmptySheet        = errors.New("error sheet is empty")
	ErrNoSections        = errors.New("no sections found")
)

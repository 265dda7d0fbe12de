package storage

import "io"

// BlobStore holds lesson assets: videos, workbooks, practice spreadsheets.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
}

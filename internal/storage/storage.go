package storage

import (
	"context"
	"path/filepath"
	"strings"
)

// ObjectInfo represents metadata for a remote file/object.
type ObjectInfo struct {
	Key  string
	Size int64
}

// ObjectStorage captures the remote operations publishing needs.
type ObjectStorage interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	UploadFile(ctx context.Context, key, localPath, contentType string) error
}

var contentTypes = map[string]string{
	".csv":  "text/csv",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".json": "application/json",
	".prom": "text/plain; version=0.0.4",
}

// ContentType returns the MIME type used when uploading path.
func ContentType(path string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// ObjectKey joins prefix and a slash-separated relative path into an object key.
// A rel that already starts with prefix is returned unchanged.
func ObjectKey(prefix, rel string) string {
	rel = strings.TrimPrefix(strings.TrimSpace(filepath.ToSlash(rel)), "/")
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return rel
	}
	if rel == prefix || strings.HasPrefix(rel, prefix+"/") {
		return rel
	}
	return prefix + "/" + rel
}

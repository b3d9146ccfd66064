package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const folderMimeType = "application/vnd.google-apps.folder"

// DriveClient implements ObjectStorage on a Google Drive folder.
// Keys are flattened to file names inside the folder.
type DriveClient struct {
	srv      *drive.Service
	folderID string
}

// NewDriveClient authenticates with service account credentials and resolves
// folder, which is either a folder ID or a slash-separated path from the root.
func NewDriveClient(ctx context.Context, credentialsJSON, folder string) (*DriveClient, error) {
	config, err := google.JWTConfigFromJSON([]byte(credentialsJSON), drive.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse drive credentials: %w", err)
	}

	srv, err := drive.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create drive client: %w", err)
	}

	c := &DriveClient{srv: srv}
	if c.folderID, err = c.resolveFolder(ctx, folder); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *DriveClient) resolveFolder(ctx context.Context, folder string) (string, error) {
	folder = strings.TrimSpace(folder)
	if folder == "" {
		return "root", nil
	}
	if !strings.Contains(folder, "/") {
		return folder, nil
	}

	currentID := "root"
	for _, name := range strings.Split(folder, "/") {
		if name == "" {
			continue
		}

		result, err := c.srv.Files.List().
			Q(fmt.Sprintf("'%s' in parents and name='%s' and mimeType='%s' and trashed=false",
				currentID, escapeQuery(name), folderMimeType)).
			Fields("files(id, name)").
			Context(ctx).
			Do()
		if err != nil {
			return "", fmt.Errorf("error finding folder %s: %w", name, err)
		}
		if len(result.Files) == 0 {
			return "", fmt.Errorf("folder not found: %s", name)
		}
		currentID = result.Files[0].Id
	}
	return currentID, nil
}

// ListObjects lists files in the folder whose names start with prefix.
func (c *DriveClient) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	results := make([]ObjectInfo, 0)
	err := c.srv.Files.List().
		Q(fmt.Sprintf("'%s' in parents and trashed=false", c.folderID)).
		Fields("nextPageToken, files(id, name, size)").
		Pages(ctx, func(page *drive.FileList) error {
			for _, f := range page.Files {
				if strings.HasPrefix(f.Name, fileName(prefix)) {
					results = append(results, ObjectInfo{Key: f.Name, Size: f.Size})
				}
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("unable to list drive files: %w", err)
	}
	return results, nil
}

// UploadFile creates a file named after key in the folder.
func (c *DriveClient) UploadFile(ctx context.Context, key, localPath, contentType string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer f.Close()

	meta := &drive.File{
		Name:     fileName(key),
		MimeType: contentType,
		Parents:  []string{c.folderID},
	}
	if _, err := c.srv.Files.Create(meta).Media(f).Context(ctx).Do(); err != nil {
		return fmt.Errorf("drive upload of %s failed: %w", key, err)
	}
	return nil
}

var _ ObjectStorage = (*DriveClient)(nil)

// fileName flattens an object key into a Drive file name.
func fileName(key string) string {
	key = strings.Trim(key, "/")
	if key == "" {
		return ""
	}
	dir, base := path.Split(key)
	if dir == "" {
		return base
	}
	return strings.ReplaceAll(strings.TrimSuffix(dir, "/"), "/", "_") + "_" + base
}

func escapeQuery(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}

package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Local stores assets on disk under a root directory served at /uploads
type Local struct {
	Root string
}

func NewLocal(root string) *Local {
	return &Local{Root: root}
}

func (l *Local) Upload(ctx context.Context, data []byte, folder, filename string) (Asset, error) {
	destDir := filepath.Join(l.Root, folder)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return Asset{}, fmt.Errorf("failed to create upload directory: %w", err)
	}

	// Prefix with a timestamp so repeated uploads never collide
	name := time.Now().Format("20060102150405") + "_" + filename
	path := filepath.Join(destDir, name)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return Asset{}, fmt.Errorf("failed to write file: %w", err)
	}

	return Asset{
		URL: "/uploads/" + folder + "/" + name,
		ID:  filepath.Join(folder, name),
	}, nil
}

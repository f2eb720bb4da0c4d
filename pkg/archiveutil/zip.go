package archiveutil

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	"github.com/klauspost/compress/zip"
)

type zipArchive struct {
	path string
}

func (a *zipArchive) names() ([]string, error) {
	zr, err := zip.OpenReader(filepath.Clean(a.path))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names, nil
}

func (a *zipArchive) extract(ctx context.Context, dst string) error {
	log := logr.FromContextOrDiscard(ctx)
	zr, err := zip.OpenReader(filepath.Clean(a.path))
	if err != nil {
		return err
	}
	defer zr.Close()

	for _, f := range zr.File {
		target := filepath.Join(dst, f.Name)
		if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") {
			log.V(5).Info("creating directory", "target", target)
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}
		log.V(5).Info("creating file", "target", target)
		rc, err := f.Open()
		if err != nil {
			return err
		}
		err = writeFile(target, rc, f.Mode())
		_ = rc.Close()
		if err != nil {
			log.Error(err, "failed to extract file", "target", target)
			return err
		}
	}
	return nil
}

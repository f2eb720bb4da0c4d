package archiveutil

import (
	"archive/tar"
	"compress/bzip2"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/klauspost/compress/gzip"
	"github.com/offspot/offspot-config/pkg/content"
	"github.com/ulikunitz/xz"
)

type tarArchive struct {
	path string
	via  content.Via
}

// open returns a reader over the decompressed tarball.
func (a *tarArchive) open() (io.Reader, io.Closer, error) {
	f, err := os.Open(filepath.Clean(a.path))
	if err != nil {
		return nil, nil, err
	}
	var r io.Reader
	switch a.via {
	case content.ViaTar:
		r = f
	case content.ViaGztar:
		gzr, err := gzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, nil, err
		}
		r = gzr
	case content.ViaBztar:
		r = bzip2.NewReader(f)
	case content.ViaXztar:
		xzr, err := xz.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, nil, err
		}
		r = xzr
	default:
		_ = f.Close()
		return nil, nil, fmt.Errorf("%w: %q", content.ErrUnsupportedVia, a.via)
	}
	return r, f, nil
}

func (a *tarArchive) names() ([]string, error) {
	r, closer, err := a.open()
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	var names []string
	tr := tar.NewReader(r)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return names, nil
		}
		if err != nil {
			return nil, err
		}
		names = append(names, header.Name)
	}
}

func (a *tarArchive) extract(ctx context.Context, dst string) error {
	r, closer, err := a.open()
	if err != nil {
		return err
	}
	defer closer.Close()
	return Untar(ctx, r, dst)
}

// Untar expands a tar archive into the given path. Links must
// point inside of it.
func Untar(ctx context.Context, r io.Reader, path string) error {
	log := logr.FromContextOrDiscard(ctx).WithValues("path", path)
	tr := tar.NewReader(r)

	for {
		header, err := tr.Next()
		switch {
		case err == io.EOF:
			return nil
		case err != nil:
			log.Error(err, "failed to read file from archive")
			return err
		case header == nil:
			continue
		}
		if err := checkMember(path, header.Name); err != nil {
			return err
		}

		target := filepath.Join(path, header.Name)

		switch header.Typeflag {
		case tar.TypeDir:
			log.V(5).Info("creating directory", "target", target)
			if err := os.MkdirAll(target, 0755); err != nil {
				log.Error(err, "failed to create directory", "target", target)
				return err
			}
		case tar.TypeReg:
			log.V(5).Info("creating file", "target", target, "mode", header.Mode)
			if err := writeFile(target, tr, os.FileMode(header.Mode)); err != nil {
				log.Error(err, "failed to extract file", "target", target)
				return err
			}
		case tar.TypeSymlink:
			dest := header.Linkname
			if !filepath.IsAbs(dest) {
				dest = filepath.Join(filepath.Dir(target), dest)
			}
			if ok, err := withinRoot(path, dest); err != nil || !ok {
				return fmt.Errorf("%w: %s links to %s", ErrOutOfBoundMember, header.Name, header.Linkname)
			}
			log.V(5).Info("creating symlink", "target", target, "link", header.Linkname)
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			if err := os.Symlink(header.Linkname, target); err != nil {
				log.Error(err, "failed to create symlink", "target", target)
				return err
			}
		default:
			log.V(3).Info("skipping unsupported member", "name", header.Name, "type", header.Typeflag)
		}
	}
}

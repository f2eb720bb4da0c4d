package archiveutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	"github.com/offspot/offspot-config/pkg/content"
)

var (
	ErrAbsoluteMember   = errors.New("archive contains a member with an absolute path")
	ErrOutOfBoundMember = errors.New("archive contains an out-of-bound member path")
)

// Expand extracts the archive at src into dst using the given method.
// Every member name is checked before anything is written and the
// known-unwanted files are removed once expanded.
func Expand(ctx context.Context, src string, via content.Via, dst string) error {
	log := logr.FromContextOrDiscard(ctx).WithValues("src", src, "via", via, "dst", dst)
	if !via.IsArchive() {
		return fmt.Errorf("%w: cannot expand %q", content.ErrUnsupportedVia, via)
	}
	dst, err := filepath.Abs(dst)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dst, 0755); err != nil {
		log.Error(err, "failed to create destination")
		return err
	}

	var a archive
	if via == content.ViaZip {
		a = &zipArchive{path: src}
	} else {
		a = &tarArchive{path: src, via: via}
	}

	names, err := a.names()
	if err != nil {
		log.Error(err, "failed to list archive members")
		return err
	}
	for _, name := range names {
		if err := checkMember(dst, name); err != nil {
			return err
		}
	}

	log.Info("expanding archive", "members", len(names))
	if err := a.extract(ctx, dst); err != nil {
		log.Error(err, "failed to expand archive")
		return err
	}
	return Clean(ctx, dst)
}

type archive interface {
	names() ([]string, error)
	extract(ctx context.Context, dst string) error
}

func checkMember(root, name string) error {
	if strings.HasPrefix(name, "/") || filepath.IsAbs(name) {
		return fmt.Errorf("%w: %s", ErrAbsoluteMember, name)
	}
	ok, err := withinRoot(root, filepath.Join(root, name))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrOutOfBoundMember, name)
	}
	return nil
}

func withinRoot(root, target string) (bool, error) {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(target))
	if err != nil {
		return false, fmt.Errorf("couldn't find relative path: %w", err)
	}
	for _, component := range strings.Split(filepath.Clean(rel), string(os.PathSeparator)) {
		if component == ".." {
			return false, nil
		}
	}
	return true, nil
}

func writeFile(target string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode.Perm()|0200)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

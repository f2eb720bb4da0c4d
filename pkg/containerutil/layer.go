package containerutil

import (
	"io"

	v1 "github.com/google/go-containerregistry/pkg/v1"
)

type sizer interface {
	UncompressedSize() (int64, error)
}

func uncompressedSize(l v1.Layer) (int64, error) {
	if s, ok := l.(sizer); ok {
		if size, err := s.UncompressedSize(); err == nil {
			return size, nil
		}
	}
	rc, err := l.Uncompressed()
	if err != nil {
		return 0, err
	}
	defer rc.Close()
	return io.Copy(io.Discard, rc)
}

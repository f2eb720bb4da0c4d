package sizes

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/offspot/offspot-config/pkg/content"
)

// ClusterSize is the allocation unit of the image. Image sizes
// are always a multiple of it.
const ClusterSize int64 = 512

// RoundUp rounds size to the next multiple of cluster.
func RoundUp(size, cluster int64) int64 {
	if size%cluster == 0 {
		return size
	}
	return size - size%cluster + cluster
}

// ContentSize is the space required on the image by the content:
// each image both as a tarball and loaded, and each file once expanded.
// It fails if any file size is still unknown.
func ContentSize(images []content.OCIImage, files []content.File) (int64, error) {
	var total int64
	for _, img := range images {
		total += img.FileSize + img.FullSize
	}
	for _, f := range files {
		size, err := f.ExpandedSize()
		if err != nil {
			return 0, err
		}
		total += size
	}
	return total, nil
}

// Margin is a fixed 10% of the content size.
func Margin(contentSize int64) int64 {
	return contentSize / 10
}

func MinImageSize(rootfsSize, contentSize, margin int64) int64 {
	return RoundUp(rootfsSize+contentSize+margin, ClusterSize)
}

// Parse reads a size in bytes or in a human form (2.5GiB, 512MB).
func Parse(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("size must not be negative: %d", n)
		}
		return n, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("parsing size %q: %w", s, err)
	}
	return int64(n), nil
}

// Format returns a binary (IEC) human representation of size.
func Format(size int64) string {
	if size < 0 {
		return "unknown"
	}
	return humanize.IBytes(uint64(size))
}

package content

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path"
	"slices"
	"strings"
)

// SizeFetcher reads the size of a remote resource.
type SizeFetcher interface {
	RemoteSize(ctx context.Context, url string) (int64, error)
}

// File references a unit of content to be written to the data partition.
//
// Either Content or URL must be set. Content has priority: a File
// built with Content never carries a URL.
type File struct {
	To       string    `json:"to"`
	URL      string    `json:"url,omitempty"`
	Content  *string   `json:"content,omitempty"`
	Via      Via       `json:"via"`
	Size     int64     `json:"size"`
	FullSize int64     `json:"fullsize,omitempty"`
	Checksum *Checksum `json:"checksum,omitempty"`
}

// NewFile normalises and validates f.
func NewFile(f File) (File, error) {
	if f.Via == "" {
		f.Via = ViaDirect
	}
	if f.Content != nil {
		f.URL = ""
	}
	if f.To != "" && path.IsAbs(f.To) {
		f.To = path.Clean(f.To)
	}
	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

// NewContentFile returns a File writing the given text to dst.
func NewContentFile(dst, text string, via Via) (File, error) {
	return NewFile(File{
		To:      dst,
		Content: &text,
		Via:     via,
		Size:    int64(len(text)),
	})
}

func (f File) Validate() error {
	if !InDataPart(f.To) {
		return fmt.Errorf("%w: %q", ErrOutsideDataPart, f.To)
	}
	if !f.Via.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedVia, f.Via)
	}
	if f.Content == nil {
		if f.URL == "" {
			return fmt.Errorf("%s: %w", f.To, ErrMissingSource)
		}
		if _, err := url.Parse(f.URL); err != nil {
			return fmt.Errorf("url %q is incorrect: %w", f.URL, err)
		}
	}
	if f.Checksum != nil {
		if err := f.Checksum.Validate(); err != nil {
			return fmt.Errorf("%s: %w", f.To, err)
		}
	}
	return nil
}

// UnmarshalJSON decodes and validates a File. A missing size
// is treated as unknown rather than zero.
func (f *File) UnmarshalJSON(data []byte) error {
	type rawFile File
	raw := struct {
		rawFile
		Size *int64 `json:"size"`
	}{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := File(raw.rawFile)
	out.Size = SizeUnknown
	if raw.Size != nil {
		out.Size = *raw.Size
	}
	out, err := NewFile(out)
	if err != nil {
		return err
	}
	*f = out
	return nil
}

// InDataPart returns whether p resolves inside the data partition.
func InDataPart(p string) bool {
	if !path.IsAbs(p) {
		return false
	}
	p = path.Clean(p)
	return p == DataPartPath || strings.HasPrefix(p, DataPartPath+"/")
}

func (v Via) Valid() bool {
	return v == ViaDirect || v == ViaBase64 || v.IsArchive()
}

func (v Via) IsArchive() bool {
	return slices.Contains(ArchiveFormats, v)
}

// IsPlain returns whether the file is written from inline content.
func (f File) IsPlain() bool {
	return f.Content != nil
}

func (f File) IsBase64() bool {
	return f.Via == ViaBase64
}

// IsLocal returns whether the file references a file on the
// building host.
func (f File) IsLocal() bool {
	if f.IsPlain() {
		return false
	}
	u, err := url.Parse(f.URL)
	return err == nil && u.Scheme == "file"
}

func (f File) IsRemote() bool {
	return !f.IsPlain() && f.URL != "" && !f.IsLocal()
}

// LocalPath returns the path of a local (file://) source.
func (f File) LocalPath() string {
	u, err := url.Parse(f.URL)
	if err != nil {
		return ""
	}
	return u.Path
}

// MountedTo returns the destination of the file once the data
// partition is mounted at mountPoint.
func (f File) MountedTo(mountPoint string) string {
	rel := strings.TrimPrefix(path.Clean(f.To), DataPartPath)
	return path.Join(mountPoint, rel)
}

// ExpandedSize is the space the file takes once written. It fails
// when the size is not known yet.
func (f File) ExpandedSize() (int64, error) {
	if f.FullSize > 0 {
		return f.FullSize, nil
	}
	if f.Size < 0 {
		return 0, fmt.Errorf("%s: %w", f.To, ErrUnknownSize)
	}
	return f.Size, nil
}

// WithSize returns a copy of f with a known size. Local sources are
// measured on disk and remote ones are asked to the fetcher.
func (f File) WithSize(ctx context.Context, fetcher SizeFetcher) (File, error) {
	if f.Size >= 0 {
		return f, nil
	}
	switch {
	case f.IsPlain():
		f.Size = int64(len(*f.Content))
	case f.IsLocal():
		info, err := os.Stat(f.LocalPath())
		if err != nil {
			return File{}, err
		}
		f.Size = info.Size()
	default:
		size, err := fetcher.RemoteSize(ctx, f.URL)
		if err != nil {
			return File{}, fmt.Errorf("fetching size of %s: %w", f.URL, err)
		}
		if size < 0 {
			return File{}, fmt.Errorf("%s: %w", f.URL, ErrUnknownSize)
		}
		f.Size = size
	}
	return f, nil
}

// WithChecksum returns a copy of f with its checksum resolved.
func (f File) WithChecksum(ctx context.Context, fetcher DigestFetcher) (File, error) {
	if f.Checksum == nil || !f.Checksum.IsPending() {
		return f, nil
	}
	c, err := f.Checksum.Resolve(ctx, fetcher)
	if err != nil {
		return File{}, err
	}
	f.Checksum = &c
	return f, nil
}

// Equal reports whether both files describe the same content.
func (f File) Equal(o File) bool {
	if f.To != o.To || f.URL != o.URL || f.Via != o.Via || f.Size != o.Size || f.FullSize != o.FullSize {
		return false
	}
	if (f.Content == nil) != (o.Content == nil) || (f.Content != nil && *f.Content != *o.Content) {
		return false
	}
	if (f.Checksum == nil) != (o.Checksum == nil) || (f.Checksum != nil && *f.Checksum != *o.Checksum) {
		return false
	}
	return true
}

func (f File) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File(to=%s, via=%s", f.To, f.Via))
	if f.URL != "" {
		sb.WriteString(", url=" + f.URL)
	}
	if f.Content != nil {
		line, _, _ := strings.Cut(*f.Content, "\n")
		if len(line) > 10 {
			line = line[:10]
		}
		sb.WriteString(", content=" + line)
	}
	sb.WriteString(fmt.Sprintf(", size=%d)", f.Size))
	return sb.String()
}

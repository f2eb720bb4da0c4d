package content

import "errors"

const (
	// DataPartPath is the mount point of the data partition on the hotspot.
	// Every file of a manifest must be written somewhere below it.
	DataPartPath = "/data"
	// ContentTargetPath is the root of all package contents.
	ContentTargetPath = DataPartPath + "/contents"

	BrandingPath         = ContentTargetPath + "/branding"
	OriginalBrandingPath = ContentTargetPath + "/branding.original"
)

// SizeUnknown marks a File whose size must be fetched before
// it can take part in any size computation.
const SizeUnknown int64 = -1

var (
	ErrUnsupportedAlgorithm = errors.New("unsupported checksum algorithm")
	ErrUnsupportedKind      = errors.New("unsupported checksum kind")
	ErrPendingChecksum      = errors.New("checksum has not been resolved")
	ErrOutsideDataPart      = errors.New("destination is not inside the data partition")
	ErrUnsupportedVia       = errors.New("unsupported extraction method")
	ErrMissingSource        = errors.New("either url or content must be set")
	ErrUnknownSize          = errors.New("size is unknown")
)

// SupportedAlgorithms lists the checksum algorithms the downloader
// (aria2c) is able to verify.
var SupportedAlgorithms = []string{
	"sha-1",
	"sha-224",
	"sha-256",
	"sha-384",
	"sha-512",
	"md5",
	"adler32",
}

type ChecksumKind string

const (
	// ChecksumDigest means that the value is the digest itself.
	ChecksumDigest ChecksumKind = "digest"
	// ChecksumURL means that the value is a URL serving the digest.
	ChecksumURL ChecksumKind = "url"
)

// Via is the method used to write a File's source to its destination.
type Via string

const (
	ViaDirect Via = "direct"
	ViaBase64 Via = "base64"
	ViaZip    Via = "zip"
	ViaTar    Via = "tar"
	ViaGztar  Via = "gztar"
	ViaBztar  Via = "bztar"
	ViaXztar  Via = "xztar"
)

// ArchiveFormats are the Via values that expand an archive.
var ArchiveFormats = []Via{ViaZip, ViaTar, ViaGztar, ViaBztar, ViaXztar}

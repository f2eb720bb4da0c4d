package content

import (
	"fmt"

	"github.com/blang/semver/v4"
)

const baseImageURLFormat = "https://drive.offspot.it/base/offspot-base-arm64-%s.img"

// BaseFile infers the File of the base image from a flexible source.
// A version number (1.2.0, 1.2.0-rc1) points to the official base
// image, checked with the md5 digest published alongside it.
// Anything else is used as the URL itself.
func BaseFile(source string, checksum *Checksum) (File, error) {
	f := File{
		URL:      source,
		To:       DataPartPath + "/-",
		Via:      ViaDirect,
		Size:     SizeUnknown,
		Checksum: checksum,
	}
	if v, err := semver.Parse(source); err == nil {
		f.URL = fmt.Sprintf(baseImageURLFormat, v.String())
		f.Checksum = &Checksum{Algo: "md5", Value: f.URL + ".md5", Kind: ChecksumURL}
	}
	return NewFile(f)
}

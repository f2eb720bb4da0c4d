package archiveutil

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
)

// UnwantedPatterns are the names of the files left over by
// operating systems and desktop tools, removed after expansion.
var UnwantedPatterns = []string{
	// linux
	"*~",
	".fuse_hidden*",
	".directory",
	".Trash-*",
	".nfs*",
	// macos
	".DS_Store",
	".AppleDouble",
	".LSOverride",
	"._*",
	".DocumentRevisions-V100",
	".fseventsd",
	".Spotlight-V100",
	".TemporaryItems",
	".Trashes",
	".VolumeIcon.icns",
	".com.apple.timemachine.donotpresent",
	".AppleDB",
	".AppleDesktop",
	"Network Trash Folder",
	".apdisk",
	"*.icloud",
	// windows
	"Thumbs.db",
	"Thumbs.db:encryptable",
	"ehthumbs.db",
	"ehthumbs_vista.db",
	"*.stackdump",
	"desktop.ini",
	"Desktop.ini",
	"$RECYCLE.BIN",
	"*.lnk",
}

// macOS resource forks added by its archive tool
const resourceForkDir = "__MACOSX"

// Clean removes the resource-fork folders and every file or
// folder matching UnwantedPatterns under root.
func Clean(ctx context.Context, root string) error {
	log := logr.FromContextOrDiscard(ctx)
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		if !unwanted(d) {
			return nil
		}
		log.V(2).Info("removing unwanted file", "path", path)
		if err := os.RemoveAll(path); err != nil {
			return err
		}
		if d.IsDir() {
			return filepath.SkipDir
		}
		return nil
	})
}

func unwanted(d fs.DirEntry) bool {
	if d.IsDir() && d.Name() == resourceForkDir {
		return true
	}
	for _, pattern := range UnwantedPatterns {
		if ok, _ := filepath.Match(pattern, d.Name()); ok {
			return true
		}
	}
	return false
}

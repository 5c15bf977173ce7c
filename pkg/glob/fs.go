package glob

import (
	"io/fs"
	"os"
)

// FS is the filesystem surface the engine consumes: a depth-one
// directory listing with entry-kind discrimination. Deep walks are
// always composed from single listings.
type FS interface {
	ReadDir(path string) ([]fs.DirEntry, error)
}

type osFS struct{}

func (osFS) ReadDir(path string) ([]fs.DirEntry, error) {
	return os.ReadDir(path)
}

// OS is the FS backed by the real filesystem
var OS FS = osFS{}

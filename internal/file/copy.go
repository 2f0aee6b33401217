package file

import (
	"io"

	"github.com/spf13/afero"
)

func CopyFile(fs afero.Fs, src, dst string) error {
	srcFd, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer srcFd.Close()

	dstFd, err := fs.Create(dst)
	if err != nil {
		return err
	}
	defer dstFd.Close()

	if _, err = io.Copy(dstFd, srcFd); err != nil {
		return err
	}

	srcInfo, err := fs.Stat(src)
	if err != nil {
		return err
	}
	return fs.Chmod(dst, srcInfo.Mode())
}

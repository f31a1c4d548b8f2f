package common

import (
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
)

// WriteFileAtomic writes newBytes to filePath.
// Guaranteed not to lose *both* oldBytes and newBytes,
// (assuming that the OS is perfect)
func WriteFileAtomic(filePath string, newBytes []byte, mode os.FileMode) error {
	// If a file already exists there, copy to filePath+".bak" (overwrite anything)
	if _, err := os.Stat(filePath); !os.IsNotExist(err) {
		fileBytes, err := ioutil.ReadFile(filePath)
		if err != nil {
			return errors.Wrapf(err, "could not read file %v", filePath)
		}
		if err = ioutil.WriteFile(filePath+".bak", fileBytes, mode); err != nil {
			return errors.Wrapf(err, "could not write file %v", filePath+".bak")
		}
	}
	if err := ioutil.WriteFile(filePath+".new", newBytes, mode); err != nil {
		return errors.Wrapf(err, "could not write file %v", filePath+".new")
	}
	return os.Rename(filePath+".new", filePath)
}

// CopyBytes returns an exact copy of the provided bytes.
func CopyBytes(b []byte) (copiedBytes []byte) {
	if b == nil {
		return nil
	}
	copiedBytes = make([]byte, len(b))
	copy(copiedBytes, b)
	return
}

package util

import (
	"os"
	"path/filepath"
)

// CreateFileWithPath 创建文件，必要时先创建父目录
func CreateFileWithPath(filePath string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, err
	}
	return os.Create(filePath)
}

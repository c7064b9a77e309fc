package pkg

import (
	"fmt"
	"os"
)

// CheckFileExist 检查文件是否存在, 路径是目录时返回错误
func CheckFileExist(filePath string) (bool, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, fmt.Errorf("%s is a directory", filePath)
	}
	return true, nil
}

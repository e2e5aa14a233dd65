//go:build !statsview

package statsview

import "errors"

// Launch は statsview タグなしでビルドされた場合は常に失敗する
func Launch(string) (string, error) {
	return "", errors.New("statsview タグなしでビルドされています")
}

func Available() bool {
	return false
}

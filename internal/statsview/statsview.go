//go:build statsview

package statsview

import (
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	log "github.com/sirupsen/logrus"
)

// Launch はビューアを別のゴルーチンで起動し、URLを返す
func Launch(addr string) (string, error) {
	if addr == "" {
		addr = DefaultAddress
	}
	viewer.SetConfiguration(viewer.WithAddr(addr))
	mgr := statsview.New()
	go func() {
		mgr.Start()
	}()

	url := "http://" + addr + path
	log.Infof("統計ビューアを開始しました: %s", url)
	return url, nil
}

// Available はビューアが組み込まれているかを返す
func Available() bool {
	return true
}

package features

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// DefaultGPIOMemPath はGPIOレジスタをユーザー空間に公開するデバイス
const DefaultGPIOMemPath = "/dev/gpiomem"

// nodeRescanInterval はイベントを取りこぼした場合に備えた再確認の間隔
const nodeRescanInterval = 500 * time.Millisecond

// WaitForNodes は全てのデバイスノードが現れるまで待つ
//
// 起動直後はudevがまだ /dev/uinput などを作っていないことがあるため、
// 親ディレクトリを監視して作成を待つ。
func WaitForNodes(ctx context.Context, paths ...string) error {
	missing := missingNodes(paths)
	if len(missing) == 0 {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// 監視対象のディレクトリを追加
	dirs := make(map[string]bool)
	for _, path := range missing {
		dir := filepath.Dir(path)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := watcher.Add(dir); err != nil {
			log.Warnf("ディレクトリの監視に失敗しました: %s - %v", dir, err)
		}
	}

	log.WithField("nodes", missing).Info("デバイスノードの作成を待ちます")

	ticker := time.NewTicker(nodeRescanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("デバイスノードが見つかりません %v: %w", missingNodes(paths), ctx.Err())

		case ev, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("イベントチャネルが閉じられました")
			}
			if ev.Op&fsnotify.Create == 0 {
				continue
			}
			log.Debugf("ファイルシステムイベント: %s %s", ev.Op.String(), ev.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("エラーチャネルが閉じられました")
			}
			log.Warnf("ファイルシステム監視エラー: %v", err)

		case <-ticker.C:
		}

		if len(missingNodes(paths)) == 0 {
			log.Info("デバイスノードが揃いました")
			return nil
		}
	}
}

func missingNodes(paths []string) []string {
	var missing []string
	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			missing = append(missing, path)
		}
	}
	return missing
}

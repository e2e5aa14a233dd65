// Package statsview はランタイム統計のHTTPビューアを起動する。
// statsview ビルドタグを付けた場合のみ有効になる
//
//	go build -tags statsview ./cmd
//
// 起動後は以下で統計を確認できる
//
//	localhost:12600/debug/statsview
//	localhost:12600/debug/pprof/
package statsview

// DefaultAddress はビューアの待ち受けアドレス
const DefaultAddress = "localhost:12600"

const path = "/debug/statsview"

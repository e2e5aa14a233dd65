package joystick

import (
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultPeriod はポーリング周期
const DefaultPeriod = 10 * time.Millisecond

// Poller は一定周期で全パッドを読み取り、報告する
//
// 周期はティックの終了から次のティックまでを測る。同じパッドのティックが
// 重なることはない。
type Poller struct {
	period time.Duration
	pads   []*Pad

	mu      sync.Mutex // used と stop/done/stopped のみ。ティック中は保持しない
	used    int
	stop    chan struct{}
	done    chan struct{}
	stopped []chan struct{} // 停止を指示したが終了を確認していないループ

	tickMu sync.Mutex
	ticks  atomic.Uint64
}

func NewPoller(period time.Duration, pads []*Pad) *Poller {
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Poller{period: period, pads: pads}
}

// Open は参照カウントを増やし、0から1になったらループを開始する
func (p *Poller) Open() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.used++
	if p.used == 1 {
		p.stop = make(chan struct{})
		p.done = make(chan struct{})
		go p.run(p.stop, p.done)
		log.WithField("period", p.period).Debug("ポーリングを開始しました")
	}
}

// Close は参照カウントを減らし、0になったらループを停止する
//
// 実行中のティックは最後まで走り、次のティックは始まらない。
func (p *Poller) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.used == 0 {
		log.Warn("Open されていない Poller が Close されました")
		return
	}
	p.used--
	if p.used == 0 {
		p.stopLoop()
		log.Debug("ポーリングを停止しました")
	}
}

// stopLoop は実行中のループに停止を指示する。p.mu を保持して呼ぶ
func (p *Poller) stopLoop() {
	close(p.stop)
	p.stop = nil
	p.stopped = append(p.stopped, p.done)
	p.done = nil
}

// Sync は停止を指示した全てのループが終了するまで待つ。実行中のループは待たない
func (p *Poller) Sync() {
	p.mu.Lock()
	stopped := p.stopped
	p.stopped = nil
	p.mu.Unlock()

	for _, done := range stopped {
		<-done
	}
}

// shutdown は参照カウントに関わらずループを止めて終了を待つ
func (p *Poller) shutdown() {
	p.mu.Lock()
	if p.stop != nil {
		p.stopLoop()
	}
	p.used = 0
	p.mu.Unlock()

	p.Sync()
}

// Running はループが動いているかを返す
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stop != nil
}

// Users は現在の参照カウントを返す
func (p *Poller) Users() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.used
}

// Ticks はこれまでに実行したティック数を返す
func (p *Poller) Ticks() uint64 {
	return p.ticks.Load()
}

// Period はポーリング周期を返す
func (p *Poller) Period() time.Duration {
	return p.period
}

func (p *Poller) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	timer := time.NewTimer(p.period)
	defer timer.Stop()

	for {
		select {
		case <-stop:
			return
		case <-timer.C:
		}

		// タイマーと停止が同時に来た場合は停止を優先する
		select {
		case <-stop:
			return
		default:
		}

		p.tick()
		timer.Reset(p.period)
	}
}

// tick は全パッドを順に読み取り、報告する
func (p *Poller) tick() {
	p.tickMu.Lock()
	defer p.tickMu.Unlock()

	for _, pad := range p.pads {
		pad.poll()
	}
	p.ticks.Add(1)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/browser"
	log "github.com/sirupsen/logrus"

	"github.com/char5742/gpio-joystick/internal/api"
	"github.com/char5742/gpio-joystick/internal/config"
	"github.com/char5742/gpio-joystick/internal/gpio"
	"github.com/char5742/gpio-joystick/internal/monitor"
	"github.com/char5742/gpio-joystick/internal/statsview"
)

func main() {
	// コマンドライン引数の解析
	useApi := flag.Bool("api", false, "APIサーバーモードで起動します")
	configPath := flag.String("config", "", "設定ファイルのパス (指定しない場合はデフォルトパスを使用)")
	port := flag.Int("port", 8080, "APIサーバーのポート番号")
	useMonitor := flag.Bool("monitor", false, "端末にパッドの状態を表示します")
	useSim := flag.Bool("sim", false, "GPIOの代わりにシミュレータを使います")
	dry := flag.Bool("dry", false, "/dev/uinput にデバイスを作成しません (-monitor と併用)")
	debug := flag.Bool("debug", false, "デバッグログを出力します")
	logPath := flag.String("log", "", "ログの出力先ファイル")
	browse := flag.Bool("browse", false, "起動後にブラウザで状態を開きます")
	stats := flag.Bool("statsview", false, "ランタイム統計ビューアを起動します (statsview タグ付きビルドのみ)")
	var overrides config.Overrides
	overrides.RegisterFlags(flag.CommandLine)
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if *debug {
		log.SetLevel(log.DebugLevel)
	}
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("ログファイルを開けません: %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	cfg := loadConfig(*configPath)
	if err := overrides.Apply(cfg); err != nil {
		log.Fatalf("パラメータが不正です: %v", err)
	}
	if *useSim {
		cfg.GPIO.Driver = config.DriverSim
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("設定が不正です: %v", err)
	}

	var opts []api.Option
	var sim *gpio.Sim
	if cfg.GPIO.Driver == config.DriverSim {
		sim = gpio.NewSim()
		opts = append(opts, api.WithBank(func(*config.Config) (api.Bank, error) { return sim, nil }))
	}
	var board *monitor.Board
	if *useMonitor {
		board = monitor.NewBoard()
		opts = append(opts, api.WithSinkWrapper(board.Wrap))
		if *dry {
			opts = append(opts, api.WithRegistrar(monitor.DryRegistrar))
		}
	} else if *dry {
		log.Fatal("-dry は -monitor と併用してください")
	}

	if *stats {
		url, err := statsview.Launch(statsview.DefaultAddress)
		if err != nil {
			log.Warnf("統計ビューアを起動できません: %v", err)
		} else if *browse {
			openBrowser(url)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		service  *api.JoystickService
		shutdown func()
	)
	if *useApi {
		log.Infof("APIサーバーモードで起動します (ポート: %d)", *port)
		server := api.NewServer(cfg, *port, opts...)
		go func() {
			if err := server.Start(); err != nil {
				log.Errorf("APIサーバーの起動に失敗しました: %v", err)
				stop()
			}
		}()
		if *browse {
			openBrowser(fmt.Sprintf("http://localhost:%d/api/service/status", *port))
		}
		service = server.Service()
		shutdown = func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Stop(sctx); err != nil {
				log.Errorf("APIサーバーの停止に失敗しました: %v", err)
			}
		}
	} else {
		log.Info("CLIモードで起動します")
		service = api.NewJoystickService(cfg, opts...)
		if err := service.Start(); err != nil {
			log.Fatalf("ジョイスティックサービスの起動に失敗しました: %v", err)
		}
		shutdown = func() {
			if err := service.Stop(); err != nil {
				log.Errorf("ジョイスティックサービスの停止に失敗しました: %v", err)
			}
		}
	}

	if *useMonitor {
		if err := runMonitor(ctx, board, service, sim, *logPath == ""); err != nil {
			log.Errorf("モニターの実行に失敗しました: %v", err)
		}
	} else {
		<-ctx.Done()
	}

	log.Info("シャットダウンします...")
	shutdown()
}

func loadConfig(path string) *config.Config {
	if path == "" {
		var err error
		if path, err = config.DefaultConfigPath(); err != nil {
			log.Warnf("設定ディレクトリを取得できません: %v", err)
			return config.DefaultConfig()
		}
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.Warnf("設定ファイルの読み込みに失敗しました: %v。デフォルト設定を使用します", err)
		return config.DefaultConfig()
	}
	log.Infof("設定ファイルを読み込みました: %s", path)
	return cfg
}

// runMonitor は端末を占有するため、ログファイル未指定ならログを捨てる
func runMonitor(ctx context.Context, board *monitor.Board, svc *api.JoystickService, sim *gpio.Sim, quiet bool) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	if quiet {
		log.SetOutput(io.Discard)
		defer log.SetOutput(os.Stderr)
	}
	return monitor.New(screen, board, svc, sim).Run(ctx)
}

func openBrowser(url string) {
	if err := browser.OpenURL(url); err != nil {
		log.Warnf("ブラウザを開けません: %v", err)
	}
}

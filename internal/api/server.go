package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"

	"github.com/char5742/gpio-joystick/internal/config"
)

// Server はAPIサーバーを表す構造体
type Server struct {
	server  *http.Server
	cfg     *config.Config
	mutex   sync.RWMutex
	port    int
	service *JoystickService
}

// NewServer は新しいAPIサーバーを作成する
func NewServer(cfg *config.Config, port int, opts ...Option) *Server {
	return &Server{
		cfg:     cfg,
		port:    port,
		service: NewJoystickService(cfg, opts...),
	}
}

// Service はサーバーが管理するジョイスティックサービスを返す
func (s *Server) Service() *JoystickService {
	return s.service
}

// Handler はCORS付きのルーターを返す
func (s *Server) Handler() http.Handler {
	router := http.NewServeMux()
	s.setupRoutes(router)

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
	}).Handler(router)
}

// Start はAPIサーバーを開始する。Stop されるまで戻らない
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Infof("APIサーバーを開始します: http://localhost:%d", s.port)
	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop はAPIサーバーとジョイスティックサービスを停止する
func (s *Server) Stop(ctx context.Context) error {
	if s.service.IsRunning() {
		if err := s.service.Stop(); err != nil {
			log.Warnf("サービスの停止に失敗しました: %v", err)
		}
	}
	if s.server != nil {
		log.Info("APIサーバーを停止します...")
		return s.server.Shutdown(ctx)
	}
	return nil
}

// GetConfig は現在の設定を返す
func (s *Server) GetConfig() *config.Config {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.cfg
}

// UpdateConfig は設定を更新する
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.mutex.Lock()
	s.cfg = cfg
	s.mutex.Unlock()
	s.service.UpdateConfig(cfg)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Errorf("JSONエンコードエラー: %v", err)
		}
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/char5742/gpio-joystick/internal/config"
	"github.com/char5742/gpio-joystick/internal/joystick"
)

// ルートの設定
func (s *Server) setupRoutes(router *http.ServeMux) {
	// 設定関連のエンドポイント
	router.HandleFunc("GET /api/config", s.handleGetConfig)
	router.HandleFunc("PUT /api/config", s.handleUpdateConfig)
	router.HandleFunc("POST /api/config/save", s.handleSaveConfig)

	// パッド関連のエンドポイント
	router.HandleFunc("GET /api/pads", s.handleGetPads)
	router.HandleFunc("POST /api/pads/{index}/open", s.handleOpenPad)
	router.HandleFunc("POST /api/pads/{index}/close", s.handleClosePad)

	// サービス関連のエンドポイント
	router.HandleFunc("POST /api/service/start", s.handleStartService)
	router.HandleFunc("POST /api/service/stop", s.handleStopService)
	router.HandleFunc("GET /api/service/status", s.handleServiceStatus)

	router.HandleFunc("GET /api/health", s.handleHealthCheck)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.GetConfig())
}

// 設定更新ハンドラ。実行中のサービスには次回起動時に反映される
func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	newConfig := config.DefaultConfig()

	if err := json.NewDecoder(r.Body).Decode(newConfig); err != nil {
		writeError(w, http.StatusBadRequest, "設定の解析に失敗しました")
		return
	}
	if err := newConfig.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.UpdateConfig(newConfig)
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// 設定保存ハンドラ。パス省略時はデフォルトの設定ファイルに書く
func (s *Server) handleSaveConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path string `json:"path"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "リクエストの解析に失敗しました")
			return
		}
	}

	path := req.Path
	if path == "" {
		var err error
		if path, err = config.DefaultConfigPath(); err != nil {
			writeError(w, http.StatusInternalServerError, "デフォルト設定ファイルのパスを取得できません: "+err.Error())
			return
		}
	}

	if err := config.SaveConfig(path, s.GetConfig()); err != nil {
		writeError(w, http.StatusInternalServerError, "設定の保存に失敗しました: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved", "path": path})
}

func (s *Server) handleGetPads(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Status().Pads)
}

func (s *Server) handleOpenPad(w http.ResponseWriter, r *http.Request) {
	s.handlePad(w, r, s.service.OpenPad, "opened")
}

func (s *Server) handleClosePad(w http.ResponseWriter, r *http.Request) {
	s.handlePad(w, r, s.service.ClosePad, "closed")
}

func (s *Server) handlePad(w http.ResponseWriter, r *http.Request, op func(int) error, done string) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "パッド番号が不正です")
		return
	}

	if err := op(index); err != nil {
		status := http.StatusConflict
		if errors.Is(err, errPadNotFound) {
			status = http.StatusNotFound
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": done})
}

func (s *Server) handleStartService(w http.ResponseWriter, r *http.Request) {
	if s.service.IsRunning() {
		writeJSON(w, http.StatusOK, map[string]string{"status": "already_running"})
		return
	}

	if err := s.service.Start(); err != nil {
		if errors.Is(err, errAlreadyRunning) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "already_running"})
			return
		}
		status := http.StatusInternalServerError
		if errors.Is(err, joystick.ErrConfiguration) {
			status = http.StatusBadRequest
		}
		writeError(w, status, fmt.Sprintf("サービスの起動に失敗しました: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "started"})
}

func (s *Server) handleStopService(w http.ResponseWriter, r *http.Request) {
	if !s.service.IsRunning() {
		writeJSON(w, http.StatusOK, map[string]string{"status": "not_running"})
		return
	}

	if err := s.service.Stop(); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("サービスの停止に失敗しました: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

func (s *Server) handleServiceStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Status())
}

// ヘルスチェックハンドラ
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

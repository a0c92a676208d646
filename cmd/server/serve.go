package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"github.com/user/career-survival/config"
	"github.com/user/career-survival/internal/api"
	"github.com/user/career-survival/internal/game"
	"github.com/user/career-survival/internal/whatsapp"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and, when enabled, the WhatsApp bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		logger := setupLogger(cfg.Server.LogLevel)
		defer logger.Sync()

		catalog, err := loadCatalog()
		if err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}

		store, closer, err := openStore(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer closer.Close()

		gameManager, err := game.NewGameManager(cfg, catalog, store)
		if err != nil {
			return err
		}
		gameManager.SetLogger(logger)

		restored, err := gameManager.RestoreSessions()
		if err != nil {
			logger.Error("Failed to restore runs", zap.Error(err))
		}
		logger.Info("Restored runs", zap.Int("count", restored))

		apiServer := api.NewServer(gameManager, logger)

		if cfg.WhatsApp.Enabled {
			clientManager := whatsapp.NewClientManager(gameManager, cfg, logger)
			gameManager.SetMessageSender(clientManager)
			defer clientManager.DisconnectAll()

			logger.Info("Restored WhatsApp sessions", zap.Int("count", clientManager.RestoreSessions()))

			qrManager := whatsapp.NewQRCodeManager(clientManager, cfg, logger)
			sessionManager := whatsapp.NewSessionManager(cfg.WhatsApp.StoreDir, logger)
			mountWhatsApp(apiServer.Router(), clientManager, qrManager, sessionManager, logger)

			gameManager.StartReminders(time.Duration(cfg.WhatsApp.ReminderMinutes) * time.Minute)
			defer gameManager.StopReminders()
		}

		server := &http.Server{
			Addr:    ":" + cfg.Server.Port,
			Handler: apiServer,
		}

		go func() {
			logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server stopped", zap.Error(err))
			}
		}()

		waitForShutdown(logger)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// mountWhatsApp adds the bot login and session routes
func mountWhatsApp(router chi.Router, clientManager *whatsapp.ClientManager, qrManager *whatsapp.QRCodeManager, sessionManager *whatsapp.SessionManager, logger *zap.Logger) {
	router.Get("/qrcodes/*", func(w http.ResponseWriter, r *http.Request) {
		http.StripPrefix("/qrcodes/", http.FileServer(http.Dir(qrManager.QRDir()))).ServeHTTP(w, r)
	})

	// QR code generation endpoint
	router.Post("/qr", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PhoneNumber string `json:"phone_number"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PhoneNumber == "" {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		code, image, err := qrManager.GenerateQRCode(req.PhoneNumber)
		if err != nil {
			logger.Error("Failed to generate QR code",
				zap.String("phone_number", req.PhoneNumber),
				zap.Error(err))
			http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"qr_code": code,
			"image":   "/qrcodes/" + image,
		})
	})

	router.Get("/sessions", func(w http.ResponseWriter, r *http.Request) {
		sessions, err := sessionManager.ListSessions()
		if err != nil {
			logger.Error("Failed to list sessions", zap.Error(err))
			http.Error(w, "Failed to list sessions", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sessions)
	})

	router.Delete("/sessions/{phone_number}/{session_id}", func(w http.ResponseWriter, r *http.Request) {
		phoneNumber := chi.URLParam(r, "phone_number")
		sessionID := chi.URLParam(r, "session_id")

		// Not connected is fine
		_ = clientManager.Disconnect(phoneNumber)

		if err := sessionManager.DeleteSession(phoneNumber, sessionID); err != nil {
			logger.Error("Failed to delete session",
				zap.String("phone_number", phoneNumber),
				zap.String("session_id", sessionID),
				zap.Error(err))
			http.Error(w, "Failed to delete session", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
	})
}

func waitForShutdown(logger *zap.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
}

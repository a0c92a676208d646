package whatsapp

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/skip2/go-qrcode"
	"github.com/user/career-survival/config"
	"go.uber.org/zap"
)

// sessionFilePath is where the device store of a bot session lives
func sessionFilePath(storeDir, phoneNumber, sessionID string) string {
	return filepath.Join(storeDir, fmt.Sprintf("store_%s_%s.db", phoneNumber, sessionID))
}

// parseSessionFile splits a store_<phone>_<session>.db file name
func parseSessionFile(name string) (string, string, bool) {
	if !strings.HasPrefix(name, "store_") || !strings.HasSuffix(name, ".db") {
		return "", "", false
	}
	rest := strings.TrimSuffix(strings.TrimPrefix(name, "store_"), ".db")
	parts := strings.SplitN(rest, "_", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// QRCodeManager handles QR code generation and authentication
type QRCodeManager struct {
	clientManager *ClientManager
	config        config.Config
	logger        *zap.Logger
	timeout       time.Duration
}

// NewQRCodeManager creates a new QR code manager
func NewQRCodeManager(clientManager *ClientManager, cfg config.Config, logger *zap.Logger) *QRCodeManager {
	return &QRCodeManager{
		clientManager: clientManager,
		config:        cfg,
		logger:        logger,
		timeout:       60 * time.Second,
	}
}

// QRDir is where login QR images are written
func (qm *QRCodeManager) QRDir() string {
	return filepath.Join(qm.config.WhatsApp.StoreDir, "qrcodes")
}

// GenerateQRCode starts a login for a bot number and writes its QR code as
// a PNG. It returns the raw code and the image file name.
func (qm *QRCodeManager) GenerateQRCode(phoneNumber string) (string, string, error) {
	if loggedIn, err := qm.clientManager.IsLoggedIn(phoneNumber); err == nil && loggedIn {
		return "", "", fmt.Errorf("client already logged in")
	}

	qrChan, err := qm.clientManager.GetQRChannel(phoneNumber)
	if err != nil {
		return "", "", fmt.Errorf("failed to set up client: %w", err)
	}

	if err := os.MkdirAll(qm.QRDir(), 0755); err != nil {
		return "", "", fmt.Errorf("failed to create QR code directory: %w", err)
	}

	select {
	case evt := <-qrChan:
		if evt.Event != "code" {
			return "", "", fmt.Errorf("unexpected QR event: %s", evt.Event)
		}
		name, err := qm.writeQRCode(phoneNumber, evt.Code)
		if err != nil {
			return "", "", err
		}
		return evt.Code, name, nil
	case <-time.After(qm.timeout):
		return "", "", fmt.Errorf("timeout waiting for QR code")
	}
}

// writeQRCode renders a code into the QR directory
func (qm *QRCodeManager) writeQRCode(phoneNumber, code string) (string, error) {
	name := fmt.Sprintf("%s_%d.png", phoneNumber, time.Now().Unix())
	qrPath := filepath.Join(qm.QRDir(), name)
	if err := qrcode.WriteFile(code, qrcode.Medium, 256, qrPath); err != nil {
		return "", fmt.Errorf("failed to generate QR code image: %w", err)
	}

	qm.logger.Info("QR code generated",
		zap.String("phone_number", phoneNumber),
		zap.String("path", qrPath))
	return name, nil
}

// SessionManager lists and removes stored bot sessions
type SessionManager struct {
	storeDir string
	logger   *zap.Logger
}

// NewSessionManager creates a new session manager
func NewSessionManager(storeDir string, logger *zap.Logger) *SessionManager {
	return &SessionManager{
		storeDir: storeDir,
		logger:   logger,
	}
}

// SessionInfo holds information about a WhatsApp session
type SessionInfo struct {
	ID          string    `json:"id"`
	PhoneNumber string    `json:"phone_number"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListSessions returns all stored WhatsApp sessions, newest first
func (sm *SessionManager) ListSessions() ([]SessionInfo, error) {
	if err := os.MkdirAll(sm.storeDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	matches, err := filepath.Glob(filepath.Join(sm.storeDir, "store_*.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to list session files: %w", err)
	}

	sessions := make([]SessionInfo, 0, len(matches))
	for _, match := range matches {
		phoneNumber, sessionID, ok := parseSessionFile(filepath.Base(match))
		if !ok {
			sm.logger.Warn("Failed to parse session filename", zap.String("filename", match))
			continue
		}
		fileInfo, err := os.Stat(match)
		if err != nil {
			sm.logger.Warn("Failed to stat session file", zap.String("path", match), zap.Error(err))
			continue
		}
		sessions = append(sessions, SessionInfo{
			ID:          sessionID,
			PhoneNumber: phoneNumber,
			UpdatedAt:   fileInfo.ModTime(),
		})
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	return sessions, nil
}

// DeleteSession removes a WhatsApp session
func (sm *SessionManager) DeleteSession(phoneNumber, sessionID string) error {
	dbPath := sessionFilePath(sm.storeDir, phoneNumber, sessionID)
	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session database: %w", err)
	}
	// SQLite side files
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(dbPath + suffix); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete session database: %w", err)
		}
	}
	return nil
}

package whatsapp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/user/career-survival/config"
	"github.com/user/career-survival/internal/interfaces"
	"go.mau.fi/whatsmeow"
	waProto "go.mau.fi/whatsmeow/binary/proto"
	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/store/sqlstore"
	waTypes "go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"
)

// ClientManager handles WhatsApp client connections
type ClientManager struct {
	clients     map[string]*ClientInfo
	gameManager interfaces.GameManager
	formatter   *MessageFormatter
	config      config.Config
	logger      *zap.Logger
	mutex       sync.RWMutex
}

// ClientInfo holds information about a WhatsApp client connection
type ClientInfo struct {
	UUID        string
	PhoneNumber string
	Client      *whatsmeow.Client
	Store       *store.Device
}

// Ensure ClientManager can deliver game messages
var _ interfaces.MessageSender = (*ClientManager)(nil)

// NewClientManager creates a new WhatsApp client manager
func NewClientManager(gameManager interfaces.GameManager, cfg config.Config, logger *zap.Logger) *ClientManager {
	return &ClientManager{
		clients:     make(map[string]*ClientInfo),
		gameManager: gameManager,
		formatter:   NewMessageFormatter(),
		config:      cfg,
		logger:      logger,
	}
}

// RestoreSessions reconnects the most recent stored session of every bot
// number and removes the older store files it supersedes
func (cm *ClientManager) RestoreSessions() int {
	if err := os.MkdirAll(cm.config.WhatsApp.StoreDir, 0755); err != nil {
		cm.logger.Error("Failed to create store directory", zap.Error(err))
		return 0
	}

	pattern := filepath.Join(cm.config.WhatsApp.StoreDir, "store_*.db")
	files, err := filepath.Glob(pattern)
	if err != nil {
		cm.logger.Error("Failed to scan for existing sessions", zap.Error(err))
		return 0
	}

	type storeFile struct {
		file      string
		sessionID string
		modTime   time.Time
	}
	latestSessions := make(map[string]storeFile)

	for _, file := range files {
		phoneNumber, sessionID, ok := parseSessionFile(filepath.Base(file))
		if !ok {
			continue
		}
		fileInfo, err := os.Stat(file)
		if err != nil {
			cm.logger.Error("Failed to get file info",
				zap.String("file", file),
				zap.Error(err))
			continue
		}
		if current, exists := latestSessions[phoneNumber]; !exists || fileInfo.ModTime().After(current.modTime) {
			latestSessions[phoneNumber] = storeFile{file: file, sessionID: sessionID, modTime: fileInfo.ModTime()}
		}
	}

	restored := 0
	for phoneNumber, latest := range latestSessions {
		for _, file := range files {
			if strings.Contains(file, "store_"+phoneNumber+"_") && file != latest.file {
				if err := os.Remove(file); err != nil {
					cm.logger.Error("Failed to remove old session file",
						zap.String("file", file),
						zap.Error(err))
				} else {
					cm.logger.Info("Removed old session file", zap.String("file", file))
				}
			}
		}

		dbPath := fmt.Sprintf("file:%s?_foreign_keys=on", latest.file)
		container, err := sqlstore.New("sqlite3", dbPath, waLog.Stdout("Database", "INFO", true))
		if err != nil {
			cm.logger.Error("Failed to initialize database",
				zap.String("phoneNumber", phoneNumber),
				zap.Error(err))
			continue
		}

		deviceStore, err := container.GetFirstDevice()
		if err != nil {
			cm.logger.Info("No valid session found in database",
				zap.String("phoneNumber", phoneNumber))
			continue
		}

		client := whatsmeow.NewClient(deviceStore, waLog.Stdout("Client", "INFO", true))
		client.AddEventHandler(cm.eventHandler(phoneNumber))

		cm.mutex.Lock()
		cm.clients[phoneNumber] = &ClientInfo{
			UUID:        latest.sessionID,
			PhoneNumber: phoneNumber,
			Client:      client,
			Store:       deviceStore,
		}
		cm.mutex.Unlock()

		if client.Store.ID == nil {
			cm.logger.Info("Session requires QR code login", zap.String("phoneNumber", phoneNumber))
			continue
		}
		restored++
		go func(phone string, cli *whatsmeow.Client) {
			if err := cli.Connect(); err != nil {
				cm.logger.Error("Failed to connect restored client",
					zap.String("phoneNumber", phone),
					zap.Error(err))
				return
			}
			cm.logger.Info("Successfully connected restored client", zap.String("phoneNumber", phone))
		}(phoneNumber, client)
	}
	return restored
}

// SetupClient initializes a new WhatsApp client
func (cm *ClientManager) SetupClient(sessionID, phoneNumber string) (*whatsmeow.Client, error) {
	if err := os.MkdirAll(cm.config.WhatsApp.StoreDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	dbPath := fmt.Sprintf("file:%s?_foreign_keys=on", sessionFilePath(cm.config.WhatsApp.StoreDir, phoneNumber, sessionID))
	container, err := sqlstore.New("sqlite3", dbPath, waLog.Stdout("Database", "INFO", true))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deviceStore, err := container.GetFirstDevice()
	if err != nil {
		deviceStore = container.NewDevice()
	}

	store.DeviceProps.RequireFullSync = proto.Bool(false)
	store.DeviceProps.Os = proto.String(cm.config.WhatsApp.ClientName)

	client := whatsmeow.NewClient(deviceStore, waLog.Stdout("Client", "INFO", true))
	client.AddEventHandler(cm.eventHandler(phoneNumber))

	cm.mutex.Lock()
	cm.clients[phoneNumber] = &ClientInfo{
		UUID:        sessionID,
		PhoneNumber: phoneNumber,
		Client:      client,
		Store:       deviceStore,
	}
	cm.mutex.Unlock()

	return client, nil
}

// GetClient retrieves a WhatsApp client by phone number
func (cm *ClientManager) GetClient(phoneNumber string) (*whatsmeow.Client, bool) {
	cm.mutex.RLock()
	clientInfo, exists := cm.clients[phoneNumber]
	cm.mutex.RUnlock()

	if !exists {
		return nil, false
	}

	// Reconnect a paired client that dropped
	if !clientInfo.Client.IsConnected() && clientInfo.Store.ID != nil {
		if err := clientInfo.Client.Connect(); err != nil {
			cm.logger.Error("Failed to connect client",
				zap.String("phoneNumber", phoneNumber),
				zap.Error(err))
			return nil, false
		}
		cm.logger.Info("Successfully reconnected client", zap.String("phoneNumber", phoneNumber))
	}

	return clientInfo.Client, true
}

// anyClient returns the client of a bot number, or any connected bot when
// that number has none
func (cm *ClientManager) anyClient(phoneNumber string) (*whatsmeow.Client, bool) {
	if client, ok := cm.GetClient(phoneNumber); ok {
		return client, true
	}

	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	for _, clientInfo := range cm.clients {
		if clientInfo.Client.IsConnected() {
			return clientInfo.Client, true
		}
	}
	return nil, false
}

// GetQRChannel sets up a fresh session and returns its QR code channel
func (cm *ClientManager) GetQRChannel(phoneNumber string) (<-chan whatsmeow.QRChannelItem, error) {
	cm.mutex.Lock()
	if clientInfo, exists := cm.clients[phoneNumber]; exists {
		clientInfo.Client.Disconnect()
		delete(cm.clients, phoneNumber)
	}
	cm.mutex.Unlock()

	client, err := cm.SetupClient(uuid.New().String(), phoneNumber)
	if err != nil {
		return nil, err
	}

	// The channel must exist before connecting
	qrChan, err := client.GetQRChannel(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get QR channel: %w", err)
	}

	go func() {
		if err := client.Connect(); err != nil {
			cm.logger.Error("Failed to connect client",
				zap.String("phoneNumber", phoneNumber),
				zap.Error(err))
			return
		}
		cm.logger.Info("Client connected successfully", zap.String("phoneNumber", phoneNumber))
	}()

	return qrChan, nil
}

// Disconnect closes a specific WhatsApp connection
func (cm *ClientManager) Disconnect(phoneNumber string) error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	clientInfo, exists := cm.clients[phoneNumber]
	if !exists {
		return fmt.Errorf("client not found for phone number: %s", phoneNumber)
	}

	clientInfo.Client.Disconnect()
	delete(cm.clients, phoneNumber)
	return nil
}

// DisconnectAll closes all WhatsApp connections
func (cm *ClientManager) DisconnectAll() {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	for phoneNumber, clientInfo := range cm.clients {
		if clientInfo.Client != nil {
			clientInfo.Client.Disconnect()
			cm.logger.Info("Disconnected client", zap.String("phoneNumber", phoneNumber))
		}
	}

	cm.clients = make(map[string]*ClientInfo)
}

// IsLoggedIn checks if a client is logged in
func (cm *ClientManager) IsLoggedIn(phoneNumber string) (bool, error) {
	client, exists := cm.GetClient(phoneNumber)
	if !exists {
		return false, fmt.Errorf("client not found for phone number: %s", phoneNumber)
	}

	return client.IsLoggedIn(), nil
}

// SendTextMessage sends a text message from a bot number to a WhatsApp user
func (cm *ClientManager) SendTextMessage(phoneNumber, recipient, message string) (string, error) {
	recipientJID, err := parseJID(recipient)
	if err != nil {
		return "", err
	}
	return cm.sendResponse(phoneNumber, recipientJID, message)
}

// SendMessage implements interfaces.MessageSender
func (cm *ClientManager) SendMessage(phoneNumber, recipient, message string) (string, error) {
	return cm.SendTextMessage(phoneNumber, recipient, message)
}

// eventHandler binds incoming events to the bot number that received them
func (cm *ClientManager) eventHandler(botNumber string) func(evt interface{}) {
	return func(evt interface{}) {
		switch v := evt.(type) {
		case *events.Message:
			cm.handleIncomingMessage(botNumber, v)
		case *events.Connected:
			cm.logger.Info("WhatsApp client connected", zap.String("phoneNumber", botNumber))
		case *events.Disconnected:
			cm.logger.Info("WhatsApp client disconnected", zap.String("phoneNumber", botNumber))
		case *events.LoggedOut:
			cm.logger.Info("WhatsApp client logged out", zap.String("phoneNumber", botNumber))
		}
	}
}

// handleIncomingMessage answers a game command
func (cm *ClientManager) handleIncomingMessage(botNumber string, message *events.Message) {
	sender, command, ok := commandFromMessage(message)
	if !ok {
		return
	}

	cm.logger.Debug("Received message",
		zap.String("content", command),
		zap.String("sender", sender),
		zap.String("chat", message.Info.Chat.User))

	response := cm.processGameCommand(sender, command)
	if response == "" {
		return
	}
	if _, err := cm.sendResponse(botNumber, message.Info.Chat, response); err != nil {
		cm.logger.Error("Failed to send response",
			zap.String("sender", sender),
			zap.Error(err))
	}
}

// commandFromMessage extracts the sender and command of a chat message.
// Private chats use a "/" prefix, groups use "/ ".
func commandFromMessage(message *events.Message) (string, string, bool) {
	if message.Info.MessageSource.IsFromMe || message.Message == nil {
		return "", "", false
	}

	content := message.Message.GetConversation()
	if content == "" {
		content = message.Message.GetExtendedTextMessage().GetText()
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return "", "", false
	}

	if message.Info.Chat.Server == waTypes.GroupServer {
		if !strings.HasPrefix(content, "/ ") {
			return "", "", false
		}
		content = "/" + strings.TrimPrefix(content, "/ ")
	} else if !strings.HasPrefix(content, "/") {
		return "", "", false
	}

	return message.Info.Sender.User, content, true
}

// sendResponse sends a text message to a chat
func (cm *ClientManager) sendResponse(phoneNumber string, targetJID waTypes.JID, message string) (string, error) {
	client, exists := cm.anyClient(phoneNumber)
	if !exists {
		return "", fmt.Errorf("client not found for phone number: %s", phoneNumber)
	}

	msg := &waProto.Message{
		Conversation: proto.String(message),
	}

	response, err := client.SendMessage(context.Background(), targetJID, msg)
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}

	return response.ID, nil
}

// parseJID converts a string to a WhatsApp JID
func parseJID(jidString string) (waTypes.JID, error) {
	if !strings.ContainsRune(jidString, '@') {
		// Bare phone numbers are user JIDs
		jidString = jidString + "@" + waTypes.DefaultUserServer
	}

	return waTypes.ParseJID(jidString)
}

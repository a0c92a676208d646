package interfaces

import "github.com/user/career-survival/internal/types"

// MessageSender defines the interface for sending messages
type MessageSender interface {
	SendMessage(phoneNumber, recipient, message string) (string, error)
}

// Store is the key-value persistence the engine writes runs and meta records to
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// KeyLister is implemented by stores that can enumerate their keys
type KeyLister interface {
	Keys(prefix string) ([]string, error)
}

// GameManager defines the interface for game operations
type GameManager interface {
	GetView(playerID string) (*types.GameView, error)
	GetCreationInfo(playerID string) (*types.CreationInfo, error)
	CreateRun(playerID string, req types.CreationRequest) (*types.GameView, error)
	Advance(playerID string) (*types.GameView, error)
	ChooseOption(playerID string, index int) (*types.GameView, error)
	PostWork(playerID string, choice types.PostWorkChoice) (*types.GameView, error)
	Weekend(playerID string, activity types.WeekendActivity) (*types.GameView, error)
	Buy(playerID, itemID string) (*types.GameView, error)
	Retire(playerID string) (*types.GameView, error)
	GetMeta(playerID string) (types.MetaProgress, error)
	GetShopItems() []types.ShopItem
	GetIndustries() []types.Industry
	SendMessage(playerID string, message string) error
}

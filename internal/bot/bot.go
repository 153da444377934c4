package bot

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/example/flashbot/internal/config"
	"github.com/example/flashbot/internal/database"
	"github.com/example/flashbot/internal/spaced_repetition"
	"github.com/example/flashbot/internal/study"
	"github.com/example/flashbot/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// Bot represents the Telegram study bot
type Bot struct {
	api          *tgbotapi.BotAPI
	cards        []models.Card
	progress     models.ProgressMap
	settings     *config.Settings
	scheduler    *spaced_repetition.SM2
	cardRepo     *database.CardRepository
	progressRepo *database.ProgressRepository
	settingsRepo *database.SettingsRepository
	sessions     map[int64]*study.Engine
	adminUserIDs map[int64]bool

	// subscribers is written from the update loop and read from the
	// reminder goroutine.
	subMu       sync.Mutex
	subscribers map[int64]bool
}

// New creates a new bot instance. Cards and progress are loaded once;
// the bot treats the card set as a read-only snapshot.
func New() (*Bot, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}

	if database.DB == nil {
		return nil, fmt.Errorf("database connection is not established")
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %v", err)
	}

	cardRepo := database.NewCardRepository()
	progressRepo := database.NewProgressRepository()
	settingsRepo := database.NewSettingsRepository()

	cards, err := cardRepo.GetAll()
	if err != nil {
		return nil, err
	}

	progress, err := progressRepo.LoadAll()
	if err != nil {
		return nil, err
	}

	values, err := settingsRepo.GetAll()
	if err != nil {
		return nil, err
	}
	settings := config.NewSettings(values)

	// Parse admin user IDs from environment
	adminUserIDs := make(map[int64]bool)
	for _, idStr := range strings.Split(os.Getenv("ADMIN_USER_IDS"), ",") {
		idStr = strings.TrimSpace(idStr)
		if idStr == "" {
			continue
		}
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			log.Printf("Invalid admin user ID %q, skipping", idStr)
			continue
		}
		adminUserIDs[id] = true
	}

	return &Bot{
		api:          api,
		cards:        cards,
		progress:     progress,
		settings:     settings,
		scheduler:    spaced_repetition.New(settings),
		cardRepo:     cardRepo,
		progressRepo: progressRepo,
		settingsRepo: settingsRepo,
		sessions:     make(map[int64]*study.Engine),
		subscribers:  make(map[int64]bool),
		adminUserIDs: adminUserIDs,
	}, nil
}

// Start begins receiving and handling updates. Blocks until the update
// channel closes.
func (b *Bot) Start() error {
	log.Printf("Authorized on account %s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	for update := range updates {
		b.handleUpdate(update)
	}
	return nil
}

// Stop shuts down the update loop
func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}

// SendDueReminder implements reminder.Notifier: every subscribed chat
// gets a note about cards waiting for review. Runs on the reminder
// goroutine, so it works off a snapshot of the subscriber set.
func (b *Bot) SendDueReminder(count int) error {
	for _, chatID := range b.subscriberIDs() {
		text := fmt.Sprintf("🔔 %d card(s) are due for review. Send /review to study them.", count)
		if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			log.Printf("Failed to send reminder to chat %d: %v", chatID, err)
		}
	}
	return nil
}

// subscribe registers a chat for due-card reminders.
func (b *Bot) subscribe(chatID int64) {
	b.subMu.Lock()
	b.subscribers[chatID] = true
	b.subMu.Unlock()
}

func (b *Bot) subscriberIDs() []int64 {
	b.subMu.Lock()
	defer b.subMu.Unlock()
	ids := make([]int64, 0, len(b.subscribers))
	for chatID := range b.subscribers {
		ids = append(ids, chatID)
	}
	return ids
}

// session returns the engine for a chat, creating an idle one on first
// use. Telegram delivers one update at a time per chat, which
// serializes access to the engine.
func (b *Bot) session(chatID int64) *study.Engine {
	engine, ok := b.sessions[chatID]
	if !ok {
		engine = study.NewEngine(b.scheduler, b.progressRepo, b.progress)
		b.sessions[chatID] = engine
	}
	return engine
}

func (b *Bot) isAdmin(userID int64) bool {
	return b.adminUserIDs[userID]
}

func (b *Bot) today() string {
	return models.DateOf(time.Now())
}

func (b *Bot) send(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("Failed to send message to chat %d: %v", chatID, err)
	}
}

func (b *Bot) sendWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send message to chat %d: %v", chatID, err)
	}
}

// MainMenuButtons returns the home menu layout
func (b *Bot) MainMenuButtons() [][]MenuButton {
	return [][]MenuButton{
		{
			{Text: "🔄 Review due cards", CallbackData: "study:review"},
			{Text: "🆕 Learn new cards", CallbackData: "study:new"},
		},
		{
			{Text: "📖 Study everything", CallbackData: "study:all"},
			{Text: "🎯 Weak points", CallbackData: "study:weak"},
		},
		{
			{Text: "📊 Statistics", CallbackData: "stats"},
			{Text: "🗂 Decks", CallbackData: "decks"},
		},
	}
}

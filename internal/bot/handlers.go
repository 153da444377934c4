package bot

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/example/flashbot/internal/deck"
	"github.com/example/flashbot/internal/selector"
	"github.com/example/flashbot/internal/stats"
	"github.com/example/flashbot/internal/study"
	"github.com/example/flashbot/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallbackQuery(update.CallbackQuery)
		return
	}
	if update.Message == nil {
		return
	}

	message := update.Message
	if !message.IsCommand() {
		return
	}

	switch message.Command() {
	case "start":
		b.handleStartCommand(message)
	case "review":
		b.startStudy(message.Chat.ID, models.ModeReview)
	case "new":
		b.startStudy(message.Chat.ID, models.ModeNew)
	case "study":
		b.startStudy(message.Chat.ID, models.ModeAll)
	case "weak":
		b.startStudy(message.Chat.ID, models.ModeWeakPoint)
	case "stats":
		b.handleStatsCommand(message.Chat.ID)
	case "decks":
		b.handleDecksCommand(message.Chat.ID)
	case "filter":
		b.handleFilterCommand(message)
	case "settings":
		b.handleSettingsCommand(message)
	case "import":
		b.handleImportCommand(message)
	case "exit":
		b.exitSession(message.Chat.ID)
	default:
		b.send(message.Chat.ID, "Unknown command. Send /start for the menu.")
	}
}

func (b *Bot) handleStartCommand(message *tgbotapi.Message) {
	b.subscribe(message.Chat.ID)
	text := "👋 Welcome! Pick a study mode or send /stats for your progress."
	b.sendWithKeyboard(message.Chat.ID, text, createKeyboard(b.MainMenuButtons()))
}

// startStudy selects cards for the mode and opens a session
func (b *Bot) startStudy(chatID int64, mode models.StudyMode) {
	engine := b.session(chatID)
	if engine.State() != study.StateIdle {
		if err := engine.Exit(); err != nil {
			log.Printf("Failed to reset session for chat %d: %v", chatID, err)
		}
	}

	cards := selector.ForMode(mode, b.cards, b.progress, b.settings, b.today())
	if mode != models.ModeWeakPoint && b.settings.ShuffleCards() {
		cards = selector.Shuffle(cards, nil)
	}

	err := engine.Start(mode, cards)
	if errors.Is(err, study.ErrEmptySelection) {
		b.send(chatID, "No cards match this mode right now. 🎉")
		return
	}
	if err != nil {
		log.Printf("Failed to start session for chat %d: %v", chatID, err)
		return
	}

	b.showCurrentCard(chatID, false)
}

// handleFilterCommand starts a custom-filtered session:
// /filter deck=lang mode=review start=1 count=10 favorite notpassed noshuffle
func (b *Bot) handleFilterCommand(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	criteria := models.FilterCriteria{Mode: models.ModeAll, Shuffle: b.settings.ShuffleCards()}

	for _, arg := range strings.Fields(message.CommandArguments()) {
		key, value, _ := strings.Cut(arg, "=")
		switch key {
		case "deck":
			criteria.DeckPath = value
		case "mode":
			criteria.Mode = models.StudyMode(value)
		case "start":
			criteria.StartIndex, _ = strconv.Atoi(value)
		case "count":
			criteria.Count, _ = strconv.Atoi(value)
		case "favorite":
			criteria.FavoriteOnly = true
		case "notpassed":
			criteria.NotPassedOnly = true
		case "shuffle":
			criteria.Shuffle = true
		case "noshuffle":
			criteria.Shuffle = false
		default:
			b.send(chatID, fmt.Sprintf("Unknown filter %q. Usage: /filter deck=lang mode=review start=1 count=10 favorite notpassed noshuffle", arg))
			return
		}
	}

	engine := b.session(chatID)
	if engine.State() != study.StateIdle {
		if err := engine.Exit(); err != nil {
			log.Printf("Failed to reset session for chat %d: %v", chatID, err)
		}
	}

	cards := selector.Filtered(criteria, b.cards, b.progress, b.today())
	if criteria.Shuffle {
		cards = selector.Shuffle(cards, nil)
	}

	err := engine.Start(models.ModeFiltered, cards)
	if errors.Is(err, study.ErrEmptySelection) {
		b.send(chatID, "No cards match these filters.")
		return
	}
	if err != nil {
		log.Printf("Failed to start filtered session for chat %d: %v", chatID, err)
		return
	}

	b.showCurrentCard(chatID, false)
}

// showCurrentCard renders the current card; revealed controls whether
// the back fields and answer buttons are visible
func (b *Bot) showCurrentCard(chatID int64, revealed bool) {
	engine := b.session(chatID)
	card, err := engine.Current()
	if err != nil {
		log.Printf("No current card for chat %d: %v", chatID, err)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Card %d / %d", engine.Index()+1, engine.Len())
	if card.DeckPath != "" {
		fmt.Fprintf(&sb, "  [%s]", card.DeckPath)
	}
	sb.WriteString("\n\n")
	sb.WriteString(cardText(card, revealed))

	if prog := b.progress.Get(card.ID); prog != nil {
		var marks []string
		if prog.Favorite {
			marks = append(marks, "⭐")
		}
		if prog.Passed {
			marks = append(marks, "✅ passed")
		}
		if len(marks) > 0 {
			sb.WriteString("\n\n" + strings.Join(marks, "  "))
		}
	}

	var rows [][]MenuButton
	if revealed {
		rows = append(rows, []MenuButton{
			{Text: "😎 Easy", CallbackData: "answer:easy"},
			{Text: "🙂 Normal", CallbackData: "answer:normal"},
			{Text: "😓 Hard", CallbackData: "answer:hard"},
		})
	} else {
		rows = append(rows, []MenuButton{{Text: "👀 Show answer", CallbackData: "reveal"}})
	}
	rows = append(rows, []MenuButton{
		{Text: "⬅️ Back", CallbackData: "nav:prev"},
		{Text: "➡️ Skip", CallbackData: "nav:next"},
	})
	rows = append(rows, []MenuButton{
		{Text: "⭐ Favorite", CallbackData: "toggle:favorite"},
		{Text: "✅ Passed", CallbackData: "toggle:passed"},
		{Text: "🏁 Finish", CallbackData: "finish"},
	})

	b.sendWithKeyboard(chatID, sb.String(), createKeyboard(rows))
}

// cardText renders the card's fields. The front shows the "Front"
// field when present, otherwise the first field by name; revealing
// shows everything.
func cardText(card models.Card, revealed bool) string {
	names := make([]string, 0, len(card.Fields))
	for name := range card.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	front := "Front"
	if _, ok := card.Fields[front]; !ok && len(names) > 0 {
		front = names[0]
	}

	if !revealed {
		return card.Fields[front]
	}

	var sb strings.Builder
	sb.WriteString(card.Fields[front])
	for _, name := range names {
		if name == front {
			continue
		}
		fmt.Fprintf(&sb, "\n%s: %s", name, card.Fields[name])
	}
	return sb.String()
}

func (b *Bot) handleCallbackQuery(callback *tgbotapi.CallbackQuery) {
	// Acknowledge the button press
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		log.Printf("Failed to answer callback: %v", err)
	}

	chatID := callback.Message.Chat.ID
	data := callback.Data

	switch {
	case strings.HasPrefix(data, "study:"):
		b.startStudy(chatID, models.StudyMode(strings.TrimPrefix(data, "study:")))
	case data == "reveal":
		b.showCurrentCard(chatID, true)
	case strings.HasPrefix(data, "answer:"):
		b.handleAnswer(chatID, models.Difficulty(strings.TrimPrefix(data, "answer:")))
	case data == "nav:next":
		b.advance(chatID)
	case data == "nav:prev":
		b.retreat(chatID)
	case data == "toggle:favorite":
		b.handleToggle(chatID, "favorite")
	case data == "toggle:passed":
		b.handleToggle(chatID, "passed")
	case data == "finish":
		b.finishSession(chatID)
	case data == "stats":
		b.handleStatsCommand(chatID)
	case data == "decks":
		b.handleDecksCommand(chatID)
	case data == "menu":
		b.sendWithKeyboard(chatID, "Pick a study mode:", createKeyboard(b.MainMenuButtons()))
	}
}

func (b *Bot) handleAnswer(chatID int64, difficulty models.Difficulty) {
	engine := b.session(chatID)
	if err := engine.Answer(difficulty); err != nil {
		log.Printf("Failed to record answer for chat %d: %v", chatID, err)
		return
	}
	b.advance(chatID)
}

func (b *Bot) advance(chatID int64) {
	engine := b.session(chatID)
	if err := engine.Advance(); err != nil {
		log.Printf("Failed to advance for chat %d: %v", chatID, err)
		return
	}
	if engine.State() == study.StateFinished {
		b.showSummary(chatID)
		return
	}
	b.showCurrentCard(chatID, false)
}

func (b *Bot) retreat(chatID int64) {
	engine := b.session(chatID)
	if err := engine.Retreat(); err != nil {
		log.Printf("Failed to retreat for chat %d: %v", chatID, err)
		return
	}
	b.showCurrentCard(chatID, false)
}

func (b *Bot) handleToggle(chatID int64, flag string) {
	engine := b.session(chatID)
	var err error
	if flag == "favorite" {
		err = engine.ToggleFavorite()
	} else {
		err = engine.TogglePassed()
	}
	if err != nil {
		log.Printf("Failed to toggle %s for chat %d: %v", flag, chatID, err)
		return
	}
	b.showCurrentCard(chatID, false)
}

func (b *Bot) finishSession(chatID int64) {
	engine := b.session(chatID)
	summary, err := engine.Finish()
	if err != nil {
		log.Printf("Failed to finish session for chat %d: %v", chatID, err)
		return
	}
	b.sendSummary(chatID, summary)
}

// showSummary reports a session that ended by advancing past the last
// card
func (b *Bot) showSummary(chatID int64) {
	engine := b.session(chatID)
	summary, err := engine.Summary()
	if err != nil {
		log.Printf("Failed to get session summary for chat %d: %v", chatID, err)
		return
	}
	b.sendSummary(chatID, summary)
}

func (b *Bot) sendSummary(chatID int64, summary models.SessionSummary) {
	engine := b.session(chatID)
	minutes := summary.ElapsedSeconds / 60
	seconds := summary.ElapsedSeconds % 60
	text := fmt.Sprintf(
		"🎉 Session complete!\n\n✅ Correct: %d\n❌ Incorrect: %d\n🎯 Accuracy: %d%%\n⏱ Time: %d:%02d\n📚 Studied today: %d",
		summary.Correct, summary.Incorrect, summary.Accuracy, minutes, seconds, engine.TodayStudyCount(),
	)
	b.sendWithKeyboard(chatID, text, createKeyboard([][]MenuButton{
		{{Text: "🏠 Main menu", CallbackData: "menu"}},
	}))

	if err := engine.Exit(); err != nil {
		log.Printf("Failed to exit session for chat %d: %v", chatID, err)
	}
}

func (b *Bot) exitSession(chatID int64) {
	engine := b.session(chatID)
	if engine.State() == study.StateIdle {
		b.send(chatID, "No session in progress.")
		return
	}
	if err := engine.Exit(); err != nil {
		log.Printf("Failed to exit session for chat %d: %v", chatID, err)
		return
	}
	b.send(chatID, "Session closed. Your answers are saved.")
}

func (b *Bot) handleStatsCommand(chatID int64) {
	s := stats.Calculate(b.cards, b.progress, b.today())
	text := fmt.Sprintf(
		"📊 Your progress\n\n"+
			"Cards: %d\nStudied: %d\nPassed: %d\nDue for review: %d\nNew today: %d\n\n"+
			"Total correct: %d\nTotal incorrect: %d\nAccuracy: %d%%",
		s.Total, s.Studied, s.Passed, s.DueForReview, stats.TodayNewCount(s, b.settings),
		s.TotalCorrect, s.TotalIncorrect, s.Accuracy,
	)
	b.send(chatID, text)
}

func (b *Bot) handleDecksCommand(chatID int64) {
	decks := deck.List(b.cards)
	if len(decks) == 0 {
		b.send(chatID, "No decks found. Import cards with /import first.")
		return
	}
	var sb strings.Builder
	sb.WriteString("🗂 Decks\n\n")
	for _, d := range decks {
		fmt.Fprintf(&sb, "%s — %d card(s)\n", d.Path, d.Cards)
	}
	b.send(chatID, sb.String())
}

// handleSettingsCommand shows study settings, or updates one when
// called as: /settings <key> <value>
func (b *Bot) handleSettingsCommand(message *tgbotapi.Message) {
	args := strings.Fields(message.CommandArguments())
	if len(args) == 2 {
		if !b.isAdmin(message.From.ID) {
			b.send(message.Chat.ID, "Only admins can change settings.")
			return
		}
		key, value := args[0], args[1]
		if err := b.settingsRepo.Set(key, value); err != nil {
			log.Printf("Failed to save setting %s: %v", key, err)
			b.send(message.Chat.ID, "Failed to save the setting.")
			return
		}
		b.settings.Set(key, value)
		b.send(message.Chat.ID, fmt.Sprintf("Setting %s updated to %s.", key, value))
		return
	}

	text := fmt.Sprintf(
		"⚙️ Settings\n\nnewCardsPerDay: %d\neasyMultiplier: %.2f\nnormalMultiplier: %.2f\nhardMultiplier: %.2f\nshuffleCards: %t\n\n"+
			"Change with /settings <key> <value>",
		b.settings.NewCardsPerDay(),
		b.settings.Multiplier(models.DifficultyEasy),
		b.settings.Multiplier(models.DifficultyNormal),
		b.settings.Multiplier(models.DifficultyHard),
		b.settings.ShuffleCards(),
	)
	b.send(message.Chat.ID, text)
}

// handleImportCommand loads cards from a file path on the bot host:
// /import path/to/cards.csv
func (b *Bot) handleImportCommand(message *tgbotapi.Message) {
	if !b.isAdmin(message.From.ID) {
		b.send(message.Chat.ID, "Only admins can import cards.")
		return
	}

	path := strings.TrimSpace(message.CommandArguments())
	if path == "" {
		b.send(message.Chat.ID, "Usage: /import <path to .csv or .xlsx file>")
		return
	}

	cfg := deck.DefaultImportConfig()
	cfg.FilePath = path
	result, err := deck.ImportCards(cfg, b.cardRepo)
	if err != nil {
		log.Printf("Import failed: %v", err)
		b.send(message.Chat.ID, fmt.Sprintf("Import failed: %v", err))
		return
	}

	// Reload the card snapshot
	cards, err := b.cardRepo.GetAll()
	if err != nil {
		log.Printf("Failed to reload cards: %v", err)
	} else {
		b.cards = cards
	}

	text := fmt.Sprintf(
		"📥 Import finished\n\nProcessed: %d\nCreated: %d\nUpdated: %d\nSkipped: %d\nErrors: %d",
		result.TotalProcessed, result.Created, result.Updated, result.Skipped, len(result.Errors),
	)
	b.send(message.Chat.ID, text)
}

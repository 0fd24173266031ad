package bot

import (
	"fmt"
	"log"

	"github.com/sehyoun/nihongobot/internal/config"
	"github.com/sehyoun/nihongobot/internal/database"
	"github.com/sehyoun/nihongobot/internal/practice"
	"github.com/sehyoun/nihongobot/internal/tts"
	"github.com/sehyoun/nihongobot/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MenuButton represents a button in an inline menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates an inline keyboard from menu button rows
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

// Bot is the Telegram transport around the practice engine.
type Bot struct {
	api     *tgbotapi.BotAPI
	cfg     *config.Config
	service *practice.Service
	speech  *tts.Synthesizer
	users   *database.UserRepository
}

// New creates a bot instance. The Telegram connection is established in
// Start.
func New(cfg *config.Config, service *practice.Service, speech *tts.Synthesizer) *Bot {
	return &Bot{
		cfg:     cfg,
		service: service,
		speech:  speech,
		users:   database.NewUserRepository(),
	}
}

// Connect establishes the Telegram session. It must run before Start and
// before any broadcast can deliver.
func (b *Bot) Connect() error {
	api, err := tgbotapi.NewBotAPI(b.cfg.BotToken)
	if err != nil {
		return fmt.Errorf("unable to create bot: %v", err)
	}
	b.api = api
	log.Printf("Authorized on account %s", api.Self.UserName)
	return nil
}

// Start handles updates until the updates channel closes.
func (b *Bot) Start() error {
	if b.api == nil {
		if err := b.Connect(); err != nil {
			return err
		}
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	for update := range updates {
		go b.handleUpdate(update)
	}
	return nil
}

// Stop stops receiving updates
func (b *Bot) Stop() {
	if b.api != nil {
		b.api.StopReceivingUpdates()
	}
	log.Println("Bot stopped")
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	switch {
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(update.Message)
	case update.Message != nil:
		b.handleText(update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	}
}

// BroadcastDaily delivers a practice item to every known user at their
// own level. One user's failure is logged and does not abort the rest.
func (b *Bot) BroadcastDaily() {
	users, err := b.users.GetAllNotifiable()
	if err != nil {
		log.Printf("Error getting users for broadcast: %v", err)
		return
	}

	for _, user := range users {
		if err := b.deliverPractice(user.ID, ""); err != nil {
			log.Printf("Failed to send daily practice to user %d: %v", user.ID, err)
		}
	}
	log.Printf("Daily broadcast finished for %d users", len(users))
}

// deliverPractice fetches one item for the user and sends the practice
// card, as audio when synthesis succeeds and text otherwise.
func (b *Bot) deliverPractice(userID int64, level models.Level) error {
	profile, err := b.service.Profile(userID)
	if err != nil {
		return err
	}
	if level == "" {
		level = profile.Level
	}

	item, err := b.service.DeliverPractice(userID, level)
	if err != nil {
		msg := tgbotapi.NewMessage(userID, fmt.Sprintf("죄송합니다. %s 레벨의 문장을 찾을 수 없습니다.", level))
		b.send(msg)
		return err
	}

	caption := practiceCaption(item)
	keyboard := practiceKeyboard(item)

	audioPath, err := b.speech.Generate(item.JP, "ja", item.ID)
	if err != nil {
		log.Printf("Error generating audio for item %d: %v", item.ID, err)
		msg := tgbotapi.NewMessage(userID, caption+"\n\n⚠️ 음성 파일 생성 중 오류가 발생했습니다.")
		msg.ReplyMarkup = keyboard
		b.send(msg)
		return nil
	}

	audio := tgbotapi.NewAudio(userID, tgbotapi.FilePath(audioPath))
	audio.Caption = caption
	audio.ReplyMarkup = keyboard
	b.send(audio)
	return nil
}

// practiceCaption builds the card caption, labeling provenance so the
// user can tell a fresh sentence from a stored one.
func practiceCaption(item models.PracticeItem) string {
	caption := fmt.Sprintf("🌸 오늘의 학습 - 일본어 (%s)", item.Level)
	if item.Source == models.SourceGenerated {
		caption += "\n✨ 새로 만든 문장입니다"
	}
	return caption
}

// practiceKeyboard is the standard practice card layout
func practiceKeyboard(item models.PracticeItem) tgbotapi.InlineKeyboardMarkup {
	return createKeyboard([][]MenuButton{
		{{Text: "🇯🇵 일본어 보기", CallbackData: fmt.Sprintf("show_jp_%d", item.ID)}},
		{{Text: "🇰🇷 한국어 뜻 보기", CallbackData: fmt.Sprintf("show_kr_%d", item.ID)}},
		{{Text: "🔁 다시 듣기", CallbackData: fmt.Sprintf("replay_%d", item.ID)}},
		{{Text: "📝 단어장에 저장", CallbackData: fmt.Sprintf("save_%d", item.ID)}},
		{{Text: "🎯 퀴즈 모드", CallbackData: fmt.Sprintf("quiz_%d", item.ID)}},
		{{Text: "⚙️ 레벨 변경", CallbackData: "change_level"}},
	})
}

// levelKeyboard is the level selection layout
func levelKeyboard() tgbotapi.InlineKeyboardMarkup {
	return createKeyboard([][]MenuButton{
		{{Text: "N5 (초급)", CallbackData: "level_N5"}},
		{{Text: "N4 (초중급)", CallbackData: "level_N4"}},
		{{Text: "N3 (중급)", CallbackData: "level_N3"}},
		{{Text: "N2 (중상급)", CallbackData: "level_N2"}},
		{{Text: "N1 (상급)", CallbackData: "level_N1"}},
	})
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if b.api == nil {
		log.Printf("Dropping message: not connected to Telegram")
		return
	}
	if _, err := b.api.Send(c); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

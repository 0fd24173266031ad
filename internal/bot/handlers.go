package bot

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/sehyoun/nihongobot/internal/itemstore"
	"github.com/sehyoun/nihongobot/internal/practice"
	"github.com/sehyoun/nihongobot/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleCommand(message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStart(message)
	case "push":
		b.handlePush(message)
	case "level":
		msg := tgbotapi.NewMessage(message.Chat.ID, "새로운 레벨을 선택해주세요:")
		msg.ReplyMarkup = levelKeyboard()
		b.send(msg)
	case "wordbook":
		b.handleWordbook(message)
	case "realtime":
		b.handleRealtime(message)
	case "reload":
		b.handleReload(message)
	case "help":
		b.handleHelp(message)
	default:
		b.send(tgbotapi.NewMessage(message.Chat.ID, "알 수 없는 명령어입니다. /help 를 입력해보세요."))
	}
}

func (b *Bot) handleStart(message *tgbotapi.Message) {
	user := &models.User{
		ID:        message.From.ID,
		Username:  message.From.UserName,
		FirstName: message.From.FirstName,
	}
	if err := b.users.Upsert(user); err != nil {
		log.Printf("Error registering user %d: %v", user.ID, err)
	}

	welcome := fmt.Sprintf(
		"안녕하세요 %s님! 👋\n\n"+
			"저는 언어 학습을 도와드리는 봇입니다.\n"+
			"현재 일본어를 지원하며, 곧 더 많은 언어가 추가될 예정입니다.\n\n"+
			"매일 아침 학습 문장을 음성과 함께 보내드려요.\n"+
			"먼저 일본어 레벨을 선택해주세요:",
		message.From.FirstName,
	)

	msg := tgbotapi.NewMessage(message.Chat.ID, welcome)
	msg.ReplyMarkup = levelKeyboard()
	b.send(msg)
}

func (b *Bot) handlePush(message *tgbotapi.Message) {
	if !b.cfg.IsAdmin(message.From.ID) {
		b.send(tgbotapi.NewMessage(message.Chat.ID, "권한이 없습니다."))
		return
	}
	if err := b.deliverPractice(message.From.ID, ""); err != nil {
		log.Printf("Error delivering practice to user %d: %v", message.From.ID, err)
	}
}

func (b *Bot) handleWordbook(message *tgbotapi.Message) {
	entries, err := b.service.Wordbook(message.From.ID)
	if err != nil {
		log.Printf("Error listing wordbook for user %d: %v", message.From.ID, err)
		b.send(tgbotapi.NewMessage(message.Chat.ID, "단어장을 불러올 수 없습니다."))
		return
	}
	if len(entries) == 0 {
		b.send(tgbotapi.NewMessage(message.Chat.ID, "단어장이 비어 있습니다. 학습 문장에서 📝 버튼으로 저장해보세요."))
		return
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("📝 단어장 (%d개)\n\n", len(entries)))
	var rows [][]MenuButton
	for i, entry := range entries {
		text.WriteString(fmt.Sprintf("%d. [%s] %s\n   %s\n", i+1, entry.Level, entry.JP, entry.KR))
		rows = append(rows, []MenuButton{{
			Text:         fmt.Sprintf("❌ %d번 삭제", i+1),
			CallbackData: fmt.Sprintf("remove_%d", entry.ItemID),
		}})
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, text.String())
	msg.ReplyMarkup = createKeyboard(rows)
	b.send(msg)
}

func (b *Bot) handleRealtime(message *tgbotapi.Message) {
	if !b.cfg.IsAdmin(message.From.ID) {
		b.send(tgbotapi.NewMessage(message.Chat.ID, "권한이 없습니다."))
		return
	}

	var state bool
	switch strings.TrimSpace(message.CommandArguments()) {
	case "on":
		state = b.service.ToggleRealtime(true)
	case "off":
		state = b.service.ToggleRealtime(false)
	default:
		state = b.service.ToggleRealtime(!b.service.RealtimeEnabled())
	}

	b.send(tgbotapi.NewMessage(message.Chat.ID, fmt.Sprintf("실시간 문장 생성: %s", onOff(state))))
}

func (b *Bot) handleReload(message *tgbotapi.Message) {
	if !b.cfg.IsAdmin(message.From.ID) {
		b.send(tgbotapi.NewMessage(message.Chat.ID, "권한이 없습니다."))
		return
	}
	b.service.ReloadStore()
	b.send(tgbotapi.NewMessage(message.Chat.ID, "문장 데이터를 다시 불러왔습니다."))
}

func (b *Bot) handleHelp(message *tgbotapi.Message) {
	b.send(tgbotapi.NewMessage(message.Chat.ID, helpText()))
}

func helpText() string {
	return "사용 가능한 명령어:\n\n" +
		"/start - 봇 시작 및 레벨 선택\n" +
		"/push - 지금 바로 연습 문장 받기 (관리자)\n" +
		"/level - 레벨 변경\n" +
		"/wordbook - 단어장 보기\n" +
		"/realtime - 실시간 문장 생성 켜기/끄기 (관리자)\n" +
		"/reload - 문장 데이터 다시 불러오기 (관리자)\n" +
		"/help - 도움말"
}

// handleText routes free text: a pending quiz gets graded, everything
// else is ordinary conversation.
func (b *Bot) handleText(message *tgbotapi.Message) {
	userID := message.From.ID
	if !b.service.HasPendingQuiz(userID) {
		b.send(tgbotapi.NewMessage(message.Chat.ID, "퀴즈가 진행 중이 아닙니다. /push 로 연습을 시작해보세요."))
		return
	}

	b.send(tgbotapi.NewMessage(message.Chat.ID, "평가 중입니다... ⏳"))

	result, err := b.service.GradeAnswer(userID, message.Text)
	if err != nil {
		switch {
		case errors.Is(err, practice.ErrSessionExpired):
			b.send(tgbotapi.NewMessage(message.Chat.ID, "⏰ 퀴즈 시간이 초과되었습니다. 퀴즈 모드를 다시 시작해주세요."))
		case errors.Is(err, practice.ErrNoSession):
			b.send(tgbotapi.NewMessage(message.Chat.ID, "퀴즈 데이터를 찾을 수 없습니다. 다시 시작해주세요."))
		default:
			log.Printf("Error grading answer for user %d: %v", userID, err)
			b.send(tgbotapi.NewMessage(message.Chat.ID, "평가 중 오류가 발생했습니다."))
		}
		return
	}

	var text strings.Builder
	text.WriteString("📊 평가 결과\n\n")
	text.WriteString(fmt.Sprintf("일본어: %s\n", result.Item.JP))
	text.WriteString(fmt.Sprintf("정답: %s\n", result.Item.KR))
	text.WriteString(fmt.Sprintf("당신의 답: %s\n\n", message.Text))
	if result.Known {
		text.WriteString(stars(result.Stars) + "\n")
	}
	text.WriteString(result.Feedback)
	if result.Change != nil {
		text.WriteString(fmt.Sprintf("\n\n🎉 %s", result.Change.Reason))
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, text.String())
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "🔙 돌아가기", CallbackData: "back_to_menu"}},
	})
	b.send(msg)
}

func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery) {
	data := callback.Data

	switch {
	case data == "change_level":
		b.answer(callback, "")
		edit := tgbotapi.NewEditMessageText(callback.Message.Chat.ID, callback.Message.MessageID, "새로운 레벨을 선택해주세요:")
		keyboard := levelKeyboard()
		edit.ReplyMarkup = &keyboard
		b.send(edit)

	case strings.HasPrefix(data, "level_"):
		b.handleLevelSelection(callback, models.Level(strings.TrimPrefix(data, "level_")))

	case data == "back_to_menu":
		b.answer(callback, "")
		b.handleBackToMenu(callback)

	case strings.HasPrefix(data, "show_jp_"):
		b.handleShow(callback, "jp", strings.TrimPrefix(data, "show_jp_"))

	case strings.HasPrefix(data, "show_kr_"):
		b.handleShow(callback, "kr", strings.TrimPrefix(data, "show_kr_"))

	case strings.HasPrefix(data, "replay_"):
		b.handleReplay(callback, strings.TrimPrefix(data, "replay_"))

	case strings.HasPrefix(data, "save_"):
		b.handleSave(callback, strings.TrimPrefix(data, "save_"))

	case strings.HasPrefix(data, "quiz_"):
		b.handleQuiz(callback, strings.TrimPrefix(data, "quiz_"))

	case strings.HasPrefix(data, "back_"):
		b.handleBack(callback, strings.TrimPrefix(data, "back_"))

	case strings.HasPrefix(data, "remove_"):
		b.handleRemove(callback, strings.TrimPrefix(data, "remove_"))

	default:
		b.answer(callback, "")
	}
}

func (b *Bot) handleLevelSelection(callback *tgbotapi.CallbackQuery, level models.Level) {
	b.answer(callback, "")
	if !level.IsValid() {
		return
	}
	if err := b.service.SetLevel(callback.From.ID, level); err != nil {
		log.Printf("Error setting level for user %d: %v", callback.From.ID, err)
		return
	}
	edit := tgbotapi.NewEditMessageText(callback.Message.Chat.ID, callback.Message.MessageID,
		fmt.Sprintf("레벨이 %s로 변경되었습니다! ✅\n\n바로 연습을 시작하려면 /push 명령어를 사용해주세요.", level))
	b.send(edit)
}

func (b *Bot) handleShow(callback *tgbotapi.CallbackQuery, lang, idStr string) {
	b.answer(callback, "")
	item, ok := b.resolveItem(callback, idStr)
	if !ok {
		return
	}

	var caption string
	if lang == "jp" {
		caption = fmt.Sprintf("🇯🇵 일본어: %s", item.JP)
		if reading := b.service.Reading(item); reading != "" {
			caption += fmt.Sprintf("\n🔤 읽기: %s", reading)
		}
	} else {
		caption = fmt.Sprintf("🇰🇷 한국어: %s", item.KR)
	}

	keyboard := withBackButton(practiceKeyboard(item), item.ID)
	b.editCard(callback, caption, &keyboard)
}

func (b *Bot) handleReplay(callback *tgbotapi.CallbackQuery, idStr string) {
	b.answer(callback, "")
	item, ok := b.resolveItem(callback, idStr)
	if !ok {
		return
	}

	audioPath, err := b.speech.Generate(item.JP, "ja", item.ID)
	if err != nil {
		log.Printf("Error generating audio for item %d: %v", item.ID, err)
		b.send(tgbotapi.NewMessage(callback.From.ID, "⚠️ 음성 파일 생성 중 오류가 발생했습니다."))
		return
	}

	audio := tgbotapi.NewAudio(callback.From.ID, tgbotapi.FilePath(audioPath))
	audio.Caption = "🔁 다시 듣기"
	b.send(audio)
}

func (b *Bot) handleSave(callback *tgbotapi.CallbackQuery, idStr string) {
	item, ok := b.resolveItem(callback, idStr)
	if !ok {
		b.answer(callback, "문장을 찾을 수 없습니다.")
		return
	}

	saved, err := b.service.SaveToWordbook(callback.From.ID, item)
	if err != nil {
		log.Printf("Error saving to wordbook for user %d: %v", callback.From.ID, err)
		b.answer(callback, "저장 중 오류가 발생했습니다.")
		return
	}

	if saved {
		b.alert(callback, "단어장에 저장되었습니다! 📝")
	} else {
		b.alert(callback, "이미 단어장에 있습니다.")
	}
}

func (b *Bot) handleQuiz(callback *tgbotapi.CallbackQuery, idStr string) {
	b.answer(callback, "")
	itemID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return
	}

	item, err := b.service.StartQuiz(callback.From.ID, itemID)
	if err != nil {
		log.Printf("Error starting quiz for user %d: %v", callback.From.ID, err)
		b.editCard(callback, "문장을 찾을 수 없습니다.", nil)
		return
	}

	caption := fmt.Sprintf(
		"🎯 퀴즈 모드\n\n다음 일본어를 한국어로 번역해주세요:\n\n🇯🇵 %s\n\n번역을 입력해주세요:",
		item.JP,
	)
	keyboard := createKeyboard([][]MenuButton{
		{{Text: "🔙 돌아가기", CallbackData: fmt.Sprintf("back_%d", item.ID)}},
	})
	b.editCard(callback, caption, &keyboard)
}

func (b *Bot) handleBack(callback *tgbotapi.CallbackQuery, idStr string) {
	b.answer(callback, "")
	item, ok := b.resolveItem(callback, idStr)
	if !ok {
		return
	}
	keyboard := practiceKeyboard(item)
	b.editCard(callback, practiceCaption(item), &keyboard)
}

func (b *Bot) handleBackToMenu(callback *tgbotapi.CallbackQuery) {
	profile, err := b.service.Profile(callback.From.ID)
	if err != nil || profile.LastItem == nil {
		b.send(tgbotapi.NewMessage(callback.From.ID, "메뉴로 돌아갑니다. /push 명령어로 새로운 연습을 시작하세요."))
		return
	}
	if err := b.deliverPractice(callback.From.ID, ""); err != nil {
		log.Printf("Error restoring practice for user %d: %v", callback.From.ID, err)
	}
}

func (b *Bot) handleRemove(callback *tgbotapi.CallbackQuery, idStr string) {
	itemID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		b.answer(callback, "")
		return
	}

	removed, err := b.service.RemoveFromWordbook(callback.From.ID, itemID)
	if err != nil {
		log.Printf("Error removing wordbook entry for user %d: %v", callback.From.ID, err)
		b.answer(callback, "삭제 중 오류가 발생했습니다.")
		return
	}
	if removed {
		b.alert(callback, "단어장에서 삭제되었습니다.")
	} else {
		b.alert(callback, "이미 삭제된 항목입니다.")
	}
}

// resolveItem parses the callback item ID and looks the item up, telling
// the user when it no longer exists.
func (b *Bot) resolveItem(callback *tgbotapi.CallbackQuery, idStr string) (models.PracticeItem, bool) {
	itemID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return models.PracticeItem{}, false
	}

	item, err := b.service.FindItem(callback.From.ID, itemID)
	if err != nil {
		if errors.Is(err, itemstore.ErrNotFound) {
			b.editCard(callback, "문장을 찾을 수 없습니다.", nil)
		} else {
			log.Printf("Error resolving item %d: %v", itemID, err)
		}
		return models.PracticeItem{}, false
	}
	return item, true
}

// editCard edits the practice card in place. The card is an audio message
// with a caption when synthesis worked and a plain text message when it
// didn't, so pick the matching edit type.
func (b *Bot) editCard(callback *tgbotapi.CallbackQuery, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID

	if callback.Message.Text != "" {
		edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
		edit.ReplyMarkup = keyboard
		b.send(edit)
		return
	}

	edit := tgbotapi.NewEditMessageCaption(chatID, messageID, text)
	edit.ReplyMarkup = keyboard
	b.send(edit)
}

func (b *Bot) answer(callback *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, text)); err != nil {
		log.Printf("Error answering callback: %v", err)
	}
}

func (b *Bot) alert(callback *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallbackWithAlert(callback.ID, text)); err != nil {
		log.Printf("Error answering callback: %v", err)
	}
}

func withBackButton(keyboard tgbotapi.InlineKeyboardMarkup, itemID int64) tgbotapi.InlineKeyboardMarkup {
	row := tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔙 돌아가기", fmt.Sprintf("back_%d", itemID)),
	)
	keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, row)
	return keyboard
}

func stars(n int) string {
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

func onOff(enabled bool) string {
	if enabled {
		return "켜짐 ✅"
	}
	return "꺼짐 ❌"
}

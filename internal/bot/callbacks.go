package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"compintel/internal/model"
	"compintel/internal/overlay"
)

const (
	cmdInsight  = "insight"
	cmdVerify   = "verify"
	cmdReject   = "reject"
	cmdLike     = "like"
	cmdDislike  = "dislike"
	cmdBookmark = "bookmark"
	cmdFlag     = "flag"
)

// insightKeyboard builds the action buttons shown under an insight. Review
// buttons appear only while the insight is undecided.
func insightKeyboard(id string, status model.VerificationStatus, in model.Interaction) tgbotapi.InlineKeyboardMarkup {
	like, dislike := "Like", "Dislike"
	switch in.FeedbackValue() {
	case model.FeedbackUp:
		like = "Liked"
	case model.FeedbackDown:
		dislike = "Disliked"
	}
	bookmark := "Bookmark"
	if in.Bookmarked {
		bookmark = "Unbookmark"
	}
	flag := "Flag"
	if in.Flagged {
		flag = "Unflag"
	}

	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(like, cmdLike+":"+id),
			tgbotapi.NewInlineKeyboardButtonData(dislike, cmdDislike+":"+id),
			tgbotapi.NewInlineKeyboardButtonData(bookmark, cmdBookmark+":"+id),
			tgbotapi.NewInlineKeyboardButtonData(flag, cmdFlag+":"+id),
		),
	}
	if status == model.VerificationPending || status == model.VerificationUnverified {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Verify", cmdVerify+":"+id),
			tgbotapi.NewInlineKeyboardButtonData("Reject", cmdReject+":"+id),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func reasonKeyboard(id string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, r := range model.RejectionReasons {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(string(r), fmt.Sprintf("%s:%s:%s", cmdReject, id, r)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Cancel", "noop:"+id),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil || cb.Message.Chat == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	callback := tgbotapi.NewCallback(cb.ID, "")
	if _, err := b.api.Send(callback); err != nil {
		b.log.Error("send callback ack", "error", err)
	}

	parts := strings.SplitN(cb.Data, ":", 3)
	if len(parts) < 2 || parts[1] == "" {
		return
	}
	action, id := parts[0], parts[1]

	var userID int64
	if cb.From != nil {
		userID = cb.From.ID
	}
	b.log.Info("callback",
		"action", action,
		"id", id,
		"chat_id", chatID,
		"user_id", userID,
	)

	switch action {
	case cmdInsight:
		b.handleInsight(ctx, chatID, id)
	case cmdLike, cmdDislike, cmdBookmark, cmdFlag:
		b.handleInteraction(ctx, chatID, action, id)
	case cmdVerify:
		b.recordReview(ctx, chatID, id, model.DecisionVerified, overlay.ReviewExtra{})
	case cmdReject:
		if len(parts) == 3 {
			b.handleReject(ctx, chatID, id+" "+parts[2])
			return
		}
		if _, ok := b.cat.Insight(id); !ok {
			b.reply(chatID, fmt.Sprintf("Insight %s not found.", id))
			return
		}
		markup := reasonKeyboard(id)
		b.send(chatID, fmt.Sprintf("Why reject %s?", id), &markup)
	}
}

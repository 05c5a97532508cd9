package bot

import (
	"fmt"

	"flowmarket/internal/domain"

	tele "gopkg.in/telebot.v3"
)

func mainMenu() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{
		{{Text: "🗂 Catalog", Data: "catalog_menu"}},
		{{Text: "💬 Support", Data: "support_menu"}, {Text: "👤 Profile", Data: "profile_menu"}},
		{{Text: "ℹ️ About", Data: "about_bot"}},
	}}
}

func backToMain() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{
		{{Text: "⬅️ Back", Data: "main_menu"}},
	}}
}

func supportMenu() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{
		{{Text: "💬 Support", Data: "support_menu"}},
	}}
}

// catalogMenu lists every workflow at the given price so the list never shows
// a different number than the card and the invoice.
func catalogMenu(workflows []domain.Workflow, price int64, currency string) *tele.ReplyMarkup {
	var rows [][]tele.InlineButton
	for _, wf := range workflows {
		rows = append(rows, []tele.InlineButton{{
			Text: fmt.Sprintf("%s - %d %s", wf.Name, price, currency),
			Data: "workflow:" + wf.Slug,
		}})
	}
	rows = append(rows, []tele.InlineButton{{Text: "⬅️ Back", Data: "main_menu"}})
	return &tele.ReplyMarkup{InlineKeyboard: rows}
}

func cardMenu(slug string, price int64, currency string) *tele.ReplyMarkup {
	return &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{
		{{Text: fmt.Sprintf("💳 Buy for %d %s", price, currency), Data: "buy:" + slug}},
		{{Text: "⬅️ Back to catalog", Data: "catalog_menu"}},
	}}
}

func adminMenu() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{
		{{Text: "🚫 Ban user", Data: "admin:ban_user"}},
		{{Text: "⬅️ Back", Data: "main_menu"}},
	}}
}

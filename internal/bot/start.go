package bot

import (
	"fmt"
	"html"
	"strings"

	applog "flowmarket/internal/log"
	"flowmarket/internal/validate"

	tele "gopkg.in/telebot.v3"
)

// handleStart greets the user, registers them on first contact and shows the
// main menu. A deep-link payload holding a workflow slug jumps straight to
// that workflow's card.
func (b *Bot) handleStart(c tele.Context) error {
	sender := c.Sender()

	if err := b.users.Register(sender.ID, sender.Username); err != nil {
		applog.Error("user.register", sender.ID, err, nil)
	}

	if arg := strings.TrimSpace(c.Message().Payload); arg != "" {
		arg = strings.TrimPrefix(arg, "buy_") // invoice deep links carry this prefix
		if slug, ok := validate.Slug(arg); ok {
			if wf, err := b.catalog.BySlug(slug); err == nil {
				applog.Info("start.deeplink", sender.ID, map[string]any{"slug": slug})
				price := b.pricing.CurrentPrice()
				return c.Send(b.cardText(wf, price), cardMenu(wf.Slug, price, b.cfg.Currency))
			}
			applog.Info("start.deeplink.miss", sender.ID, map[string]any{"slug": slug})
			// Unknown slug falls through to the default greeting.
		}
	}

	welcome := fmt.Sprintf(
		"👋 Hi, %s!\n\nReady-made monitoring and automation workflows for your servers.\n\nPick an option below to get started:",
		html.EscapeString(sender.FirstName),
	)
	return c.Send(welcome, mainMenu())
}

func (b *Bot) handleHelp(c tele.Context) error {
	return c.Send(
		"<b>ℹ️ Help</b>\n\n" +
			"This bot sells ready-made n8n workflows for server monitoring.\n\n" +
			"<b>Commands:</b>\n" +
			"/start - main menu\n" +
			"/catalog - browse workflows\n" +
			"/help - this message\n\n" +
			"For anything else, use the Support button in the menu.",
	)
}

func (b *Bot) showMainMenu(c tele.Context) error {
	if err := b.show(c, "You are back at the main menu. What would you like to do?", mainMenu()); err != nil {
		return err
	}
	return c.Respond(&tele.CallbackResponse{})
}

func (b *Bot) showSupport(c tele.Context) error {
	text := "💬 <b>Support</b>\n\nDescribe your problem and include your payment reference if you have one. The team replies within one business day."
	if err := b.show(c, text, backToMain()); err != nil {
		return err
	}
	return c.Respond(&tele.CallbackResponse{})
}

func (b *Bot) showAbout(c tele.Context) error {
	text := "🤖 This bot delivers personalized copies of automation workflows right after payment. Every file is licensed to its buyer."
	if err := b.show(c, text, backToMain()); err != nil {
		return err
	}
	return c.Respond(&tele.CallbackResponse{})
}

func (b *Bot) showProfile(c tele.Context) error {
	sender := c.Sender()
	count, err := b.purchases.CountByUser(sender.ID)
	if err != nil {
		applog.Error("profile.count", sender.ID, err, nil)
		return c.Respond(&tele.CallbackResponse{Text: "Profile is unavailable right now."})
	}
	u, err := b.users.Get(sender.ID)
	if err != nil {
		applog.Error("profile.get", sender.ID, err, nil)
		return c.Respond(&tele.CallbackResponse{Text: "Profile is unavailable right now."})
	}
	text := fmt.Sprintf("👤 <b>Profile</b>\n\nPurchases: %d\nTotal spent: %d %s", count, u.TotalSpent, b.cfg.Currency)
	if err := b.show(c, text, backToMain()); err != nil {
		return err
	}
	return c.Respond(&tele.CallbackResponse{})
}

package bot

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	applog "flowmarket/internal/log"
	"flowmarket/internal/services"
	"flowmarket/internal/validate"

	tele "gopkg.in/telebot.v3"
)

type banStep int

const (
	banAskID banStep = iota + 1
	banAskReason
)

type banDraft struct {
	step   banStep
	target int64
}

// banConversations tracks the two-step ban dialog per admin.
type banConversations struct {
	mu     sync.Mutex
	drafts map[int64]*banDraft
}

func newBanConversations() *banConversations {
	return &banConversations{drafts: make(map[int64]*banDraft)}
}

func (b *banConversations) get(adminID int64) *banDraft {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.drafts[adminID]
}

func (b *banConversations) set(adminID int64, d *banDraft) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if d == nil {
		delete(b.drafts, adminID)
		return
	}
	b.drafts[adminID] = d
}

// adminOnly gates a callback handler on the configured admin set.
func (b *Bot) adminOnly(h tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if !b.isAdmin(c.Sender().ID) {
			applog.Security("admin.denied", c.Sender().ID, map[string]any{"data": callbackData(c)})
			return c.Respond(&tele.CallbackResponse{Text: "You do not have access to this."})
		}
		return h(c)
	}
}

func (b *Bot) handleAdminCommand(c tele.Context) error {
	sender := c.Sender()
	if !b.isAdmin(sender.ID) {
		applog.Security("admin.denied", sender.ID, map[string]any{"cmd": "/admin"})
		return nil
	}
	b.bans.set(sender.ID, nil)
	applog.Info("admin.panel", sender.ID, nil)
	return c.Send("<b>Admin panel</b>", adminMenu())
}

func (b *Bot) showAdminPanel(c tele.Context) error {
	b.bans.set(c.Sender().ID, nil) // drop any half-finished dialog
	applog.Info("admin.panel", c.Sender().ID, nil)
	if err := b.show(c, "<b>Admin panel</b>", adminMenu()); err != nil {
		return err
	}
	return c.Respond(&tele.CallbackResponse{})
}

func (b *Bot) startBan(c tele.Context) error {
	b.bans.set(c.Sender().ID, &banDraft{step: banAskID})
	if err := b.show(c, "Send the Telegram ID of the user to ban:", backToMain()); err != nil {
		return err
	}
	return c.Respond(&tele.CallbackResponse{})
}

// handleText advances an admin's ban dialog; all other free text is ignored.
func (b *Bot) handleText(c tele.Context) error {
	sender := c.Sender()
	if !b.isAdmin(sender.ID) {
		return nil
	}
	draft := b.bans.get(sender.ID)
	if draft == nil {
		return nil
	}

	switch draft.step {
	case banAskID:
		id, ok := validate.UserID(c.Text())
		if !ok {
			return c.Send("Invalid ID format. Digits only, please try again.")
		}
		draft.target = id
		draft.step = banAskReason
		b.bans.set(sender.ID, draft)
		return c.Send("Got it. Now send the reason (or '-' to skip):")

	case banAskReason:
		reason := c.Text()
		if reason == "-" {
			reason = ""
		}
		b.bans.set(sender.ID, nil)
		if err := b.users.Ban(draft.target, reason, strconv.FormatInt(sender.ID, 10)); err != nil {
			applog.Error("admin.ban", sender.ID, err, map[string]any{"target": draft.target})
			return c.Send(fmt.Sprintf("❌ Could not ban user %d: %v", draft.target, err))
		}
		applog.Audit("admin.ban", sender.ID, map[string]any{"target": draft.target, "reason": reason})
		return c.Send(fmt.Sprintf("✅ User %d banned.", draft.target), adminMenu())
	}
	return nil
}

func (b *Bot) handleSetPrice(c tele.Context) error {
	sender := c.Sender()
	if !b.isAdmin(sender.ID) {
		applog.Security("admin.denied", sender.ID, map[string]any{"cmd": "/setprice"})
		return c.Send("You do not have access to this command.")
	}
	args := c.Args()
	if len(args) != 2 {
		return c.Send("Usage: /setprice <slug> <price>")
	}
	slug, ok := validate.Slug(args[0])
	if !ok {
		return c.Send("Invalid slug.")
	}
	price, ok := validate.Price(args[1])
	if !ok {
		return c.Send("Invalid price. Use whole units, e.g. /setprice cpu-monitor 500")
	}
	if err := b.catalog.SetPrice(slug, price); err != nil {
		if errors.Is(err, services.ErrWorkflowNotFound) {
			return c.Send("No workflow with that slug.")
		}
		applog.Error("admin.setprice", sender.ID, err, map[string]any{"slug": slug})
		return c.Send("Could not update the price. Please try again.")
	}
	applog.Audit("admin.setprice", sender.ID, map[string]any{"slug": slug, "price": price})
	return c.Send(fmt.Sprintf("✅ %s price set to %d %s.", slug, price, b.cfg.Currency))
}

func (b *Bot) handleUnban(c tele.Context) error {
	sender := c.Sender()
	if !b.isAdmin(sender.ID) {
		applog.Security("admin.denied", sender.ID, map[string]any{"cmd": "/unban"})
		return c.Send("You do not have access to this command.")
	}
	args := c.Args()
	if len(args) != 1 {
		return c.Send("Usage: /unban <telegram_id>")
	}
	id, ok := validate.UserID(args[0])
	if !ok {
		return c.Send("Invalid ID format.")
	}
	if err := b.users.Unban(id); err != nil {
		applog.Error("admin.unban", sender.ID, err, map[string]any{"target": id})
		return c.Send("Could not unban the user. Please try again.")
	}
	applog.Audit("admin.unban", sender.ID, map[string]any{"target": id})
	return c.Send(fmt.Sprintf("✅ User %d unbanned.", id))
}

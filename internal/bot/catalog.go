package bot

import (
	"fmt"
	"html"
	"strings"

	"flowmarket/internal/domain"
	applog "flowmarket/internal/log"
	"flowmarket/internal/validate"

	tele "gopkg.in/telebot.v3"
)

const catalogHeader = "🗂 <b>Workflow Catalog</b>\n\nPick a workflow:"

func (b *Bot) handleCatalogCommand(c tele.Context) error {
	workflows, err := b.catalog.ListActive("")
	if err != nil {
		applog.Error("catalog.list", c.Sender().ID, err, nil)
		return c.Send("The catalog is unavailable right now. Please try again later.")
	}
	if len(workflows) == 0 {
		return c.Send("The catalog is empty for now. New workflows are coming soon!", backToMain())
	}
	return c.Send(catalogHeader, catalogMenu(workflows, b.pricing.CurrentPrice(), b.cfg.Currency))
}

func (b *Bot) showCatalog(c tele.Context) error {
	if err := c.Respond(&tele.CallbackResponse{}); err != nil {
		return err
	}
	workflows, err := b.catalog.ListActive("")
	if err != nil {
		applog.Error("catalog.list", c.Sender().ID, err, nil)
		return b.show(c, "The catalog is unavailable right now. Please try again later.", backToMain())
	}
	if len(workflows) == 0 {
		return b.show(c, "The catalog is empty for now. New workflows are coming soon!", backToMain())
	}
	return b.show(c, catalogHeader, catalogMenu(workflows, b.pricing.CurrentPrice(), b.cfg.Currency))
}

func (b *Bot) showWorkflowCard(c tele.Context) error {
	slug := strings.TrimPrefix(callbackData(c), "workflow:")
	if s, ok := validate.Slug(slug); ok {
		slug = s
	} else {
		return c.Respond(&tele.CallbackResponse{Text: "😔 This item is no longer available.", ShowAlert: true})
	}

	wf, err := b.catalog.BySlug(slug)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "😔 This item is no longer available.", ShowAlert: true})
	}

	price := b.pricing.CurrentPrice()
	if err := b.show(c, b.cardText(wf, price), cardMenu(wf.Slug, price, b.cfg.Currency)); err != nil {
		return err
	}
	return c.Respond(&tele.CallbackResponse{})
}

func (b *Bot) cardText(wf domain.Workflow, price int64) string {
	return fmt.Sprintf(
		"📄 <b>%s</b>\n\n<b>Description:</b> %s\n\n<b>Version:</b> %s\n<b>Price:</b> %d %s",
		html.EscapeString(wf.Name), html.EscapeString(wf.Description), wf.Version, price, b.cfg.Currency,
	)
}

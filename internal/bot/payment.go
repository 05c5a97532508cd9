package bot

import (
	"errors"
	"strings"

	applog "flowmarket/internal/log"
	"flowmarket/internal/services"

	tele "gopkg.in/telebot.v3"
)

// handleBuy turns a buy button press into a provider invoice.
func (b *Bot) handleBuy(c tele.Context) error {
	sender := c.Sender()
	slug := strings.TrimPrefix(callbackData(c), "buy:")
	applog.Info("purchase.initiated", sender.ID, map[string]any{"slug": slug})

	inv, err := b.fulfill.NewInvoice(slug, sender.ID)
	if errors.Is(err, services.ErrWorkflowNotFound) {
		return c.Respond(&tele.CallbackResponse{Text: "😔 This item is no longer available.", ShowAlert: true})
	}
	if err != nil {
		applog.Error("purchase.invoice", sender.ID, err, map[string]any{"slug": slug})
		return c.Respond(&tele.CallbackResponse{Text: "Something went wrong. Please try again later.", ShowAlert: true})
	}

	invoice := &tele.Invoice{
		Title:       inv.Title,
		Description: inv.Description,
		Payload:     inv.Payload,
		Currency:    inv.Currency,
		Token:       b.cfg.ProviderToken,
		Prices:      []tele.Price{{Label: inv.Label, Amount: int(inv.Amount)}},
		Start:       inv.Start,
		NeedEmail:   true, // email feeds future update delivery
		SendEmail:   true,
	}
	if _, err := b.tb.Send(sender, invoice); err != nil {
		applog.Error("purchase.invoice.send", sender.ID, err, map[string]any{"slug": slug})
		return c.Respond(&tele.CallbackResponse{Text: "Could not create the invoice. Please try again.", ShowAlert: true})
	}
	return c.Respond(&tele.CallbackResponse{})
}

// handleCheckout answers the provider's pre-checkout query. This must respond
// within the provider's timeout or the transaction is voided.
func (b *Bot) handleCheckout(c tele.Context) error {
	q := c.PreCheckoutQuery()
	if err := b.fulfill.Preauthorize(q.Sender.ID); err != nil {
		return c.Accept("Payment cannot be processed right now.")
	}
	return c.Accept()
}

// handlePayment reacts to the provider's payment-succeeded notification and
// hands off to the fulfillment pipeline.
func (b *Bot) handlePayment(c tele.Context) error {
	sender := c.Sender()
	pay := c.Message().Payment
	if pay == nil {
		return nil
	}
	applog.Info("payment.captured", sender.ID, map[string]any{
		"amount": pay.Total, "currency": pay.Currency, "payload": pay.Payload,
	})

	capture := services.Capture{
		Payload:   pay.Payload,
		Amount:    int64(pay.Total),
		PaymentID: pay.TelegramChargeID,
		BuyerID:   sender.ID,
		Username:  sender.Username,
		Email:     pay.Order.Email,
	}
	// Confirm surfaces every failure to the buyer and the log on its own;
	// returning its error here would only double-report it.
	_ = b.fulfill.Confirm(capture)
	return nil
}

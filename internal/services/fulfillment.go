package services

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"flowmarket/internal/domain"
	applog "flowmarket/internal/log"
	"flowmarket/internal/repos"
	"flowmarket/internal/secrets"
	"flowmarket/internal/watermark"
)

// ErrUnfulfillable marks the fatal-after-payment condition: funds were
// captured for a workflow that can no longer be resolved. Never retried
// automatically; reconciliation is manual.
var ErrUnfulfillable = errors.New("captured payment cannot be fulfilled")

// Courier delivers messages and files to a buyer's private chat.
type Courier interface {
	SendMessage(userID int64, text string) error
	SendDocument(userID int64, path, caption string) error
}

// Inviter mints single-use, time-boxed invite links into the private channel.
type Inviter interface {
	CreateSingleUseLink(channelID int64, ttl time.Duration) (string, error)
}

// Personalizer produces and disposes of watermarked artifacts.
type Personalizer interface {
	Personalize(req watermark.Request) (string, error)
	Discard(path string) error
}

// Invoice is everything the provider needs to show a payment form.
type Invoice struct {
	Title       string
	Description string
	Payload     string
	Label       string
	Currency    string
	Amount      int64 // minor units
	Start       string
}

// Capture is the provider's payment-succeeded notification.
type Capture struct {
	Payload   string
	Amount    int64 // minor units, as the provider reports
	PaymentID string
	BuyerID   int64
	Username  string
	Email     string
}

const (
	msgCritical       = "A critical error occurred with your purchase. Please contact support, your payment reference is safe with us."
	msgLedgerDelay    = "There was a hiccup saving your purchase, but don't worry: your payment went through and your workflow is on its way."
	msgPrepareFailed  = "We could not prepare your file. Your payment succeeded, please contact support and we will sort it out."
	msgDeliveryFailed = "We could not deliver your file automatically. Your payment succeeded, please contact support."
	msgDelivered      = "🎉 Thank you for your purchase! Your workflow is attached above. Keep the file safe, it is licensed to you."
	msgInviteFailed   = "Your purchase is complete, but we could not create your community invite. Contact support to get access."
)

// FulfillmentService drives the purchase pipeline: invoice issuance,
// pre-authorization, payment confirmation, ledger write, personalization,
// delivery and the bonus invite. It is the only coordinator; collaborators
// never call back into it.
type FulfillmentService struct {
	Catalog      *CatalogService
	Pricing      *PricingService
	Purchases    *repos.PurchaseRepo
	Users        *repos.UserRepo
	Deliveries   *repos.DeliveryLogRepo
	Personalizer Personalizer
	Courier      Courier
	Inviter      Inviter
	Emails       *secrets.Box // nil means emails are stored as received

	WorkflowsDir string
	Currency     string
	ChannelID    int64 // 0 disables the bonus invite
	InviteTTL    time.Duration
}

// NewInvoice moves a purchase from Requested to Invoiced. Nothing persistent
// is written; an abandoned invoice needs no cleanup.
func (s *FulfillmentService) NewInvoice(slug string, buyerID int64) (Invoice, error) {
	wf, err := s.Catalog.BySlug(slug)
	if err != nil {
		return Invoice{}, err
	}

	price := s.Pricing.CurrentPrice()
	intent := domain.PurchaseIntent{Slug: wf.Slug, BuyerID: buyerID}
	applog.Info("purchase.invoice", buyerID, map[string]any{"slug": wf.Slug, "price": price})

	return Invoice{
		Title:       "Purchase: " + wf.Name,
		Description: "Access to n8n workflow: " + wf.Description,
		Payload:     intent.Payload(),
		Label:       "Workflow: " + wf.Name,
		Currency:    s.Currency,
		Amount:      price * 100,
		Start:       "buy_" + wf.Slug,
	}, nil
}

// Preauthorize is the provider's final go/no-go before capturing funds, and
// the single pre-capture veto point. The policy is to approve unconditionally;
// a missed answer voids the transaction on the provider side.
func (s *FulfillmentService) Preauthorize(buyerID int64) error {
	applog.Info("purchase.precheckout.approve", buyerID, nil)
	return nil
}

// Confirm runs the pipeline from Paid to Completed. Money has already moved:
// from here on, no failure may leave the buyer with captured funds and zero
// communication.
func (s *FulfillmentService) Confirm(pay Capture) error {
	amount := pay.Amount / 100 // back to whole units

	intent, err := domain.ParseIntent(pay.Payload)
	if err != nil {
		applog.Error("purchase.payload.parse", pay.BuyerID, err, map[string]any{
			"payload": pay.Payload, "payment_id": pay.PaymentID,
		})
		s.tell(pay.BuyerID, msgCritical)
		return fmt.Errorf("%w: %v", ErrUnfulfillable, err)
	}
	buyer := intent.BuyerID

	wf, err := s.Catalog.BySlug(intent.Slug)
	if err != nil {
		// Funds captured for a good that cannot be resolved. No automatic
		// refund; flag for manual reconciliation.
		applog.Error("purchase.workflow.vanished", buyer, err, map[string]any{
			"slug": intent.Slug, "payment_id": pay.PaymentID, "amount": amount,
		})
		s.tell(pay.BuyerID, msgCritical)
		return fmt.Errorf("%w: slug %q", ErrUnfulfillable, intent.Slug)
	}

	// Recorded. A ledger failure is logged and reported but never blocks
	// delivery of goods already paid for.
	recorded := false
	created := false
	email := pay.Email
	if s.Emails != nil {
		if sealed, serr := s.Emails.Seal(email); serr == nil {
			email = sealed
		} else {
			applog.Error("purchase.email.seal", buyer, serr, nil)
		}
	}
	if _, ok, ierr := s.Purchases.Insert(domain.Purchase{
		UserID:     buyer,
		WorkflowID: wf.ID,
		Price:      amount,
		PaymentID:  pay.PaymentID,
		Email:      email,
	}); ierr != nil {
		applog.Error("purchase.record", buyer, ierr, map[string]any{
			"slug": wf.Slug, "payment_id": pay.PaymentID,
		})
		s.tell(pay.BuyerID, msgLedgerDelay)
	} else {
		recorded = true
		created = ok
		if created {
			if uerr := s.Users.AddSpent(buyer, amount); uerr != nil {
				applog.Error("purchase.total_spent", buyer, uerr, nil)
			}
		}
	}

	// One increment per qualifying sale: the captured amount must equal the
	// promotional price exactly. A deduplicated replay never re-increments.
	if amount == PriceEarlyBird && (!recorded || created) {
		if perr := s.Pricing.RecordPromoSale(); perr != nil {
			applog.Error("pricing.promo.increment", buyer, perr, map[string]any{"payment_id": pay.PaymentID})
		} else {
			applog.Info("pricing.promo.increment", buyer, nil)
		}
	}

	// Personalized. Failure after payment is fatal to delivery and always
	// escalated; the money already moved.
	src := wf.Filepath
	if !filepath.IsAbs(src) {
		src = filepath.Join(s.WorkflowsDir, src)
	}
	artifact, err := s.Personalizer.Personalize(watermark.Request{
		SourcePath: src,
		Slug:       wf.Slug,
		BuyerID:    buyer,
		Username:   pay.Username,
		PaymentID:  pay.PaymentID,
		Version:    wf.Version,
	})
	if err != nil {
		applog.Error("purchase.personalize", buyer, err, map[string]any{
			"slug": wf.Slug, "payment_id": pay.PaymentID,
		})
		s.tell(pay.BuyerID, msgPrepareFailed)
		s.logDelivery(buyer, wf.ID, "failed", err)
		return err
	}

	// Delivered. The artifact is removed no matter how the send goes; it must
	// not outlive the attempt.
	caption := fmt.Sprintf("%s v%s", wf.Name, wf.Version)
	sendErr := s.Courier.SendDocument(pay.BuyerID, artifact, caption)
	if derr := s.Personalizer.Discard(artifact); derr != nil {
		applog.Error("purchase.artifact.discard", buyer, derr, map[string]any{"path": artifact})
	}
	if sendErr != nil {
		applog.Error("purchase.deliver", buyer, sendErr, map[string]any{
			"slug": wf.Slug, "payment_id": pay.PaymentID,
		})
		s.tell(pay.BuyerID, msgDeliveryFailed)
		s.logDelivery(buyer, wf.ID, "failed", sendErr)
		return sendErr
	}
	s.logDelivery(buyer, wf.ID, "success", nil)
	s.tell(pay.BuyerID, msgDelivered)

	// Completed, with a best-effort bonus invite. No invite configuration is
	// a no-op, not an error.
	if s.ChannelID != 0 {
		ttl := s.InviteTTL
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		link, ierr := s.Inviter.CreateSingleUseLink(s.ChannelID, ttl)
		if ierr != nil {
			applog.Error("purchase.invite", buyer, ierr, map[string]any{"payment_id": pay.PaymentID})
			s.tell(pay.BuyerID, msgInviteFailed)
		} else {
			s.tell(pay.BuyerID, "🎁 Bonus: join our private community (single-use link, valid 24h):\n"+link)
		}
	}

	applog.Audit("purchase.completed", buyer, map[string]any{
		"slug": wf.Slug, "payment_id": pay.PaymentID, "amount": amount,
	})
	return nil
}

func (s *FulfillmentService) tell(userID int64, text string) {
	if err := s.Courier.SendMessage(userID, text); err != nil {
		applog.Error("purchase.notify", userID, err, nil)
	}
}

func (s *FulfillmentService) logDelivery(userID, workflowID int64, status string, cause error) {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	if err := s.Deliveries.Log(userID, workflowID, status, msg); err != nil {
		applog.Error("delivery.log", userID, err, nil)
	}
}

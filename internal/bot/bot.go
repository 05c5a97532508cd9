package bot

import (
	"time"

	"flowmarket/internal/config"
	applog "flowmarket/internal/log"
	"flowmarket/internal/repos"
	"flowmarket/internal/services"

	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v3"
	tmw "gopkg.in/telebot.v3/middleware"
)

// Deps bundles everything the bot handlers need.
type Deps struct {
	Users       *repos.UserRepo
	Purchases   *repos.PurchaseRepo
	Catalog     *services.CatalogService
	Pricing     *services.PricingService
	Fulfillment *services.FulfillmentService
}

type Bot struct {
	tb        *tele.Bot
	cfg       config.Config
	users     *repos.UserRepo
	purchases *repos.PurchaseRepo
	catalog   *services.CatalogService
	pricing   *services.PricingService
	fulfill   *services.FulfillmentService
	admins    map[int64]bool
	bans      *banConversations
	callbacks *Router
}

// NewTelebot builds the long-polling Telegram client. Separated from New so
// main can hand the client to the courier before wiring the fulfillment
// service.
func NewTelebot(cfg config.Config) (*tele.Bot, error) {
	return tele.NewBot(tele.Settings{
		Token:     cfg.BotToken,
		Poller:    &tele.LongPoller{Timeout: 10 * time.Second},
		ParseMode: tele.ModeHTML,
		OnError: func(err error, c tele.Context) {
			var uid int64
			if c != nil && c.Sender() != nil {
				uid = c.Sender().ID
			}
			applog.Error("bot.handler", uid, err, nil)
		},
	})
}

func New(tb *tele.Bot, cfg config.Config, deps Deps) *Bot {
	admins := make(map[int64]bool, len(cfg.AdminIDs))
	for _, id := range cfg.AdminIDs {
		admins[id] = true
	}
	b := &Bot{
		tb:        tb,
		cfg:       cfg,
		users:     deps.Users,
		purchases: deps.Purchases,
		catalog:   deps.Catalog,
		pricing:   deps.Pricing,
		fulfill:   deps.Fulfillment,
		admins:    admins,
		bans:      newBanConversations(),
	}
	b.routes()
	return b
}

func (b *Bot) routes() {
	b.tb.Use(tmw.Recover())
	b.tb.Use(RateLimit(rate.Every(2*time.Second), 3))
	b.tb.Use(BanCheck(b.users))

	b.tb.Handle("/start", b.handleStart)
	b.tb.Handle("/help", b.handleHelp)
	b.tb.Handle("/catalog", b.handleCatalogCommand)
	b.tb.Handle("/admin", b.handleAdminCommand)
	b.tb.Handle("/setprice", b.handleSetPrice)
	b.tb.Handle("/unban", b.handleUnban)
	b.tb.Handle(tele.OnCheckout, b.handleCheckout)
	b.tb.Handle(tele.OnPayment, b.handlePayment)
	b.tb.Handle(tele.OnText, b.handleText)

	// Callback routes are evaluated in registration order, first match wins.
	r := &Router{}
	r.On(DataIs("main_menu"), b.showMainMenu)
	r.On(DataIs("catalog_menu"), b.showCatalog)
	r.On(DataHasPrefix("workflow:"), b.showWorkflowCard)
	r.On(DataHasPrefix("buy:"), b.handleBuy)
	r.On(DataIs("admin_panel"), b.adminOnly(b.showAdminPanel))
	r.On(DataIs("admin:ban_user"), b.adminOnly(b.startBan))
	r.On(DataIs("support_menu"), b.showSupport)
	r.On(DataIs("about_bot"), b.showAbout)
	r.On(DataIs("profile_menu"), b.showProfile)
	b.callbacks = r
	b.tb.Handle(tele.OnCallback, r.Handle)
}

func (b *Bot) Start() {
	b.tb.Start()
}

func (b *Bot) Stop() {
	b.tb.Stop()
}

func (b *Bot) isAdmin(id int64) bool { return b.admins[id] }

// show edits the message behind a callback in place, falling back to a fresh
// message when the original can no longer be edited.
func (b *Bot) show(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if err := c.Edit(text, markup); err != nil {
		return c.Send(text, markup)
	}
	return nil
}

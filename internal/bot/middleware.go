package bot

import (
	"sync"

	applog "flowmarket/internal/log"
	"flowmarket/internal/repos"

	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v3"
)

// BanCheck blocks banned users before any handler runs. The support callback
// is let through so a banned user can still reach support.
func BanCheck(users *repos.UserRepo) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return next(c)
			}
			if cb := c.Callback(); cb != nil && cb.Data == "support_menu" {
				return next(c)
			}
			banned, err := users.IsBanned(sender.ID)
			if err != nil {
				// A storage error must not lock everyone out.
				applog.Error("ban.check", sender.ID, err, nil)
				return next(c)
			}
			if banned {
				applog.Security("ban.blocked", sender.ID, map[string]any{"username": sender.Username})
				return c.Send("You have been banned from this bot. Contact support to learn why.", supportMenu())
			}
			return next(c)
		}
	}
}

// RateLimit applies a per-user token bucket. Updates over the limit are
// dropped silently; Telegram re-delivery is not a concern for chat commands.
func RateLimit(limit rate.Limit, burst int) tele.MiddlewareFunc {
	var mu sync.Mutex
	buckets := make(map[int64]*rate.Limiter)

	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return next(c)
			}
			mu.Lock()
			lim, ok := buckets[sender.ID]
			if !ok {
				if len(buckets) >= 10_000 { // bound memory under churn
					buckets = make(map[int64]*rate.Limiter)
				}
				lim = rate.NewLimiter(limit, burst)
				buckets[sender.ID] = lim
			}
			mu.Unlock()
			if !lim.Allow() {
				applog.Security("rate.limited", sender.ID, nil)
				return nil
			}
			return next(c)
		}
	}
}

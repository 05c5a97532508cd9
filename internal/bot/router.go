package bot

import (
	"strings"

	tele "gopkg.in/telebot.v3"
)

// route pairs a predicate with its handler.
type route struct {
	match func(tele.Context) bool
	fn    tele.HandlerFunc
}

// Router dispatches callback events to the first route whose predicate
// matches, in registration order. Unmatched callbacks are acknowledged and
// dropped.
type Router struct {
	routes []route
}

func (r *Router) On(match func(tele.Context) bool, fn tele.HandlerFunc) {
	r.routes = append(r.routes, route{match: match, fn: fn})
}

func (r *Router) Handle(c tele.Context) error {
	for _, rt := range r.routes {
		if rt.match(c) {
			return rt.fn(c)
		}
	}
	return c.Respond(&tele.CallbackResponse{})
}

func callbackData(c tele.Context) string {
	if cb := c.Callback(); cb != nil {
		return strings.TrimSpace(cb.Data)
	}
	return ""
}

func DataIs(want string) func(tele.Context) bool {
	return func(c tele.Context) bool { return callbackData(c) == want }
}

func DataHasPrefix(prefix string) func(tele.Context) bool {
	return func(c tele.Context) bool { return strings.HasPrefix(callbackData(c), prefix) }
}

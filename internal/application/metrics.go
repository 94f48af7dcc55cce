package application

import "expvar"

// Published under /api/debug/vars.
var (
	likeToggles   = expvar.NewMap("blog_like_toggles")
	notifications = expvar.NewMap("blog_notifications")
)

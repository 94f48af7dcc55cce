package templates

import (
	"fmt"
	"strings"
	"time"

	"github.com/oksasatya/go-ddd-blog/config"
)

const excerptLen = 140

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

// WithExcerpt attaches the first characters of a comment body.
func WithExcerpt(content string) Option {
	return func(d *EmailData) { d.Excerpt = Excerpt(content, excerptLen) }
}

func Excerpt(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "..."
}

// NewNotificationData fills the common fields from config and applies opts.
func NewNotificationData(cfg *config.Config, typ, name, recipient, actorName string, postID int64, postTitle string, opts ...Option) map[string]any {
	d := EmailData{
		Name:           name,
		RecipientEmail: recipient,
		Type:           typ,

		CompanyName: cfg.CompanyName,
		AppName:     cfg.AppName,

		SupportURL:     cfg.SupportURL,
		UnsubscribeURL: cfg.UnsubscribeURL,

		ActorName: actorName,
		PostID:    postID,
		PostTitle: postTitle,
	}
	if base := strings.TrimRight(cfg.FrontendURL, "/"); base != "" {
		d.PostURL = fmt.Sprintf("%s/posts/%d", base, postID)
	}
	for _, opt := range opts {
		opt(&d)
	}
	return ToMap(d)
}

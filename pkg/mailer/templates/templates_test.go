package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-blog/config"
)

func TestRenderNotification(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{AppName: "blog", CompanyName: "Acme", FrontendURL: "https://blog.example.com/"}

	cases := []struct {
		typ     string
		subject string
		body    string
	}{
		{CommentCreated, `Bob commented on "Hello"`, "left a comment"},
		{ReplyCreated, "Bob replied to your comment", "replied to your comment"},
		{PostLiked, `Bob liked "Hello"`, "liked your post"},
	}
	for _, tc := range cases {
		t.Run(tc.typ, func(t *testing.T) {
			data := NewNotificationData(cfg, tc.typ, "Ann", "ann@example.com", "Bob", 7, "Hello",
				WithExcerpt("first!"), WithTime(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))

			subject, text, html, err := Render(Notification, data)
			require.NoError(t, err)
			assert.Equal(t, tc.subject, subject)
			assert.Contains(t, text, tc.body)
			assert.Contains(t, text, "https://blog.example.com/posts/7")
			assert.Contains(t, html, "Hi Ann")
			assert.Contains(t, text, "Acme")
		})
	}
}

func TestExcerpt(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", Excerpt("  short ", 10))
	assert.Equal(t, "abc...", Excerpt("abcdef", 3))
}

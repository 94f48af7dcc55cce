package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-blog/config"
	"github.com/oksasatya/go-ddd-blog/pkg/mailer"
	mailtpl "github.com/oksasatya/go-ddd-blog/pkg/mailer/templates"
)

type sent struct{ to, subject, text, html string }

type fakeSender struct {
	err  error
	sent []sent
}

func (f *fakeSender) Send(_ context.Context, to, subject, text, html string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sent{to, subject, text, html})
	return nil
}

func newTestWorker(s mailer.Sender) *worker {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &worker{Sender: s, Logger: logger, Timeout: time.Second}
}

func notificationBody(t *testing.T) []byte {
	t.Helper()
	cfg := &config.Config{AppName: "blog", FrontendURL: "https://blog.example.com"}
	job := mailer.EmailJob{
		To:       "ann@example.com",
		Template: mailtpl.Notification,
		Data:     mailtpl.NewNotificationData(cfg, mailtpl.PostLiked, "Ann", "ann@example.com", "Bob", 3, "Hello"),
	}
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return b
}

func TestHandleRendersAndSends(t *testing.T) {
	t.Parallel()
	s := &fakeSender{}
	w := newTestWorker(s)

	assert.Equal(t, ack, w.handle(context.Background(), notificationBody(t)))
	require.Len(t, s.sent, 1)
	assert.Equal(t, "ann@example.com", s.sent[0].to)
	assert.Equal(t, `Bob liked "Hello"`, s.sent[0].subject)
	assert.Contains(t, s.sent[0].text, "https://blog.example.com/posts/3")
	assert.NotEmpty(t, s.sent[0].html)
}

func TestHandleRequeuesSendFailure(t *testing.T) {
	t.Parallel()
	w := newTestWorker(&fakeSender{err: errors.New("mailgun down")})

	assert.Equal(t, retry, w.handle(context.Background(), notificationBody(t)))
}

func TestHandleDropsBadJobs(t *testing.T) {
	t.Parallel()
	s := &fakeSender{}
	w := newTestWorker(s)
	ctx := context.Background()

	assert.Equal(t, drop, w.handle(ctx, []byte("{not json")))
	assert.Equal(t, drop, w.handle(ctx, []byte(`{"template":"notification"}`)))
	assert.Equal(t, drop, w.handle(ctx, []byte(`{"to":"ann@example.com"}`)))
	assert.Equal(t, drop, w.handle(ctx, []byte(`{"to":"ann@example.com","template":"missing"}`)))
	assert.Empty(t, s.sent)
}

func TestHandlePlainTextJob(t *testing.T) {
	t.Parallel()
	s := &fakeSender{}
	w := newTestWorker(s)

	body := []byte(`{"to":"ann@example.com","text":"hello","data":{"Type":"comment_created"}}`)
	assert.Equal(t, ack, w.handle(context.Background(), body))
	require.Len(t, s.sent, 1)
	assert.Equal(t, "New comment on your post", s.sent[0].subject)
}

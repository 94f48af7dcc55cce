package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-blog/config"
	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-blog/pkg/mailer"
	mailtpl "github.com/oksasatya/go-ddd-blog/pkg/mailer/templates"
)

type capturePublisher struct {
	jobs []mailer.EmailJob
	err  error
}

func (p *capturePublisher) PublishJSON(_ context.Context, body any) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, body.(mailer.EmailJob))
	return nil
}

func TestQueueNotifier_Notify(t *testing.T) {
	pub := &capturePublisher{}
	n := NewQueueNotifier(pub, &config.Config{AppName: "blog", FrontendURL: "https://blog.example.com"}, quietLogger())

	n.Notify(context.Background(), Activity{
		Type:      mailtpl.CommentCreated,
		Recipient: &entity.User{ID: 1, Name: "Ann", Email: "ann@example.com"},
		Actor:     &entity.Actor{ID: 2, Name: "Bob"},
		Post:      &entity.Post{ID: 10, Title: "Hello"},
		Content:   "nice post",
	})

	require.Len(t, pub.jobs, 1)
	job := pub.jobs[0]
	assert.Equal(t, "ann@example.com", job.To)
	assert.Equal(t, mailtpl.Notification, job.Template)
	assert.Equal(t, mailtpl.CommentCreated, job.Event)
	assert.Equal(t, int64(10), job.PostID)
	assert.Equal(t, "Bob", job.Data["ActorName"])
	assert.Equal(t, "nice post", job.Data["Excerpt"])
	assert.Equal(t, "https://blog.example.com/posts/10", job.Data["PostURL"])
}

func TestQueueNotifier_PublishFailureIsSwallowed(t *testing.T) {
	pub := &capturePublisher{err: errors.New("channel closed")}
	n := NewQueueNotifier(pub, &config.Config{}, quietLogger())

	assert.NotPanics(t, func() {
		n.Notify(context.Background(), Activity{
			Type:      mailtpl.PostLiked,
			Recipient: &entity.User{ID: 1, Email: "ann@example.com"},
			Post:      &entity.Post{ID: 10},
		})
	})
}

func TestNotifySkipsSelfActivity(t *testing.T) {
	rec := &recordingNotifier{}
	self := &entity.User{ID: 1}

	notify(context.Background(), rec, Activity{Recipient: self, Actor: &entity.Actor{ID: 1}})
	notify(context.Background(), nil, Activity{Recipient: self, Actor: &entity.Actor{ID: 2}})
	notify(context.Background(), rec, Activity{Recipient: self, Actor: &entity.Actor{ID: 2}})

	assert.Len(t, rec.sent, 1)
}

package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-blog/pkg/helpers"
	"github.com/oksasatya/go-ddd-blog/pkg/mailer"
)

// outcome of one delivery
type outcome int

const (
	ack outcome = iota
	drop
	retry
)

type worker struct {
	Sender  mailer.Sender
	Logger  *logrus.Logger
	Timeout time.Duration
}

// handle decodes, renders and sends one job. Malformed or unrenderable jobs are
// dropped, send failures are requeued.
func (w *worker) handle(ctx context.Context, body []byte) outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		helpers.LogError(w.Logger, "bad message", err, nil)
		return drop
	}
	if job.To == "" {
		w.Logger.Warn("job without recipient dropped")
		return drop
	}
	if job.Empty() {
		w.Logger.WithFields(job.LogFields()).Warn("empty email dropped")
		return drop
	}
	if err := helpers.RenderJob(&job); err != nil {
		helpers.LogError(w.Logger, "render failed", err, logrus.Fields{"template": job.Template})
		return drop
	}

	c, cancel := context.WithTimeout(ctx, w.Timeout)
	defer cancel()
	if err := w.Sender.Send(c, job.To, job.Subject, job.Text, job.HTML); err != nil {
		helpers.LogError(w.Logger, "send failed", err, job.LogFields())
		return retry
	}
	w.Logger.WithFields(job.LogFields()).WithField("subject", job.Subject).Info("email sent")
	return ack
}

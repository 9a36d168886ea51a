// Package notify implements the notification dispatcher: the single fan-out
// entry point that durably records a notification, then best-effort delivers
// it over the push and email channels.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/fernwork/taskboard-api/internal/domain"
	"github.com/fernwork/taskboard-api/internal/platform/logger"
	"github.com/fernwork/taskboard-api/internal/store"
)

// Payload is the user-facing content of one dispatch.
type Payload struct {
	Title  string
	Body   string
	Type   domain.NotificationType
	TaskID *uuid.UUID
}

// Options selects the delivery channels for one dispatch and carries the
// figures the email template renders. Email delivery requires the task data
// and time-remaining fields to be populated.
type Options struct {
	SendPush  bool
	SendEmail bool

	TaskTitle   string
	DueDate     time.Time
	HoursLeft   int
	MinutesLeft int
	Timezone    string
}

// DefaultOptions returns the default channel selection: push on, email off.
func DefaultOptions() Options {
	return Options{SendPush: true}
}

// PushSender delivers one message to a batch of device tokens.
type PushSender interface {
	// SendBatch sends the message to every token in the batch and returns the
	// number of tokens that accepted it. A per-token rejection is not an
	// error; only a channel-level failure (gateway unreachable, bad response)
	// returns one.
	SendBatch(
		ctx context.Context,
		tokens []string,
		title, body string,
		data map[string]string,
	) (int, error)
}

// EmailSender delivers one rendered email.
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Dispatcher fans one logical notification out to a durable record plus zero
// or more delivery channels. Channel failures never undo the record: step 1
// is the source of truth for the UI, steps 2 and 3 are best effort.
type Dispatcher struct {
	notifications store.NotificationStore
	users         store.UserStore
	push          PushSender
	email         EmailSender
	batchSize     int
	emailLimiter  *rate.Limiter
	logger        *slog.Logger
}

// NewDispatcher creates a Dispatcher. push and email may be nil, which
// disables the respective channel (the durable record is still written).
// emailRatePerSecond caps outbound email sends; zero or negative means
// unlimited.
func NewDispatcher(
	notifications store.NotificationStore,
	users store.UserStore,
	push PushSender,
	email EmailSender,
	batchSize int,
	emailRatePerSecond float64,
	log *slog.Logger,
) *Dispatcher {
	if batchSize <= 0 {
		batchSize = 500
	}

	limit := rate.Inf
	if emailRatePerSecond > 0 {
		limit = rate.Limit(emailRatePerSecond)
	}

	if log == nil {
		log = slog.Default()
	}

	return &Dispatcher{
		notifications: notifications,
		users:         users,
		push:          push,
		email:         email,
		batchSize:     batchSize,
		emailLimiter:  rate.NewLimiter(limit, 1),
		logger:        log.With("component", "notification_dispatcher"),
	}
}

// Dispatch records the notification and delivers it over the selected
// channels. Exactly one NotificationRecord is created per call regardless of
// push/email outcomes; only a failure to write that record is returned as an
// error. Returns the created record's ID.
func (d *Dispatcher) Dispatch(
	ctx context.Context,
	userID uuid.UUID,
	payload Payload,
	opts Options,
) (uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, d.logger)

	rec, err := domain.NewNotificationRecord(
		userID, payload.Title, payload.Body, payload.Type, payload.TaskID,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid notification payload: %w", err)
	}

	// Step 1: the durable record. Failure here is fatal, nothing downstream
	// may run.
	if err := d.notifications.Create(ctx, rec); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create notification record: %w", err)
	}

	// Step 2: push, best effort.
	if opts.SendPush && d.push != nil {
		delivered := d.sendPush(ctx, userID, payload)
		log.Debug("push delivery finished",
			"notification_id", rec.ID,
			"user_id", userID,
			"delivered", delivered)
	}

	// Step 3: email, best effort.
	if opts.SendEmail && d.email != nil {
		d.sendEmail(ctx, userID, payload, opts)
	}

	return rec.ID, nil
}

// sendPush looks up the recipient's tokens and sends the message to all of
// them in bounded-size batches. A failed token lookup or an empty token set
// skips the step silently. Returns true if at least one token accepted the
// message.
func (d *Dispatcher) sendPush(ctx context.Context, userID uuid.UUID, payload Payload) bool {
	log := logger.FromContextOrDefault(ctx, d.logger)

	tokens, err := d.users.GetPushTokens(ctx, userID)
	if err != nil {
		log.Debug("push token lookup failed, skipping push",
			"user_id", userID,
			"error", err)
		return false
	}
	if len(tokens) == 0 {
		return false
	}

	data := map[string]string{"type": string(payload.Type)}
	if payload.TaskID != nil {
		data["task_id"] = payload.TaskID.String()
	}

	succeeded := 0
	for start := 0; start < len(tokens); start += d.batchSize {
		end := start + d.batchSize
		if end > len(tokens) {
			end = len(tokens)
		}

		n, err := d.push.SendBatch(ctx, tokens[start:end], payload.Title, payload.Body, data)
		if err != nil {
			// One failing batch must not abort delivery to the others.
			log.Warn("push batch failed",
				"user_id", userID,
				"batch_size", end-start,
				"error", err)
			continue
		}
		succeeded += n
	}

	return succeeded > 0
}

// sendEmail looks up the recipient and sends one rendered email. A disabled
// preference or missing recipient skips silently; a send failure is logged
// and swallowed, since the notification record already succeeded.
func (d *Dispatcher) sendEmail(
	ctx context.Context,
	userID uuid.UUID,
	payload Payload,
	opts Options,
) {
	log := logger.FromContextOrDefault(ctx, d.logger)

	user, err := d.users.GetByID(ctx, userID)
	if err != nil {
		log.Debug("recipient lookup failed, skipping email",
			"user_id", userID,
			"error", err)
		return
	}
	if !user.EmailEnabled {
		return
	}

	loc := user.Location()
	if opts.Timezone != "" {
		if parsed, err := time.LoadLocation(opts.Timezone); err == nil {
			loc = parsed
		}
	}

	htmlBody, err := renderReminderEmail(payload, opts, loc)
	if err != nil {
		log.Error("failed to render reminder email",
			"user_id", userID,
			"error", err)
		return
	}

	if err := d.emailLimiter.Wait(ctx); err != nil {
		log.Warn("email rate limiter interrupted", "user_id", userID, "error", err)
		return
	}

	if err := d.email.Send(ctx, user.Email, payload.Title, htmlBody); err != nil {
		log.Warn("email send failed",
			"user_id", userID,
			"error", err)
	}
}

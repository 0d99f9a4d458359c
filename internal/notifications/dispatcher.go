package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"paragraph/internal/models"
	"paragraph/internal/repository"
)

// EventType identifies the triggering action behind a notification event.
type EventType string

const (
	EventCommentApproved EventType = "commentApproved"
	EventPostLiked       EventType = "postLiked"
	EventPostPublished   EventType = "postPublished"
	EventUserFollowed    EventType = "userFollowed"
)

// Event is published by a handler after its triggering write has committed.
// Only the IDs relevant to the event type are set.
type Event struct {
	Type      EventType
	ActorID   uint
	PostID    uint
	CommentID uint
	// RecipientID is the followed user for EventUserFollowed.
	RecipientID uint
}

// Dispatcher consumes events on a buffered channel and materializes
// notification rows plus best-effort Redis publishes. All failures are
// logged and swallowed: the triggering action has already committed and a
// lost notification is the accepted outcome (fire-and-forget contract).
type Dispatcher struct {
	users    repository.UserRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
	notifs   repository.NotificationRepository
	notifier *Notifier
	logger   *slog.Logger

	events chan Event
	wg     sync.WaitGroup
	once   sync.Once
}

// NewDispatcher wires a dispatcher over the given repositories. notifier may
// be nil when Redis is unavailable.
func NewDispatcher(
	users repository.UserRepository,
	posts repository.PostRepository,
	comments repository.CommentRepository,
	notifs repository.NotificationRepository,
	notifier *Notifier,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		users:    users,
		posts:    posts,
		comments: comments,
		notifs:   notifs,
		notifier: notifier,
		logger:   logger,
		events:   make(chan Event, 256),
	}
}

// Start launches the consuming goroutine. Safe to call once.
func (d *Dispatcher) Start(ctx context.Context) {
	d.once.Do(func() {
		go func() {
			for {
				select {
				case ev := <-d.events:
					d.dispatch(ctx, ev)
					d.wg.Done()
				case <-ctx.Done():
					return
				}
			}
		}()
	})
}

// Publish enqueues an event without blocking the request path. When the
// queue is full the event is dropped and logged, never propagated.
func (d *Dispatcher) Publish(ev Event) {
	d.wg.Add(1)
	select {
	case d.events <- ev:
	default:
		d.wg.Done()
		d.logger.Warn("notification event dropped, queue full", slog.String("type", string(ev.Type)))
	}
}

// Flush blocks until every published event has been processed. Used by
// graceful shutdown and tests.
func (d *Dispatcher) Flush() {
	d.wg.Wait()
}

func (d *Dispatcher) dispatch(ctx context.Context, ev Event) {
	var err error
	switch ev.Type {
	case EventCommentApproved:
		err = d.onCommentApproved(ctx, ev)
	case EventPostLiked:
		err = d.onPostLiked(ctx, ev)
	case EventPostPublished:
		err = d.onPostPublished(ctx, ev)
	case EventUserFollowed:
		err = d.onUserFollowed(ctx, ev)
	default:
		d.logger.Warn("unknown notification event", slog.String("type", string(ev.Type)))
		return
	}
	if err != nil {
		d.logger.Error("notification fan-out failed",
			slog.String("type", string(ev.Type)),
			slog.String("error", err.Error()),
		)
	}
}

// onCommentApproved notifies the post author and, for replies, the parent
// comment's author. The commenter never gets notified about their own action.
func (d *Dispatcher) onCommentApproved(ctx context.Context, ev Event) error {
	comment, err := d.comments.GetByID(ctx, ev.CommentID)
	if err != nil {
		return err
	}
	post, err := d.posts.GetByID(ctx, comment.PostID)
	if err != nil {
		return err
	}
	commenter, err := d.users.GetByID(ctx, comment.UserID)
	if err != nil {
		return err
	}

	if comment.UserID != post.UserID {
		d.store(ctx, models.Notification{
			UserID:  post.UserID,
			ActorID: &comment.UserID,
			Type:    models.NotificationNewComment,
			Message: fmt.Sprintf(models.MsgNotifNewComment, displayName(commenter), post.Title),
			PostID:  &post.ID,
		})
	}

	if comment.ParentID != nil {
		parent, err := d.comments.GetByID(ctx, *comment.ParentID)
		if err != nil {
			return err
		}
		if parent.UserID != comment.UserID {
			d.store(ctx, models.Notification{
				UserID:  parent.UserID,
				ActorID: &comment.UserID,
				Type:    models.NotificationNewComment,
				Message: fmt.Sprintf(models.MsgNotifNewReply, displayName(commenter)),
				PostID:  &post.ID,
			})
		}
	}
	return nil
}

// onPostLiked notifies the post author on toggle-on only; toggle-off never
// reaches the dispatcher.
func (d *Dispatcher) onPostLiked(ctx context.Context, ev Event) error {
	post, err := d.posts.GetByID(ctx, ev.PostID)
	if err != nil {
		return err
	}
	if ev.ActorID == post.UserID {
		return nil
	}
	liker, err := d.users.GetByID(ctx, ev.ActorID)
	if err != nil {
		return err
	}
	d.store(ctx, models.Notification{
		UserID:  post.UserID,
		ActorID: &ev.ActorID,
		Type:    models.NotificationNewLike,
		Message: fmt.Sprintf(models.MsgNotifNewLike, displayName(liker), post.Title),
		PostID:  &post.ID,
	})
	return nil
}

// onPostPublished fans out one row per follower of the author, then tells
// the author which admin published the post.
func (d *Dispatcher) onPostPublished(ctx context.Context, ev Event) error {
	post, err := d.posts.GetByID(ctx, ev.PostID)
	if err != nil {
		return err
	}
	author, err := d.users.GetByID(ctx, post.UserID)
	if err != nil {
		return err
	}
	admin, err := d.users.GetByID(ctx, ev.ActorID)
	if err != nil {
		return err
	}

	followerIDs, err := d.users.FollowerIDs(ctx, post.UserID)
	if err != nil {
		return err
	}
	batch := make([]models.Notification, 0, len(followerIDs))
	for _, followerID := range followerIDs {
		batch = append(batch, models.Notification{
			UserID:  followerID,
			ActorID: &post.UserID,
			Type:    models.NotificationNewPost,
			Message: fmt.Sprintf(models.MsgNotifNewPost, displayName(author), post.Title),
			PostID:  &post.ID,
		})
	}
	if err := d.notifs.CreateBatch(ctx, batch); err != nil {
		return err
	}
	for i := range batch {
		d.publishLive(ctx, &batch[i])
	}

	d.store(ctx, models.Notification{
		UserID:  post.UserID,
		ActorID: &ev.ActorID,
		Type:    models.NotificationNewPost,
		Message: fmt.Sprintf(models.MsgNotifPublished, post.Title, displayName(admin)),
		PostID:  &post.ID,
	})
	return nil
}

func (d *Dispatcher) onUserFollowed(ctx context.Context, ev Event) error {
	follower, err := d.users.GetByID(ctx, ev.ActorID)
	if err != nil {
		return err
	}
	d.store(ctx, models.Notification{
		UserID:  ev.RecipientID,
		ActorID: &ev.ActorID,
		Type:    models.NotificationNewFollower,
		Message: fmt.Sprintf(models.MsgNotifNewFollower, displayName(follower)),
	})
	return nil
}

// store inserts one notification row and publishes it live, logging failures.
func (d *Dispatcher) store(ctx context.Context, n models.Notification) {
	if err := d.notifs.Create(ctx, &n); err != nil {
		d.logger.Error("notification insert failed",
			slog.String("type", string(n.Type)),
			slog.String("error", err.Error()),
		)
		return
	}
	d.publishLive(ctx, &n)
}

func (d *Dispatcher) publishLive(ctx context.Context, n *models.Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		return
	}
	if err := d.notifier.PublishUser(ctx, n.UserID, string(payload)); err != nil {
		d.logger.Warn("live notification publish failed",
			slog.Any("user_id", n.UserID),
			slog.String("error", err.Error()),
		)
	}
}

func displayName(u *models.User) string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

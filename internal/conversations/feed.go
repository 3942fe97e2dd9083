package conversations

import (
	"context"

	"github.com/chimgan/sales/internal/models"
	"github.com/chimgan/sales/internal/realtime"
	"github.com/chimgan/sales/internal/utils"
)

// Role is the side of a conversation a stream follows.
type Role int

const (
	RoleOwner Role = iota
	RoleRequester
)

func (r Role) String() string {
	if r == RoleOwner {
		return "owner"
	}
	return "requester"
}

// Query selects the conversations where UserID plays Role.
type Query struct {
	Role   Role
	UserID utils.SixID
}

// Feed opens live queries over conversations and their messages.
type Feed interface {
	Conversations(ctx context.Context, q Query) (*Subscription[models.Inquiry], error)
	Messages(ctx context.Context, inquiryID utils.SixID) (*Subscription[models.Message], error)
}

// Store is the query side of the inquiry store.
type Store interface {
	ListByOwner(ctx context.Context, ownerID utils.SixID) ([]models.Inquiry, error)
	ListByRequester(ctx context.Context, userID utils.SixID) ([]models.Inquiry, error)
	ListMessages(ctx context.Context, inquiryID utils.SixID) ([]models.Message, error)
}

// Changes is where a feed learns that it must re-query.
type Changes interface {
	Listen(filter realtime.Filter) *realtime.Listener
}

// StoreFeed serves each live query as an initial read followed by a full re-read
// on every relevant change notification.
type StoreFeed struct {
	store   Store
	changes Changes
}

func NewStoreFeed(store Store, changes Changes) *StoreFeed {
	return &StoreFeed{store: store, changes: changes}
}

func (f *StoreFeed) Conversations(ctx context.Context, q Query) (*Subscription[models.Inquiry], error) {
	if q.UserID.IsZero() {
		return nil, errNoUser
	}
	query := func(ctx context.Context) ([]models.Inquiry, error) {
		if q.Role == RoleOwner {
			return f.store.ListByOwner(ctx, q.UserID)
		}
		return f.store.ListByRequester(ctx, q.UserID)
	}
	filter := func(ev realtime.ChangeEvent) bool {
		if q.Role == RoleOwner {
			return ev.OwnerID != nil && *ev.OwnerID == q.UserID
		}
		return ev.UserID != nil && *ev.UserID == q.UserID
	}
	return Subscribe(ctx, poll(f.changes, filter, query)), nil
}

func (f *StoreFeed) Messages(ctx context.Context, inquiryID utils.SixID) (*Subscription[models.Message], error) {
	query := func(ctx context.Context) ([]models.Message, error) {
		return f.store.ListMessages(ctx, inquiryID)
	}
	filter := func(ev realtime.ChangeEvent) bool { return ev.InquiryID == inquiryID }
	return Subscribe(ctx, poll(f.changes, filter, query)), nil
}

func poll[T any](changes Changes, filter realtime.Filter, query func(context.Context) ([]T, error)) func(context.Context, Emit[T]) {
	return func(ctx context.Context, emit Emit[T]) {
		l := changes.Listen(filter)
		defer l.Close()

		for {
			items, err := query(ctx)
			if err != nil {
				if ctx.Err() == nil {
					emit(Snapshot[T]{Err: err})
				}
				return
			}
			if !emit(Snapshot[T]{Items: items}) {
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-l.C:
			}
		}
	}
}

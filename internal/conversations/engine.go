// Package conversations keeps one user's conversation list live.
//
// An Engine follows two streams, the conversations the user owns and the ones
// they started, merges them into a single ordered list, keeps a message stream
// open for the selected conversation and clears the user's unread mark on it.
// All of that state is owned by the goroutine running Engine.Run; everything
// else talks to it through commands and receives immutable State values.
package conversations

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/chimgan/sales/internal/apperr"
	"github.com/chimgan/sales/internal/models"
	"github.com/chimgan/sales/internal/utils"
)

// ErrStopped is returned by commands sent to an engine that is no longer running.
var ErrStopped = errors.New("conversation engine stopped")

var errNoUser = apperr.InvalidArg("user id is required")

const defaultReadTimeout = 10 * time.Second

// Writer performs the mutations an engine issues.
type Writer interface {
	SendMessage(ctx context.Context, inquiryID, senderID utils.SixID, senderName, text string) (*models.Message, error)
	MarkRead(ctx context.Context, inquiryID, userID utils.SixID) error
	Hide(ctx context.Context, inquiryID, userID utils.SixID) error
}

// State is what the engine publishes after every change.
type State struct {
	Loading        bool             `json:"loading"`
	Conversations  []models.Inquiry `json:"conversations"`
	UnreadCount    int              `json:"unread_count"`
	SelectedID     *utils.SixID     `json:"selected_id,omitempty"`
	Messages       []models.Message `json:"messages"`
	ScrollToLatest bool             `json:"scroll_to_latest,omitempty"`
}

// Selected returns the selected conversation, if any.
func (s *State) Selected() *models.Inquiry {
	if s.SelectedID == nil {
		return nil
	}
	if i := indexOf(s.Conversations, *s.SelectedID); i >= 0 {
		return &s.Conversations[i]
	}
	return nil
}

type Options struct {
	UserID   utils.SixID
	UserName string

	// OnChange is called from the engine goroutine; it must not block for long.
	OnChange    func(State)
	ReadTimeout time.Duration
}

type Engine struct {
	feed   Feed
	writer Writer
	opts   Options

	cmds     chan func()
	readDone chan utils.SixID
	done     chan struct{}

	// Owned by the Run goroutine.
	ctx          context.Context
	loading      bool
	owner        []models.Inquiry
	requester    []models.Inquiry
	ownerSub     *Subscription[models.Inquiry]
	requesterSub *Subscription[models.Inquiry]
	ownerC       <-chan Snapshot[models.Inquiry]
	requesterC   <-chan Snapshot[models.Inquiry]
	list         []models.Inquiry
	selected     utils.SixID
	messages     []models.Message
	msgSub       *Subscription[models.Message]
	msgC         <-chan Snapshot[models.Message]
	hidden       map[utils.SixID]bool
	reading      map[utils.SixID]bool
	readers      sync.WaitGroup
}

func New(feed Feed, writer Writer, opts Options) *Engine {
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = defaultReadTimeout
	}
	return &Engine{
		feed:     feed,
		writer:   writer,
		opts:     opts,
		cmds:     make(chan func()),
		readDone: make(chan utils.SixID),
		done:     make(chan struct{}),
		loading:  !opts.UserID.IsZero(),
		list:     []models.Inquiry{},
		messages: []models.Message{},
		hidden:   make(map[utils.SixID]bool),
		reading:  make(map[utils.SixID]bool),
	}
}

// Run drives the engine until ctx is done, then closes every stream it opened.
// An engine without a user stays empty.
func (e *Engine) Run(ctx context.Context) error {
	defer close(e.done)
	defer e.teardown()
	e.ctx = ctx

	if !e.opts.UserID.IsZero() {
		e.ownerSub, e.ownerC = e.openStream(RoleOwner)
		e.requesterSub, e.requesterC = e.openStream(RoleRequester)
	}
	e.publish(false)

	for {
		select {
		case <-ctx.Done():
			return nil
		case snap, ok := <-e.ownerC:
			if !ok {
				e.ownerC = nil
				continue
			}
			e.onConversations(RoleOwner, snap)
		case snap, ok := <-e.requesterC:
			if !ok {
				e.requesterC = nil
				continue
			}
			e.onConversations(RoleRequester, snap)
		case snap, ok := <-e.msgC:
			if !ok {
				e.msgC = nil
				continue
			}
			e.onMessages(snap)
		case id := <-e.readDone:
			delete(e.reading, id)
		case cmd := <-e.cmds:
			cmd()
		}
	}
}

// Done is closed once Run has returned and every stream is closed.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// Select makes id the selected conversation. It must be in the visible list.
func (e *Engine) Select(ctx context.Context, id utils.SixID) error {
	return e.call(ctx, func() error {
		if indexOf(e.list, id) < 0 {
			return apperr.ErrInquiryNotFound
		}
		if id != e.selected {
			e.selected = id
			e.switchMessages()
		}
		e.markReadIfNeeded()
		e.publish(false)
		return nil
	})
}

// Send posts text to the selected conversation.
func (e *Engine) Send(ctx context.Context, text string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.ErrEmptyMessage
	}
	var target utils.SixID
	err := e.call(ctx, func() error {
		if e.selected.IsZero() {
			return apperr.ErrNoConversationChosen
		}
		target = e.selected
		return nil
	})
	if err != nil {
		return nil, err
	}
	return e.writer.SendMessage(ctx, target, e.opts.UserID, e.opts.UserName, text)
}

// Hide archives id for the user. The list changes only after the write succeeded.
func (e *Engine) Hide(ctx context.Context, id utils.SixID) error {
	if e.opts.UserID.IsZero() {
		return apperr.Unauthorized("sign in required")
	}
	if err := e.writer.Hide(ctx, id, e.opts.UserID); err != nil {
		return err
	}
	return e.call(ctx, func() error {
		e.hidden[id] = true
		if i := indexOf(e.list, id); i >= 0 {
			e.list = append(e.list[:i:i], e.list[i+1:]...)
		}
		if e.selected == id {
			e.selected = utils.SixID{}
			e.switchMessages()
		}
		e.publish(false)
		return nil
	})
}

func (e *Engine) call(ctx context.Context, fn func() error) error {
	res := make(chan error, 1)
	select {
	case e.cmds <- func() { res <- fn() }:
		return <-res
	case <-e.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) openStream(role Role) (*Subscription[models.Inquiry], <-chan Snapshot[models.Inquiry]) {
	sub, err := e.feed.Conversations(e.ctx, Query{Role: role, UserID: e.opts.UserID})
	if err != nil {
		log.Printf("failed to open %s stream for %s: %v", role, e.opts.UserID, err)
		e.loading = false
		return nil, nil
	}
	return sub, sub.C
}

func (e *Engine) onConversations(role Role, snap Snapshot[models.Inquiry]) {
	e.loading = false
	if snap.Err != nil {
		// The bucket keeps its last contents; nothing more arrives on this stream.
		log.Printf("%s stream for %s failed: %v", role, e.opts.UserID, snap.Err)
		if role == RoleOwner {
			e.ownerC = nil
		} else {
			e.requesterC = nil
		}
		e.publish(false)
		return
	}
	if role == RoleOwner {
		e.owner = Normalize(snap.Items)
	} else {
		e.requester = Normalize(snap.Items)
	}
	e.refresh()
}

func (e *Engine) refresh() {
	list := Merge(e.owner, e.requester, e.opts.UserID)
	if len(e.hidden) > 0 {
		visible := list[:0]
		for _, c := range list {
			if !e.hidden[c.ID] {
				visible = append(visible, c)
			}
		}
		list = visible
	}
	e.list = list

	sel := e.selected
	if !sel.IsZero() && indexOf(list, sel) < 0 {
		sel = utils.SixID{}
	}
	if sel.IsZero() && len(list) > 0 {
		sel = list[0].ID
	}
	if sel != e.selected {
		e.selected = sel
		e.switchMessages()
	}

	e.markReadIfNeeded()
	e.publish(false)
}

// switchMessages closes the previous message stream before opening the one for
// the current selection.
func (e *Engine) switchMessages() {
	if e.msgSub != nil {
		e.msgSub.Unsubscribe()
		e.msgSub = nil
	}
	e.msgC = nil
	e.messages = []models.Message{}
	if e.selected.IsZero() {
		return
	}
	sub, err := e.feed.Messages(e.ctx, e.selected)
	if err != nil {
		log.Printf("failed to open message stream for %s: %v", e.selected, err)
		return
	}
	e.msgSub, e.msgC = sub, sub.C
}

func (e *Engine) onMessages(snap Snapshot[models.Message]) {
	if snap.Err != nil {
		log.Printf("message stream for %s failed: %v", e.selected, snap.Err)
		e.msgC = nil
		e.publish(false)
		return
	}
	e.messages = snap.Items
	if e.messages == nil {
		e.messages = []models.Message{}
	}
	e.publish(true)
}

// markReadIfNeeded clears the user's unread mark on the selected conversation
// without waiting for the write. One request per conversation is in flight at a time.
func (e *Engine) markReadIfNeeded() {
	i := indexOf(e.list, e.selected)
	if i < 0 || !Unread(&e.list[i], e.opts.UserID) || e.reading[e.selected] {
		return
	}
	id := e.selected
	e.reading[id] = true
	e.readers.Add(1)
	go func() {
		defer e.readers.Done()
		ctx, cancel := context.WithTimeout(e.ctx, e.opts.ReadTimeout)
		err := e.writer.MarkRead(ctx, id, e.opts.UserID)
		cancel()
		if err != nil {
			log.Printf("failed to mark conversation %s read for %s: %v", id, e.opts.UserID, err)
		}
		select {
		case e.readDone <- id:
		case <-e.ctx.Done():
		}
	}()
}

func (e *Engine) publish(scroll bool) {
	if e.opts.OnChange == nil {
		return
	}
	st := State{
		Loading:        e.loading,
		Conversations:  append([]models.Inquiry{}, e.list...),
		UnreadCount:    UnreadCount(e.list, e.opts.UserID),
		Messages:       append([]models.Message{}, e.messages...),
		ScrollToLatest: scroll,
	}
	if !e.selected.IsZero() {
		id := e.selected
		st.SelectedID = &id
	}
	e.opts.OnChange(st)
}

func (e *Engine) teardown() {
	for _, sub := range []*Subscription[models.Inquiry]{e.ownerSub, e.requesterSub} {
		if sub != nil {
			sub.Unsubscribe()
		}
	}
	if e.msgSub != nil {
		e.msgSub.Unsubscribe()
	}
	e.readers.Wait()
}

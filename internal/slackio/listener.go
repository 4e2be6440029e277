package slackio

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
)

type EventKind string

const (
	KindMention        EventKind = "mention"
	KindCommand        EventKind = "command"
	KindAction         EventKind = "action"
	KindViewSubmission EventKind = "view_submission"
)

// Event is one routed Socket Mode payload. Exactly one of Mention, Command
// or Callback is set; Action is set alongside Callback for button clicks.
type Event struct {
	Kind     EventKind
	Mention  *slackevents.AppMentionEvent
	Command  *slack.SlashCommand
	Callback *slack.InteractionCallback
	Action   *slack.BlockAction
}

func (e *Event) ChannelID() string {
	switch {
	case e.Mention != nil:
		return e.Mention.Channel
	case e.Command != nil:
		return e.Command.ChannelID
	case e.Callback != nil:
		if e.Callback.Channel.ID != "" {
			return e.Callback.Channel.ID
		}
		return e.Callback.Container.ChannelID
	}
	return ""
}

func (e *Event) UserID() string {
	switch {
	case e.Mention != nil:
		return e.Mention.User
	case e.Command != nil:
		return e.Command.UserID
	case e.Callback != nil:
		return e.Callback.User.ID
	}
	return ""
}

// HandlerFunc handles a routed event. The return value is only used for
// view submissions, where it becomes the ack payload; nil acks empty.
type HandlerFunc func(ctx context.Context, evt *Event) any

type Middleware func(next HandlerFunc) HandlerFunc

type socketClient interface {
	Ack(req socketmode.Request, payload ...interface{})
	RunContext(ctx context.Context) error
}

type actionRoute struct {
	prefix  string
	handler HandlerFunc
}

// Listener owns the Socket Mode connection and dispatches events to
// registered handlers. Every event is acknowledged before its handler runs,
// except view submissions whose ack carries the handler's response.
type Listener struct {
	socket socketClient
	events <-chan socketmode.Event

	middlewares []Middleware
	mention     HandlerFunc
	commands    map[string]HandlerFunc
	actions     []actionRoute
	views       map[string]HandlerFunc

	connected atomic.Bool
	inflight  sync.WaitGroup
	base      context.Context
}

func NewListener(client *slack.Client, debug bool) *Listener {
	sm := socketmode.New(client, socketmode.OptionDebug(debug))
	return newListener(sm, sm.Events)
}

func newListener(socket socketClient, events <-chan socketmode.Event) *Listener {
	return &Listener{
		socket:   socket,
		events:   events,
		commands: make(map[string]HandlerFunc),
		views:    make(map[string]HandlerFunc),
		base:     context.Background(),
	}
}

// Use appends middlewares; the first one is outermost.
func (l *Listener) Use(mw ...Middleware) {
	l.middlewares = append(l.middlewares, mw...)
}

func (l *Listener) OnMention(h HandlerFunc) { l.mention = h }

// OnCommand routes a slash command such as "/ask".
func (l *Listener) OnCommand(command string, h HandlerFunc) {
	l.commands[command] = h
}

// OnAction routes block actions whose action id starts with prefix.
func (l *Listener) OnAction(prefix string, h HandlerFunc) {
	l.actions = append(l.actions, actionRoute{prefix: prefix, handler: h})
}

func (l *Listener) OnViewSubmission(callbackID string, h HandlerFunc) {
	l.views[callbackID] = h
}

func (l *Listener) IsConnected() bool { return l.connected.Load() }

// Run processes events until ctx is cancelled, then waits for in-flight
// handlers to finish.
func (l *Listener) Run(ctx context.Context) error {
	l.base = context.WithoutCancel(ctx)

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-l.events:
				if !ok {
					return
				}
				l.handleEvent(evt)
			}
		}
	}()

	err := l.socket.RunContext(ctx)
	<-loopDone
	l.inflight.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (l *Listener) handleEvent(evt socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeConnecting:
		slog.Info("connecting to socket mode")

	case socketmode.EventTypeConnected:
		slog.Info("connected to socket mode")
		l.connected.Store(true)

	case socketmode.EventTypeConnectionError:
		slog.Warn("socket mode connection error", "error", evt.Data)
		l.connected.Store(false)

	case socketmode.EventTypeEventsAPI:
		l.ack(evt.Request)
		apiEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
		if !ok || apiEvent.Type != slackevents.CallbackEvent {
			return
		}
		if mention, ok := apiEvent.InnerEvent.Data.(*slackevents.AppMentionEvent); ok && l.mention != nil {
			l.dispatch(l.mention, &Event{Kind: KindMention, Mention: mention})
		}

	case socketmode.EventTypeSlashCommand:
		l.ack(evt.Request)
		cmd, ok := evt.Data.(slack.SlashCommand)
		if !ok {
			return
		}
		h, ok := l.commands[cmd.Command]
		if !ok {
			slog.Debug("unrouted slash command", "command", cmd.Command)
			return
		}
		l.dispatch(h, &Event{Kind: KindCommand, Command: &cmd})

	case socketmode.EventTypeInteractive:
		callback, ok := evt.Data.(slack.InteractionCallback)
		if !ok {
			l.ack(evt.Request)
			return
		}
		l.handleInteraction(evt.Request, &callback)
	}
}

func (l *Listener) handleInteraction(req *socketmode.Request, callback *slack.InteractionCallback) {
	switch callback.Type {
	case slack.InteractionTypeViewSubmission:
		h, ok := l.views[callback.View.CallbackID]
		if !ok {
			l.ack(req)
			return
		}
		resp := l.wrap(h)(l.base, &Event{Kind: KindViewSubmission, Callback: callback})
		l.ack(req, resp)

	case slack.InteractionTypeBlockActions:
		l.ack(req)
		for _, action := range callback.ActionCallback.BlockActions {
			h := l.actionHandler(action.ActionID)
			if h == nil {
				continue
			}
			l.dispatch(h, &Event{Kind: KindAction, Callback: callback, Action: action})
		}

	default:
		l.ack(req)
	}
}

func (l *Listener) actionHandler(actionID string) HandlerFunc {
	for _, r := range l.actions {
		if strings.HasPrefix(actionID, r.prefix) {
			return r.handler
		}
	}
	return nil
}

func (l *Listener) dispatch(h HandlerFunc, evt *Event) {
	h = l.wrap(h)
	l.inflight.Add(1)
	go func() {
		defer l.inflight.Done()
		h(l.base, evt)
	}()
}

func (l *Listener) wrap(h HandlerFunc) HandlerFunc {
	for i := len(l.middlewares) - 1; i >= 0; i-- {
		h = l.middlewares[i](h)
	}
	return h
}

func (l *Listener) ack(req *socketmode.Request, payload ...any) {
	if req == nil {
		return
	}
	if len(payload) == 1 && payload[0] == nil {
		payload = nil
	}
	l.socket.Ack(*req, payload...)
}

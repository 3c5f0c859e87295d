package ui

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/jvx/internal/transform"
	"github.com/oakwood-commons/jvx/internal/watch"
	"github.com/oakwood-commons/jvx/pkg/jsonvalue"
)

// QueryResultMsg carries a finished query. Results of superseded requests
// are dropped on arrival.
type QueryResultMsg struct {
	Result transform.Result
}

// FileChangedMsg reports a debounced change of the watched input.
type FileChangedMsg struct {
	Event watch.Event
}

// WatchErrorMsg reports a watcher failure.
type WatchErrorMsg struct {
	Err error
}

// ReloadedMsg carries the document read back after a file change.
type ReloadedMsg struct {
	Value jsonvalue.Value
	Err   error
}

// ReloadFunc reads the document again.
type ReloadFunc func(ctx context.Context) (jsonvalue.Value, error)

func waitForQuery(ch <-chan transform.Result) tea.Cmd {
	return func() tea.Msg {
		return QueryResultMsg{Result: <-ch}
	}
}

// waitForFileEvent blocks until the watcher reports something. A closed
// channel ends the subscription.
func waitForFileEvent(events <-chan watch.Event, errs <-chan error) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			return FileChangedMsg{Event: ev}
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			return WatchErrorMsg{Err: err}
		}
	}
}

func reloadCmd(ctx context.Context, reload ReloadFunc) tea.Cmd {
	return func() tea.Msg {
		v, err := reload(ctx)
		return ReloadedMsg{Value: v, Err: err}
	}
}

package cli

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/pkg/browser"
	"github.com/pterm/pterm"

	"github.com/iudanet/modify/internal/client/auth"
	"github.com/iudanet/modify/internal/client/iocli"
)

// Navigator печатает адрес и, если разрешено, открывает его в браузере.
type Navigator struct {
	io        iocli.IO
	openURL   func(url string) error
	redirects atomic.Int64
	open      bool
}

var _ auth.Navigator = (*Navigator)(nil)

func NewNavigator(io iocli.IO, open bool) *Navigator {
	return &Navigator{
		io:      io,
		open:    open,
		openURL: browser.OpenURL,
	}
}

func (n *Navigator) Redirect(url string) error {
	n.redirects.Add(1)
	n.io.Printf("%s", pterm.Info.Sprintfln("Continue in your browser: %s", url))
	if !n.open {
		return nil
	}
	return n.openURL(url)
}

// Redirects число переходов на внешние адреса с момента создания
func (n *Navigator) Redirects() int64 {
	return n.redirects.Load()
}

func (n *Navigator) NavigateToLogin() {
	n.io.Println("Run 'modify login' or 'modify oauth login <provider>' to sign in.")
}

// Notifier выводит уведомления сессии через pterm и дублирует их в лог.
type Notifier struct {
	io     iocli.IO
	logger *slog.Logger
}

var _ auth.Notifier = (*Notifier)(nil)

func NewNotifier(io iocli.IO, logger *slog.Logger) *Notifier {
	return &Notifier{io: io, logger: logger}
}

func (n *Notifier) Notify(ctx context.Context, note auth.Notification) {
	msg := note.Message
	if msg == "" && note.Err != nil {
		msg = note.Err.Error()
	}

	printer := pterm.Info
	level := slog.LevelInfo
	switch note.Level {
	case auth.LevelWarning:
		printer, level = pterm.Warning, slog.LevelWarn
	case auth.LevelError:
		printer, level = pterm.Error, slog.LevelError
	}

	if note.Title != "" {
		n.io.Printf("%s", printer.Sprintfln("%s: %s", note.Title, msg))
	} else {
		n.io.Printf("%s", printer.Sprintln(msg))
	}
	n.logger.Log(ctx, level, "notification", "title", note.Title, "error", note.Err)
}

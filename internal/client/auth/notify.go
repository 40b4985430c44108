package auth

import "context"

// Navigator performs navigation side effects requested by the session.
type Navigator interface {
	// Redirect sends the user agent to an external URL (OAuth authorization page)
	Redirect(url string) error
	// NavigateToLogin returns the user to the login entry point
	NavigateToLogin()
}

// Level уровень уведомления
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

// Notification сообщение для пользователя
type Notification struct {
	Err     error
	Title   string
	Message string
	Level   Level
}

// Notifier показывает уведомления пользователю
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

type nopNavigator struct{}

func (nopNavigator) Redirect(string) error { return nil }
func (nopNavigator) NavigateToLogin()      {}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Notification) {}

// Package notify is the toast sink: user-visible confirmations and errors,
// fire-and-forget, no acknowledgment.
package notify

import "log"

type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// LogNotifier writes toasts to the process log.
type LogNotifier struct{}

func (LogNotifier) Success(msg string) {
	log.Printf("toast: %s", msg)
}

func (LogNotifier) Error(msg string) {
	log.Printf("toast error: %s", msg)
}

// Nop discards all notifications.
type Nop struct{}

func (Nop) Success(string) {}
func (Nop) Error(string)   {}

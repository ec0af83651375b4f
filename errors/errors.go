package errors

import "fmt"

var (
	ErrAuthFailed            = fmt.Errorf("realtime auth failed")
	ErrHistoryLoadFailed     = fmt.Errorf("history load failed")
	ErrSendFailed            = fmt.Errorf("send failed")
	ErrTransportDisconnected = fmt.Errorf("transport disconnected")

	ErrEmptyMessage  = fmt.Errorf("message body is empty")
	ErrNoCurrentUser = fmt.Errorf("no current user")
	ErrSessionClosed = fmt.Errorf("session is closed")

	ErrInvalidTokenPayload = fmt.Errorf("invalid realtime token payload")
	ErrInvalidCommand      = fmt.Errorf("invalid command")

	ErrWorkerPanic = fmt.Errorf("worker panic")
)

package domain

// SendCommand is the payload of a send request. The body must be non-empty
// after trimming; the sender name is optional and defaults on read.
type SendCommand struct {
	SenderID   int64  `validate:"required"`
	ReceiverID int64  `validate:"required"`
	Body       string `validate:"required"`
	SenderName string
}

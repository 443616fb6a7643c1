package extract

// BodyPart is one node of a message's decoded MIME tree.
type BodyPart struct {
	MIMEType string
	Data     []byte
	Parts    []BodyPart
}

// RawMessage is a read-only view of a message from the mail source.
type RawMessage struct {
	ID           string
	Sender       string
	Subject      string
	Labels       []string
	InternalDate int64 // milliseconds since epoch
	Body         BodyPart
}

// ExtractedContent is the decoded text content of a message.
type ExtractedContent struct {
	PlainText string
	HTMLText  string
	ImageRefs []string
}

package model

type SendEmailEventMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

package models

// Attachment is a binary part of a multipart request (avatar, post media).
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

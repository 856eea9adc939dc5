package models

// Submission is a fully built multipart request body.
type Submission struct {
	ContentType string
	Body        []byte
}

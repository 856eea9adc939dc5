package form

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/UnknownOlympus/athena/internal/models"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Payload builds the multipart body expected by the employee endpoints.
func Payload(d Draft, img *Image) (models.Submission, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	fields := []struct {
		name  string
		value string
	}{
		{"first_name", d.FirstName},
		{"last_name", d.LastName},
		{"email", d.Email},
		{"position", d.Position},
		{"department", d.Department},
		{"salary", strings.TrimSpace(d.Salary)},
	}
	if date := strings.TrimSpace(d.DateOfJoining); date != "" {
		fields = append(fields, struct {
			name  string
			value string
		}{"date_of_joining", date})
	}

	for _, field := range fields {
		if err := writer.WriteField(field.name, field.value); err != nil {
			return models.Submission{}, fmt.Errorf("failed to write field %s: %w", field.name, err)
		}
	}

	if img != nil && len(img.Data) > 0 {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="profile_picture"; filename="%s"`, quoteEscaper.Replace(img.Filename)))
		contentType := img.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)

		part, err := writer.CreatePart(header)
		if err != nil {
			return models.Submission{}, fmt.Errorf("failed to create picture part: %w", err)
		}
		if _, err = part.Write(img.Data); err != nil {
			return models.Submission{}, fmt.Errorf("failed to write picture: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return models.Submission{}, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return models.Submission{ContentType: writer.FormDataContentType(), Body: body.Bytes()}, nil
}

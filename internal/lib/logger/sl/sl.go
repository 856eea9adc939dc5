package sl

import (
	"log/slog"
)

// Err creates a slog.Attr with the given error.
// A nil error yields an empty attr, which handlers skip.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}

	return slog.String("error", err.Error())
}

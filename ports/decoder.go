package ports

import (
	"context"
	"io"

	"gograph/domain/table"
)

// DecoderPort turns an uploaded file into a table. hint is a MIME type, a
// filename or a bare extension.
type DecoderPort interface {
	Decode(ctx context.Context, r io.Reader, hint string) (*table.Table, error)
}

package output

import (
	"context"

	"github.com/nguyentantai21042004/slideflow/internal/document"
	"github.com/nguyentantai21042004/slideflow/internal/model"
)

// Writer defines the interface for persisting a finished run's artifacts.
type Writer interface {
	// WriteRun writes every artifact for one run into a directory named
	// after the source document and returns that directory.
	WriteRun(ctx context.Context, parsed *document.Parsed, result *model.RunResult) (string, error)
}

package pipeline

import (
	"context"

	"github.com/nguyentantai21042004/slideflow/internal/model"
)

// Pipeline defines the interface for turning a parsed document into a
// quality-controlled slide deck with narration.
type Pipeline interface {
	Run(ctx context.Context, doc *model.Document) (*model.RunResult, error)
}

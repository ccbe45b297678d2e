// Package pipeline chains the processing stages (parse, typecheck) over a
// shared context, collecting diagnostics along the way.
package pipeline

import (
	"github.com/sflang/sfl/internal/ast"
	"github.com/sflang/sfl/internal/diagnostics"
	"github.com/sflang/sfl/internal/inbuilts"
	"github.com/sflang/sfl/internal/types"
)

// PipelineContext threads the artifacts of each stage to the next.
type PipelineContext struct {
	SourceCode string
	FilePath   string

	// Prelude controls whether the parser loads the prelude module.
	Prelude bool
	// AllowInference switches the checker out of required-declaration
	// mode.
	AllowInference bool

	Store  *ast.Store
	Labels *inbuilts.Table
	Types  *types.TypeMap

	Errors []*diagnostics.Error
}

// Processor is one pipeline stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline. Stages are expected to skip themselves when
// earlier stages have already failed.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}

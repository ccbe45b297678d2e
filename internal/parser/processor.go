package parser

import (
	"github.com/sflang/sfl/internal/diagnostics"
	"github.com/sflang/sfl/internal/pipeline"
)

// Processor is the parse stage of the engine pipeline.
type Processor struct{}

func (pp *Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	p := New(ctx.SourceCode)
	var res *Result
	var err *diagnostics.Error
	if ctx.Prelude {
		res, err = p.ParseModule()
	} else {
		res, err = p.ParseModuleBare()
	}
	if err != nil {
		if err.File == "" {
			err.File = ctx.FilePath
		}
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Store = res.Store
	ctx.Labels = res.Labels
	ctx.Types = res.Types
	return ctx
}

package checker

import (
	"github.com/sflang/sfl/internal/pipeline"
)

// Processor is the typecheck stage of the engine pipeline; it runs only
// when parsing produced a store without errors.
type Processor struct{}

func (cp *Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Store == nil || len(ctx.Errors) > 0 {
		return ctx
	}
	opts := Options{AllowInference: ctx.AllowInference}
	if err := CheckModule(ctx.Store, ctx.Store.Root, ctx.Labels, ctx.Types, opts); err != nil {
		if err.File == "" {
			err.File = ctx.FilePath
		}
		ctx.Errors = append(ctx.Errors, err)
	}
	return ctx
}

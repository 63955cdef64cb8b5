package kernel

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/heliospay/tuition-api/models"
)

type spanCtxPair struct {
	span trace.Span
	ctx  context.Context
}

// RequestRuntime carries one request's span stack, database handle and
// resolved session token through the handler chain.
type RequestRuntime struct {
	AppRuntime *AppRuntime
	DB         *gorm.DB

	Token *models.Token

	RequestContext *gin.Context
	Span           trace.Span
	SpanContext    context.Context

	Error error

	pairs   []*spanCtxPair
	current int
}

func InitRequest(art *AppRuntime, rctx *gin.Context) *RequestRuntime {
	ctx := rctx.Request.Context()
	span, ctx := art.Diagnostic.BeginTracing(ctx, rctx.FullPath())

	rt := &RequestRuntime{
		AppRuntime: art,
		DB:         art.DatabaseClient,

		RequestContext: rctx,
		Span:           span,
		SpanContext:    ctx,
	}
	rt.pairs = append(rt.pairs, &spanCtxPair{span: span, ctx: ctx})

	return rt
}

// StepInto opens a child span and makes it current.
func (rt *RequestRuntime) StepInto(spanName string) *RequestRuntime {
	ctx, span := rt.AppRuntime.Diagnostic.Tracer.Start(rt.SpanContext, spanName)
	rt.pairs = append(rt.pairs, &spanCtxPair{span: span, ctx: ctx})
	rt.current = len(rt.pairs) - 1
	rt.Span = span
	rt.SpanContext = ctx
	return rt
}

func (rt *RequestRuntime) StepBack() {
	if rt.current == 0 {
		return
	}
	rt.current--
	pair := rt.pairs[rt.current]
	rt.Span = pair.span
	rt.SpanContext = pair.ctx
}

func (rt *RequestRuntime) SkipBackTo(index int) {
	if index < 0 || index >= len(rt.pairs) {
		return
	}
	rt.current = index
	pair := rt.pairs[rt.current]
	rt.Span = pair.span
	rt.SpanContext = pair.ctx
}

// EndBlock ends the current span and steps back to its parent.
func (rt *RequestRuntime) EndBlock() {
	if rt.Span.IsRecording() {
		rt.Span.End()
	}
	if rt.current > 0 {
		rt.pairs = append(rt.pairs[:rt.current], rt.pairs[rt.current+1:]...)
	}
	rt.StepBack()
}

// Finish ends the root span. Called once by the tracer middleware.
func (rt *RequestRuntime) Finish() {
	root := rt.pairs[0]
	if root.span.IsRecording() {
		root.span.End()
	}
}

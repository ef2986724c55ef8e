package obs

import "context"

type (
	routePatternKey struct{}
	renderIDKey     struct{}
)

// WithRoutePattern stores the matched router pattern on the context.
func WithRoutePattern(ctx context.Context, pattern string) context.Context {
	return context.WithValue(ctx, routePatternKey{}, pattern)
}

// RoutePatternFromContext returns the stored route pattern, or "".
func RoutePatternFromContext(ctx context.Context) string {
	v, _ := ctx.Value(routePatternKey{}).(string)
	return v
}

// WithRenderID tags ctx with the id of the invoice render it belongs to, so
// store queries and log lines can be joined to one render.
func WithRenderID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, renderIDKey{}, id)
}

// RenderIDFromContext returns the render id, or "".
func RenderIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(renderIDKey{}).(string)
	return v
}

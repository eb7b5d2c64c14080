package identity

import "context"

type payloadContextKey struct{}

// ContextWithPayload stores the verified identity in context.
func ContextWithPayload(ctx context.Context, p *Payload) context.Context {
	return context.WithValue(ctx, payloadContextKey{}, p)
}

// FromContext extracts the verified identity from context. Handlers must
// never re-verify; the gateway is the only verification point.
func FromContext(ctx context.Context) *Payload {
	p, _ := ctx.Value(payloadContextKey{}).(*Payload)
	return p
}

package rpc

import "context"

// Gateway implements Handler by forwarding every SignTx call to a single
// upstream Participant Node, letting one address terminate public traffic
// (spec §6 "An optional SignGateway service ... forwards to an upstream
// Participant Node"). Grounded on original_source/sign-gateway/src/grpc.rs's
// pass-through role.
type Gateway struct {
	upstream *Client
}

// NewGateway builds a Gateway forwarding to the Participant Node already
// dialed as upstream.
func NewGateway(upstream *Client) *Gateway {
	return &Gateway{upstream: upstream}
}

// SignTx forwards req to the upstream Participant Node unchanged.
func (g *Gateway) SignTx(ctx context.Context, req *SignMessage) (*SignatureMessage, error) {
	return g.upstream.SignTx(ctx, req)
}

package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"liyu1981.xyz/vigilant/pkg/fleet"
)

// BearerAuth attaches the API key to every call.
type BearerAuth struct {
	APIKey string
	Secure bool
}

func (a *BearerAuth) GetRequestMetadata(ctx context.Context, uri ...string) (map[string]string, error) {
	return map[string]string{"authorization": fleet.BearerToken(a.APIKey)}, nil
}

func (a *BearerAuth) RequireTransportSecurity() bool {
	return a.Secure
}

type Client struct {
	HeartbeatServiceClient
	conn *grpc.ClientConn
}

// NewClient connects without transport security; extra options are appended
// after the defaults and may override them.
func NewClient(target, apiKey string, opts ...grpc.DialOption) (*Client, error) {
	defaults := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithPerRPCCredentials(&BearerAuth{APIKey: apiKey}),
	}

	conn, err := grpc.NewClient(target, append(defaults, opts...)...)
	if err != nil {
		return nil, err
	}
	return &Client{
		HeartbeatServiceClient: NewHeartbeatServiceClient(conn),
		conn:                   conn,
	}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

var _ credentials.PerRPCCredentials = (*BearerAuth)(nil)

package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"liyu1981.xyz/vigilant/pkg/fleet"
	vigilantGrpc "liyu1981.xyz/vigilant/pkg/grpc"
	"liyu1981.xyz/vigilant/pkg/models"
)

const maxErrorBody = 4 << 10

type Sender interface {
	Send(ctx context.Context, report models.Report) error
}

// NewSender picks the transport from the server_url scheme.
func NewSender(cfg *Config) (Sender, error) {
	switch cfg.Scheme() {
	case SchemeHTTP, SchemeHTTPS:
		return &HTTPSender{
			Endpoint: cfg.ServerURL + "/api/heartbeat",
			APIKey:   cfg.APIKey,
			Client:   &http.Client{Timeout: cfg.Timeout()},
		}, nil
	case SchemeGRPC:
		u, err := url.Parse(cfg.ServerURL)
		if err != nil {
			return nil, err
		}
		return &GRPCSender{Target: u.Host, APIKey: cfg.APIKey}, nil
	default:
		return nil, fmt.Errorf("unsupported server_url scheme %q", cfg.Scheme())
	}
}

type HTTPSender struct {
	Endpoint string
	APIKey   string
	Client   *http.Client
}

func (s *HTTPSender) Send(ctx context.Context, report models.Report) error {
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", fleet.BearerToken(s.APIKey))
	req.Header.Set("Content-Type", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type GRPCSender struct {
	Target      string
	APIKey      string
	DialOptions []grpc.DialOption
}

func (s *GRPCSender) Send(ctx context.Context, report models.Report) error {
	msg, err := structpb.NewStruct(report)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	client, err := vigilantGrpc.NewClient(s.Target, s.APIKey, s.DialOptions...)
	if err != nil {
		return err
	}
	defer client.Close()

	_, err = client.SubmitHeartbeat(ctx, msg)
	return err
}

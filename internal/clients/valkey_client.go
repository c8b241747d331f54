package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/spacesedan/emotiscope/config"
)

var (
	valkeyInstance *ValkeyClient
	valkeyOnce     sync.Once
	valkeyInitErr  error
)

type ValkeyClient struct {
	Client valkey.Client
	cfg    config.ValkeyConfig
	mu     sync.Mutex
}

func InitValkey(cfg config.ValkeyConfig) (*ValkeyClient, error) {
	valkeyOnce.Do(func() {
		client, err := newValkeyClient(cfg)
		if err != nil {
			valkeyInitErr = err
			return
		}
		slog.Info("[ValkeyClient] Successfully connected to valkey",
			slog.String("address", cfg.Address))
		valkeyInstance = &ValkeyClient{Client: client, cfg: cfg}
	})
	return valkeyInstance, valkeyInitErr
}

func newValkeyClient(cfg config.ValkeyConfig) (valkey.Client, error) {
	opts := valkey.ClientOption{
		InitAddress:      []string{cfg.Address},
		Password:         cfg.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}
	return client, nil
}

func (vc *ValkeyClient) recreateClient() {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")
	client, err := newValkeyClient(vc.cfg)
	if err != nil {
		slog.Error("[ValkeyClient] Recreate failed",
			slog.String("error", err.Error()))
		return
	}
	vc.Client.Close()
	vc.Client = client
	slog.Info("[ValkeyClient] Successfully reconnected to valkey")
}

func (vc *ValkeyClient) client() valkey.Client {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.Client
}

func CloseValkey() {
	if valkeyInstance != nil {
		valkeyInstance.Client.Close()
	}
}

func (vc *ValkeyClient) DoWithRetry(ctx context.Context, build func(valkey.Client) valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		c := vc.client()
		result = c.Do(ctx, build(c))
		err := result.Error()
		if err == nil || valkey.IsValkeyNil(err) {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
		if isConnectionError(err) {
			vc.recreateClient()
		}

		time.Sleep(250 * time.Millisecond)
	}

	return result
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}

// ValkeyHistoryBackend stores the serialized history as a plain string
// value under one key.
type ValkeyHistoryBackend struct {
	client *ValkeyClient
	key    string
}

func NewValkeyHistoryBackend(client *ValkeyClient, key string) *ValkeyHistoryBackend {
	return &ValkeyHistoryBackend{client: client, key: key}
}

func (b *ValkeyHistoryBackend) Load(ctx context.Context) ([]byte, error) {
	res := b.client.DoWithRetry(ctx, func(c valkey.Client) valkey.Completed {
		return c.B().Get().Key(b.key).Build()
	}, 3)

	data, err := res.AsBytes()
	if valkey.IsValkeyNil(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to get %s: %w", b.key, err)
	}
	return data, nil
}

func (b *ValkeyHistoryBackend) Save(ctx context.Context, data []byte) error {
	res := b.client.DoWithRetry(ctx, func(c valkey.Client) valkey.Completed {
		return c.B().Set().Key(b.key).Value(valkey.BinaryString(data)).Build()
	}, 3)
	if err := res.Error(); err != nil {
		return fmt.Errorf("[ValkeyClient] failed to set %s: %w", b.key, err)
	}
	slog.Debug("[ValkeyClient] History saved", slog.String("key", b.key))
	return nil
}

func (b *ValkeyHistoryBackend) Delete(ctx context.Context) error {
	res := b.client.DoWithRetry(ctx, func(c valkey.Client) valkey.Completed {
		return c.B().Del().Key(b.key).Build()
	}, 3)
	if err := res.Error(); err != nil {
		return fmt.Errorf("[ValkeyClient] failed to delete %s: %w", b.key, err)
	}
	return nil
}

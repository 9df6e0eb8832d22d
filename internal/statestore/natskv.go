package statestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"git.home.luguber.info/inful/croptrack/internal/logfields"
)

const natsOpTimeout = 5 * time.Second

// NATSKVStore implements Store on a NATS JetStream KV bucket so several
// tracker instances can share samples.
type NATSKVStore struct {
	conn   *nats.Conn
	kv     jetstream.KeyValue
	bucket string
}

// NewNATSKVStore connects to NATS and creates or opens the given KV bucket.
func NewNATSKVStore(url, bucket string) (*NATSKVStore, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), natsOpTimeout)
	defer cancel()

	kv, err := js.KeyValue(ctx, bucket)
	if err != nil {
		kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket:      bucket,
			Description: "croptrack patch samples",
			History:     1,
		})
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("create KV bucket: %w", err)
		}
	}

	slog.Info("NATS KV store initialized", logfields.URL(url), slog.String("bucket", bucket))

	return &NATSKVStore{conn: conn, kv: kv, bucket: bucket}, nil
}

// kvKey flattens a group/key pair onto the bucket keyspace. Groups are
// dotted already and sample keys are numeric, both valid KV key tokens.
func kvKey(group, key string) string {
	return group + "." + key
}

func (s *NATSKVStore) Get(group, key string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), natsOpTimeout)
	defer cancel()

	entry, err := s.kv.Get(ctx, kvKey(group, key))
	if err != nil {
		if !errors.Is(err, jetstream.ErrKeyNotFound) {
			slog.Warn("NATS KV read failed", logfields.Group(group), logfields.Key(key), logfields.Error(err))
		}
		return "", false
	}
	return string(entry.Value()), true
}

func (s *NATSKVStore) Set(group, key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), natsOpTimeout)
	defer cancel()

	if _, err := s.kv.Put(ctx, kvKey(group, key), []byte(value)); err != nil {
		return fmt.Errorf("write sample %s/%s: %w", group, key, err)
	}
	return nil
}

// Close drains the NATS connection.
func (s *NATSKVStore) Close() error {
	s.conn.Close()
	return nil
}

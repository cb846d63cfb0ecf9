package learning

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/zpam/nbeval/pkg/corpus"
)

// RedisConfig holds Redis table store settings
type RedisConfig struct {
	RedisURL    string        `json:"redis_url" yaml:"redis_url"`
	KeyPrefix   string        `json:"key_prefix" yaml:"key_prefix"`
	DatabaseNum int           `json:"database_num" yaml:"database_num"`
	TableTTL    time.Duration `json:"table_ttl" yaml:"table_ttl"`
	BatchSize   int           `json:"batch_size" yaml:"batch_size"`
}

// DefaultRedisConfig returns default Redis configuration
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		RedisURL:    "redis://localhost:6379",
		KeyPrefix:   "nbeval",
		DatabaseNum: 0,
		BatchSize:   1000,
	}
}

// RedisStore keeps tables in Redis. Each table is a list of terms in table
// order plus a hash of term -> "pos,neg" counts.
type RedisStore struct {
	client *redis.Client
	config *RedisConfig
}

// NewRedisStore connects to Redis and verifies the connection
func NewRedisStore(ctx context.Context, config *RedisConfig) (*RedisStore, error) {
	if config == nil {
		config = DefaultRedisConfig()
	}

	opt, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid Redis URL")
	}
	opt.DB = config.DatabaseNum
	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "Redis connection failed")
	}

	return &RedisStore{client: client, config: config}, nil
}

// Save replaces the named table
func (rs *RedisStore) Save(ctx context.Context, name string, table *FrequencyTable) error {
	termsKey, countsKey := rs.termsKey(name), rs.countsKey(name)

	if err := rs.client.Del(ctx, termsKey, countsKey).Err(); err != nil {
		return errors.Wrapf(err, "failed to clear table %s", name)
	}

	batch := rs.config.BatchSize
	if batch <= 0 {
		batch = 1000
	}

	terms := table.Terms()
	for start := 0; start < len(terms); start += batch {
		end := start + batch
		if end > len(terms) {
			end = len(terms)
		}

		pipe := rs.client.Pipeline()
		values := make([]interface{}, 0, end-start)
		fields := make([]interface{}, 0, 2*(end-start))
		for _, term := range terms[start:end] {
			c, _ := table.Counts(term)
			values = append(values, term)
			fields = append(fields, term, encodeCounts(c))
		}
		pipe.RPush(ctx, termsKey, values...)
		pipe.HSet(ctx, countsKey, fields...)

		if _, err := pipe.Exec(ctx); err != nil {
			return errors.Wrapf(err, "failed to save table %s", name)
		}
	}

	if rs.config.TableTTL > 0 && len(terms) > 0 {
		pipe := rs.client.Pipeline()
		pipe.Expire(ctx, termsKey, rs.config.TableTTL)
		pipe.Expire(ctx, countsKey, rs.config.TableTTL)
		if _, err := pipe.Exec(ctx); err != nil {
			return errors.Wrapf(err, "failed to set expiry on table %s", name)
		}
	}

	return nil
}

// Load reads the named table
func (rs *RedisStore) Load(ctx context.Context, name string) (*FrequencyTable, error) {
	termsKey, countsKey := rs.termsKey(name), rs.countsKey(name)

	pipe := rs.client.Pipeline()
	termsCmd := pipe.LRange(ctx, termsKey, 0, -1)
	countsCmd := pipe.HGetAll(ctx, countsKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to load table %s", name)
	}

	terms := termsCmd.Val()
	if len(terms) == 0 {
		return nil, &MissingModelError{Name: name, Location: termsKey}
	}

	counts := countsCmd.Val()
	table := NewFrequencyTable()
	for _, term := range terms {
		raw, ok := counts[term]
		if !ok {
			return nil, errors.Errorf("table %s: no counts for term %q", name, term)
		}
		c, err := decodeCounts(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "table %s: term %q", name, term)
		}
		table.Set(term, c)
	}

	return table, nil
}

// Delete removes the named table
func (rs *RedisStore) Delete(ctx context.Context, name string) error {
	return rs.client.Del(ctx, rs.termsKey(name), rs.countsKey(name)).Err()
}

// Close closes the Redis connection
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}

func (rs *RedisStore) termsKey(name string) string {
	return fmt.Sprintf("%s:table:%s:terms", rs.config.KeyPrefix, name)
}

func (rs *RedisStore) countsKey(name string) string {
	return fmt.Sprintf("%s:table:%s:counts", rs.config.KeyPrefix, name)
}

func encodeCounts(c Counts) string {
	return strconv.Itoa(c[corpus.PositiveSlot]) + "," + strconv.Itoa(c[corpus.NegativeSlot])
}

func decodeCounts(s string) (Counts, error) {
	var c Counts
	parts := strings.Split(s, ",")
	if len(parts) != corpus.NumSlots {
		return c, errors.Errorf("malformed counts %q", s)
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return c, errors.Errorf("malformed counts %q", s)
		}
		c[i] = n
	}
	return c, nil
}

// Package redis provides a ready-made keyword library for Redis: a session
// handler that owns client connections plus value keywords operating on the
// current session.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mitchellh/mapstructure"
	backend "github.com/redis/go-redis/v9"

	"github.com/MrSteve2/robotframework-tools/pkg/domain"
	"github.com/MrSteve2/robotframework-tools/pkg/keyword"
	"github.com/MrSteve2/robotframework-tools/pkg/library"
	"github.com/MrSteve2/robotframework-tools/pkg/session"
)

// DefaultAddr is used when Open Redis Session is called without an address.
const DefaultAddr = "localhost:6379"

// connectOptions are the named arguments accepted by the session opener.
type connectOptions struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SessionHandler opens and closes Redis client connections. One client is
// the payload of one session; closing the session closes the client.
type SessionHandler struct{}

func (h *SessionHandler) Meta() session.Meta {
	return session.NewMeta("Redis", nil)
}

// OpenArgs declares the generated opener's argument spec.
func (h *SessionHandler) OpenArgs() []domain.ArgSpec {
	return []domain.ArgSpec{domain.ArgDefault("addr", DefaultAddr)}
}

func (h *SessionHandler) Open(ctx context.Context, args []any, kwargs map[string]any) (any, error) {
	addr := DefaultAddr
	if len(args) > 0 {
		addr = fmt.Sprint(args[0])
	}
	var opts connectOptions
	if err := mapstructure.Decode(kwargs, &opts); err != nil {
		return nil, fmt.Errorf("invalid connection options: %w", err)
	}

	client := backend.NewClient(&backend.Options{
		Addr:     addr,
		Username: opts.Username,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return client, nil
}

func (h *SessionHandler) Close(payload any) error {
	return payload.(*backend.Client).Close()
}

// client returns the Redis client of the current session.
func client(st *keyword.State) (*backend.Client, error) {
	sess, err := st.CurrentSession("Redis")
	if err != nil {
		return nil, err
	}
	return sess.Payload.(*backend.Client), nil
}

// NewTemplate builds the Redis keyword library. The session handler
// contributes the open/switch/close keywords; the value keywords below
// operate on whichever session is current.
func NewTemplate(logger *slog.Logger) (*library.Template, error) {
	tpl, err := library.NewTemplate("Redis", library.Config{
		Logger:          logger,
		SessionHandlers: []session.Handler{&SessionHandler{}},
	})
	if err != nil {
		return nil, err
	}
	chain, err := tpl.Keyword()
	if err != nil {
		return nil, err
	}

	defs := []keyword.Def{
		{
			Name: "SetValue",
			Doc:  "Sets a string value under the given key, with an optional TTL in seconds.",
			Args: []domain.ArgSpec{domain.Arg("key"), domain.Arg("value"), domain.ArgDefault("ttl", 0)},
			Func: func(ctx context.Context, st *keyword.State, args []any, kwargs map[string]any) (any, error) {
				c, err := client(st)
				if err != nil {
					return nil, err
				}
				var ttl time.Duration
				if len(args) > 2 {
					seconds, err := toInt(args[2])
					if err != nil {
						return nil, fmt.Errorf("ttl: %w", err)
					}
					ttl = time.Duration(seconds) * time.Second
				}
				return nil, c.Set(ctx, fmt.Sprint(args[0]), fmt.Sprint(args[1]), ttl).Err()
			},
		},
		{
			Name: "GetValue",
			Doc:  "Returns the string value stored under the given key.",
			Args: []domain.ArgSpec{domain.Arg("key")},
			Func: func(ctx context.Context, st *keyword.State, args []any, kwargs map[string]any) (any, error) {
				c, err := client(st)
				if err != nil {
					return nil, err
				}
				value, err := c.Get(ctx, fmt.Sprint(args[0])).Result()
				if err == backend.Nil {
					return nil, fmt.Errorf("no value stored under key %q", args[0])
				}
				return value, err
			},
		},
		{
			Name: "DeleteValue",
			Doc:  "Deletes the given key. Returns the number of keys removed.",
			Args: []domain.ArgSpec{domain.Arg("key")},
			Func: func(ctx context.Context, st *keyword.State, args []any, kwargs map[string]any) (any, error) {
				c, err := client(st)
				if err != nil {
					return nil, err
				}
				return c.Del(ctx, fmt.Sprint(args[0])).Result()
			},
		},
		{
			Name: "KeyShouldExist",
			Doc:  "Fails unless the given key exists.",
			Args: []domain.ArgSpec{domain.Arg("key")},
			Func: func(ctx context.Context, st *keyword.State, args []any, kwargs map[string]any) (any, error) {
				c, err := client(st)
				if err != nil {
					return nil, err
				}
				n, err := c.Exists(ctx, fmt.Sprint(args[0])).Result()
				if err != nil {
					return nil, err
				}
				if n == 0 {
					return nil, fmt.Errorf("key %q does not exist", args[0])
				}
				return true, nil
			},
		},
	}
	for _, def := range defs {
		if _, err := chain.Register(def); err != nil {
			return nil, err
		}
	}
	return tpl, nil
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case string:
		var out int
		if _, err := fmt.Sscanf(n, "%d", &out); err != nil {
			return 0, fmt.Errorf("not an integer: %q", n)
		}
		return out, nil
	default:
		return 0, fmt.Errorf("not an integer: %v", v)
	}
}

package theme

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("boom")
}

func TestRead(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
		want   Preference
	}{
		{"empty", map[string]string{}, Preference{}},
		{"dark manual", map[string]string{KeyTheme: Dark, KeyManual: "true"}, Preference{Theme: Dark, Manual: true}},
		{"light", map[string]string{KeyTheme: Light}, Preference{Theme: Light}},
		{"invalid theme ignored", map[string]string{KeyTheme: "sepia"}, Preference{}},
		{"manual false", map[string]string{KeyTheme: Dark, KeyManual: "false"}, Preference{Theme: Dark}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(context.Background(), MemoryStore(tt.values))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, FromValues(tt.values))
		})
	}
}

func TestReadError(t *testing.T) {
	_, err := Read(context.Background(), failingReader{})
	assert.Error(t, err)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(Light))
	assert.True(t, Valid(Dark))
	assert.False(t, Valid(""))
}

func TestRedisStoreKeys(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()

	s := NewRedisStoreWithClient(client, "")
	assert.Equal(t, "navmenu:dashboard-theme", s.Key(KeyTheme))

	scoped, ok := s.For("user-1").(*RedisStore)
	require.True(t, ok)
	assert.Equal(t, "navmenu:user-1:dashboard-theme-manual", scoped.Key(KeyManual))
}

func TestNewRedisStoreInvalidURL(t *testing.T) {
	_, err := NewRedisStore("not-a-url", "")
	assert.Error(t, err)
}

// stubRedis answers GET from a map and fails every other command.
type stubRedis struct {
	redis.Cmdable
	values map[string]string
	err    error
	keys   []string
}

func (s *stubRedis) Get(_ context.Context, key string) *redis.StringCmd {
	s.keys = append(s.keys, key)
	if s.err != nil {
		return redis.NewStringResult("", s.err)
	}
	v, ok := s.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func TestRedisStoreGet(t *testing.T) {
	stub := &stubRedis{values: map[string]string{
		"navmenu:user-1:dashboard-theme": Dark,
	}}
	r := NewRedisStoreWithClient(stub, "").For("user-1")
	ctx := context.Background()

	v, ok, err := r.Get(ctx, KeyTheme)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Dark, v)

	v, ok, err = r.Get(ctx, KeyManual)
	require.NoError(t, err, "missing key is not an error")
	assert.False(t, ok)
	assert.Empty(t, v)

	p, err := Read(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, Preference{Theme: Dark}, p)

	assert.Equal(t, "navmenu:user-1:dashboard-theme-manual", stub.keys[1])
}

func TestRedisStoreGetError(t *testing.T) {
	stub := &stubRedis{err: errors.New("connection refused")}
	r := NewRedisStoreWithClient(stub, "app:").For("device-9")

	_, ok, err := r.Get(context.Background(), KeyTheme)
	require.Error(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"app:device-9:dashboard-theme"}, stub.keys)

	_, err = Read(context.Background(), r)
	assert.Error(t, err)
}

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func TestRegistryGet(t *testing.T) {
	var built []string
	factory := func(baseURL string) (Client, error) {
		built = append(built, baseURL)
		return &fakeClient{}, nil
	}
	clock := &fakeClock{now: time.Unix(1000, 0)}
	r := NewRegistry(factory, time.Hour, clock)

	a, err := r.Get("c1", "http://localhost:8000", map[string]string{"sessionid": "x"})
	require.NoError(t, err)
	b, err := r.Get("c1", "http://localhost:8000", nil)
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, map[string]string{"sessionid": "x"}, a.Client().Cookies())

	c, err := r.Get("c1", "https://158.69.62.72", nil)
	require.NoError(t, err)
	assert.NotSame(t, a, c)
	assert.Equal(t, []string{"http://localhost:8000", "https://158.69.62.72"}, built)
	assert.Equal(t, 1, r.Len())

	r.Remove("c1")
	assert.Equal(t, 0, r.Len())
}

func TestRegistryFactoryError(t *testing.T) {
	r := NewRegistry(func(string) (Client, error) { return nil, errors.New("bad url") }, time.Hour, nil)
	_, err := r.Get("c1", "::", nil)
	assert.Error(t, err)
	assert.Equal(t, 0, r.Len())
}

func TestRegistrySweep(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	r := NewRegistry(func(string) (Client, error) { return &fakeClient{}, nil }, time.Hour, clock)

	_, _ = r.Get("old", "b", nil)
	clock.now = clock.now.Add(50 * time.Minute)
	_, _ = r.Get("new", "b", nil)
	clock.now = clock.now.Add(20 * time.Minute)

	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 1, r.Len())

	_, _ = r.Get("new", "b", nil)
	clock.now = clock.now.Add(59 * time.Minute)
	assert.Equal(t, 0, r.Sweep())
}

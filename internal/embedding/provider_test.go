package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intellidoc/backend/pkg/logger"
)

type fakeBackend struct {
	name      string
	dimension int
	pingErr   error
	embedErr  error
	calls     int
}

func (f *fakeBackend) Name() string    { return f.name }
func (f *fakeBackend) Dimension() int  { return f.dimension }
func (f *fakeBackend) Ping(_ context.Context) error { return f.pingErr }

func (f *fakeBackend) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vec := make([]float32, f.dimension)
		vec[0] = float32(i + 1)
		vectors[i] = vec
	}
	return vectors, nil
}

func TestNewProviderNoBackendAvailable(t *testing.T) {
	down := &fakeBackend{name: "down", dimension: 8, pingErr: errors.New("unreachable")}

	_, err := NewProvider(context.Background(), []Backend{down}, logger.NewTestLogger())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestNewProviderSkipsUnreachableBackends(t *testing.T) {
	down := &fakeBackend{name: "down", dimension: 1536, pingErr: errors.New("unreachable")}
	up := &fakeBackend{name: "up", dimension: 768}

	p, err := NewProvider(context.Background(), []Backend{down, up}, logger.NewTestLogger())
	require.NoError(t, err)

	assert.Equal(t, "up", p.Name())
	assert.Equal(t, 768, p.Dimension())
}

func TestGenerateFallsBackToSecondary(t *testing.T) {
	primary := &fakeBackend{name: "primary", dimension: 4, embedErr: errors.New("rate limited")}
	secondary := &fakeBackend{name: "secondary", dimension: 4}

	p, err := NewProvider(context.Background(), []Backend{primary, secondary}, logger.NewTestLogger())
	require.NoError(t, err)

	vectors, err := p.Generate(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)

	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)

	// Input order preserved.
	assert.Equal(t, float32(1), vectors[0][0])
	assert.Equal(t, float32(2), vectors[1][0])
	assert.Equal(t, float32(3), vectors[2][0])
}

func TestGenerateAllBackendsFail(t *testing.T) {
	a := &fakeBackend{name: "a", dimension: 4, embedErr: errors.New("boom")}
	b := &fakeBackend{name: "b", dimension: 4, embedErr: errors.New("boom")}

	p, err := NewProvider(context.Background(), []Backend{a, b}, logger.NewTestLogger())
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), []string{"x"})
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestGenerateEmptyInput(t *testing.T) {
	b := &fakeBackend{name: "b", dimension: 4}

	p, err := NewProvider(context.Background(), []Backend{b}, logger.NewTestLogger())
	require.NoError(t, err)

	vectors, err := p.Generate(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
	assert.Equal(t, 0, b.calls)
}

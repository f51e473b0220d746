package services

import (
	"context"
	"errors"
	"testing"

	"magnetic-field-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	m       map[string][]domain.Point
	gets    int
	puts    int
	failGet bool
}

func (c *memoryCache) Get(_ context.Context, key string) ([]domain.Point, bool, error) {
	c.gets++
	if c.failGet {
		return nil, false, errors.New("cache unavailable")
	}
	v, ok := c.m[key]
	return v, ok, nil
}

func (c *memoryCache) Put(_ context.Context, key string, vectors []domain.Point) error {
	c.puts++
	cp := make([]domain.Point, len(vectors))
	copy(cp, vectors)
	c.m[key] = cp
	return nil
}

type memoryRepo struct {
	runs []*domain.FieldRun
}

func (r *memoryRepo) SaveRun(_ context.Context, run *domain.FieldRun) (int64, error) {
	r.runs = append(r.runs, run)
	return int64(len(r.runs)), nil
}

func (r *memoryRepo) GetRun(_ context.Context, id int64) (*domain.FieldRun, error) {
	if id < 1 || int(id) > len(r.runs) {
		return nil, domain.ErrRunNotFound
	}
	return r.runs[id-1], nil
}

func (r *memoryRepo) ListRuns(_ context.Context, limit int) ([]*domain.FieldRun, error) {
	return r.runs, nil
}

func newRequest(t *testing.T, save bool) ComputeFieldRequest {
	t.Helper()
	wire, err := LinearWire(20, -0.5, 0.5)
	require.NoError(t, err)
	target, err := LinearYField(9, 0.05, 0.5)
	require.NoError(t, err)
	return ComputeFieldRequest{Wire: wire, Target: target, Current: 2.5, Save: save}
}

func TestComputeFieldCachesAndSaves(t *testing.T) {
	cache := &memoryCache{m: map[string][]domain.Point{}}
	repo := &memoryRepo{}
	ev := &Evaluator{Workers: 2}

	first, err := ComputeField(context.Background(), newRequest(t, true), ev, cache, repo)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, 20, first.Segments)
	assert.Equal(t, 1, cache.puts)
	require.Len(t, repo.runs, 1)

	second, err := ComputeField(context.Background(), newRequest(t, false), ev, cache, repo)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, int64(0), second.ID)
	assert.Equal(t, first.Vectors, second.Vectors)
	assert.Equal(t, 1, cache.puts)
	assert.Len(t, repo.runs, 1)
}

func TestComputeFieldIgnoresCacheFailures(t *testing.T) {
	cache := &memoryCache{m: map[string][]domain.Point{}, failGet: true}

	req := newRequest(t, false)
	run, err := ComputeField(context.Background(), req, nil, cache, nil)
	require.NoError(t, err)
	assert.False(t, run.Cached)
	assert.Equal(t, req.Target.FieldVectors, run.Vectors)
	assert.NotZero(t, run.Vectors[0].Z)
}

func TestComputeFieldErrors(t *testing.T) {
	_, err := ComputeField(context.Background(), ComputeFieldRequest{}, nil, nil, nil)
	require.ErrorIs(t, err, domain.ErrInvalidGeometry)

	_, err = ComputeField(context.Background(), newRequest(t, true), nil, nil, nil)
	require.Error(t, err)

	req := newRequest(t, false)
	req.Target.Locations[0] = domain.Point{X: 0.0125}
	req.Wire.Coordinates = []domain.Point{{X: 0}, {X: 0.025}}
	_, err = ComputeField(context.Background(), req, &Evaluator{Strict: true}, nil, nil)
	require.ErrorIs(t, err, domain.ErrSingularPoint)
}

func TestCacheKey(t *testing.T) {
	a := newRequest(t, false)
	b := newRequest(t, false)

	assert.Equal(t, CacheKey(a.Wire, a.Target, 1, nil), CacheKey(b.Wire, b.Target, 1, nil))
	assert.NotEqual(t, CacheKey(a.Wire, a.Target, 1, nil), CacheKey(a.Wire, a.Target, 2, nil))
	assert.NotEqual(t,
		CacheKey(a.Wire, a.Target, 1, nil),
		CacheKey(a.Wire, a.Target, 1, &Evaluator{Strict: true}),
	)

	b.Target.Locations[3].Z = 1e-12
	assert.NotEqual(t, CacheKey(a.Wire, a.Target, 1, nil), CacheKey(b.Wire, b.Target, 1, nil))
	assert.Equal(t, WireHash(a.Wire), WireHash(b.Wire))
}

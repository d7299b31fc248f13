//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"crivo/internal/credit"
	"crivo/internal/credit/cache"
	"crivo/pkg/platform/sentinel"
	"crivo/pkg/testutil/containers"
	vo "crivo/pkg/valueobject"
)

type RedisCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *cache.RedisCache
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.cache = cache.NewRedis(s.redis.Client, time.Minute)
}

func (s *RedisCacheSuite) TearDownSuite() {
	_ = s.redis.Client.Close()
	_ = s.redis.Container.Terminate(context.Background())
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisCacheSuite) TestRoundTrip() {
	ctx := context.Background()

	limit := vo.FromReais(21_000)
	rate := 28.8
	result := &credit.Result{
		Approved:         true,
		Score:            710,
		Risk:             credit.RiskMedium,
		Observations:     []string{"secured loan - reduced risk"},
		ApprovedLimit:    &limit,
		SuggestedRatePct: &rate,
	}

	_, err := s.cache.Get(ctx, "fp-1")
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.Require().NoError(s.cache.Set(ctx, "fp-1", result))

	cached, err := s.cache.Get(ctx, "fp-1")
	s.Require().NoError(err)
	s.Equal(result, cached)
}

func (s *RedisCacheSuite) TestExpiry() {
	ctx := context.Background()
	shortLived := cache.NewRedis(s.redis.Client, time.Second)

	s.Require().NoError(shortLived.Set(ctx, "fp-2", &credit.Result{Score: 500, Risk: credit.RiskHigh}))

	s.Require().Eventually(func() bool {
		_, err := shortLived.Get(ctx, "fp-2")
		return err != nil
	}, 5*time.Second, 200*time.Millisecond)
}

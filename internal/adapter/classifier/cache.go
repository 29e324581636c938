package classifier

import (
	"context"
	"crypto/sha256"

	"github.com/haneulgyeol/cloud-atlas/internal/cache"
	"github.com/haneulgyeol/cloud-atlas/internal/domain"
	"github.com/haneulgyeol/cloud-atlas/internal/observability"
)

// CachedClassifier wraps a Classifier with an in-memory LRU keyed by image content.
type CachedClassifier struct {
	inner   domain.Classifier
	cache   *cache.LRU[[sha256.Size]byte, domain.ClassifyResult]
	metrics *observability.Metrics
}

// NewCachedClassifier creates a cache decorator around a classifier.
func NewCachedClassifier(inner domain.Classifier, maxEntries int, metrics *observability.Metrics) *CachedClassifier {
	return &CachedClassifier{
		inner:   inner,
		cache:   cache.New[[sha256.Size]byte, domain.ClassifyResult](maxEntries),
		metrics: metrics,
	}
}

func (c *CachedClassifier) Classify(ctx context.Context, u domain.Upload) (domain.ClassifyResult, error) {
	key := sha256.Sum256(u.Data)
	if result, ok := c.cache.Get(key); ok {
		c.metrics.ClassifyCache.WithLabelValues("hit").Inc()
		return result, nil
	}
	c.metrics.ClassifyCache.WithLabelValues("miss").Inc()

	result, err := c.inner.Classify(ctx, u)
	if err != nil {
		return result, err
	}
	// Only successes are cached so a failed upload can be retried.
	c.cache.Put(key, result)
	return result, nil
}

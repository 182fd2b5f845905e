package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"assessment-client/internal/app"
	"assessment-client/internal/domain"
	"golang.org/x/sync/singleflight"
)

// QuestionCache keeps test questions per category/subcategory with a TTL so
// restarting a test does not refetch them.
type QuestionCache struct {
	source app.QuestionSource
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedQuestions
}

type cachedQuestions struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewQuestionCache(source app.QuestionSource, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		source: source,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedQuestions),
	}
}

func (c *QuestionCache) TestQuestions(ctx context.Context, category, subcategory string) ([]domain.Question, error) {
	key := category + "/" + subcategory
	if qs, ok := c.lookup(key); ok {
		return qs, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		if qs, ok := c.lookup(key); ok {
			return qs, nil
		}
		qs, err := c.source.TestQuestions(ctx, category, subcategory)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.cache[key] = cachedQuestions{
			questions: qs,
			expiresAt: c.clock().Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return qs, nil
	})
	if err != nil {
		return nil, err
	}
	return copyQuestions(result.([]domain.Question)), nil
}

// Invalidate drops a cached test, e.g. after the bank changed.
func (c *QuestionCache) Invalidate(category, subcategory string) {
	c.mu.Lock()
	delete(c.cache, category+"/"+subcategory)
	c.mu.Unlock()
}

func (c *QuestionCache) lookup(key string) ([]domain.Question, bool) {
	now := c.clock()
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.cache[key]
	if !ok || !entry.expiresAt.After(now) {
		return nil, false
	}
	return copyQuestions(entry.questions), true
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

func copyQuestions(qs []domain.Question) []domain.Question {
	return append([]domain.Question(nil), qs...)
}

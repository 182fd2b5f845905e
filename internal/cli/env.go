package cli

import (
	"log"
	"net/http"
	"time"

	"assessment-client/internal/app"
	"assessment-client/internal/config"
	"assessment-client/internal/infra/file"
	"assessment-client/internal/infra/memory"
	redisinfra "assessment-client/internal/infra/redis"
	transport "assessment-client/internal/transport/http"
	"github.com/redis/go-redis/v9"
)

// env is everything a subcommand needs, built from config and flags.
type env struct {
	cfg    config.Config
	store  app.CredentialStore
	client *transport.Client
	redis  *redis.Client
}

func loadEnv(opts *options) (*env, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.apiURL != "" {
		cfg.API.BaseURL = opts.apiURL
	}
	if opts.profile != "" {
		cfg.Credentials.Profile = opts.profile
	}

	e := &env{cfg: cfg}
	if cfg.Redis.Addr != "" {
		e.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		sessionTTL := config.TTLDuration(cfg.Redis.TTL, 12*time.Hour)
		e.store = redisinfra.NewCredentialStore(e.redis, cfg.Credentials.Profile, sessionTTL)
	} else {
		e.store = file.NewCredentialStore(cfg.Credentials.Path, cfg.Credentials.Profile)
	}

	httpClient := &http.Client{Timeout: config.TTLDuration(cfg.API.Timeout, 15*time.Second)}
	e.client = transport.NewClient(cfg.API.BaseURL, e.store, transport.WithHTTPClient(httpClient))
	return e, nil
}

// questionSource wraps the client in the configured question cache.
func (e *env) questionSource() app.QuestionSource {
	ttl := config.TTLDuration(e.cfg.Questions.CacheTTL, 10*time.Minute)
	if e.redis != nil {
		return redisinfra.NewQuestionCache(e.redis, e.client, ttl)
	}
	return memory.NewQuestionCache(e.client, ttl)
}

func (e *env) Close() {
	if e.redis != nil {
		if err := e.redis.Close(); err != nil {
			log.Printf("close redis: %v", err)
		}
	}
}

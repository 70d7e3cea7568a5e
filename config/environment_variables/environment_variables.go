// Package environment_variables centralizes process configuration, loaded
// once at startup and refreshed by the cron service on each tick so that
// externally rotated secrets (API keys) are picked up without a restart.
package environment_variables

import (
	"os"
	"strconv"
	"time"
)

// Config holds every recognized module-init option from spec.md §6.
type Config struct {
	// BindAddr is the HTTP facade listen address.
	BindAddr string

	// OpenAlexContactEmail is sent as the `mailto` query parameter for the
	// OpenAlex polite pool.
	OpenAlexContactEmail string

	// CrossrefContactEmail is sent as the `mailto` query parameter to
	// Crossref.
	CrossrefContactEmail string

	// SemanticScholarAPIKey, when set, is sent as the `x-api-key` header.
	SemanticScholarAPIKey string

	// HTTPTimeout is the default per-request timeout (spec.md §5).
	HTTPTimeout time.Duration

	// TitleSimilarityThreshold is the fuzzy-dedup threshold (spec.md §9
	// Open Question), applied as the minimum author-name Jaccard overlap
	// between documents whose normalized titles are equal. Default 0.90.
	TitleSimilarityThreshold float64

	// RedisAddr configures the probe's statistics cache. Empty disables
	// Redis and keeps that cache in-process. The governor's daily quota
	// counters are always in-process.
	RedisAddr string

	// JWTSigningKey verifies bearer tokens on the facade. Empty disables
	// auth enforcement (useful for local development).
	JWTSigningKey string

	// OpenAlexBucketCapacity / OpenAlexBucketRefillPerSec override the
	// default governor bucket for OpenAlex (and similarly per provider).
	OpenAlexBucketCapacity          int
	OpenAlexBucketRefillPerSec      float64
	SemanticScholarBucketCapacity   int
	SemanticScholarBucketRefillRate float64
	CrossrefBucketCapacity          int
	CrossrefBucketRefillRate        float64
	ArxivBucketCapacity             int
	ArxivBucketRefillRate           float64
}

// EnvironmentVariables is the process-wide configuration singleton,
// following the teacher's `EnvironmentVariables.FIELD` access convention.
var EnvironmentVariables = &Config{}

func init() {
	EnvironmentVariables.LoadFromEnv()
}

// LoadFromEnv (re)populates the singleton from the process environment. It
// is safe to call repeatedly; the cron service calls it on every tick so
// rotated API keys take effect without a restart.
func (c *Config) LoadFromEnv() {
	c.BindAddr = getenvDefault("SCHOLARFED_BIND_ADDR", ":8080")
	c.OpenAlexContactEmail = os.Getenv("SCHOLARFED_OPENALEX_MAILTO")
	c.CrossrefContactEmail = os.Getenv("SCHOLARFED_CROSSREF_MAILTO")
	c.SemanticScholarAPIKey = os.Getenv("SCHOLARFED_S2_API_KEY")
	c.RedisAddr = os.Getenv("SCHOLARFED_REDIS_ADDR")
	c.JWTSigningKey = os.Getenv("SCHOLARFED_JWT_SIGNING_KEY")

	c.HTTPTimeout = getenvDuration("SCHOLARFED_HTTP_TIMEOUT", 30*time.Second)
	c.TitleSimilarityThreshold = getenvFloat("SCHOLARFED_TITLE_SIMILARITY_THRESHOLD", 0.90)

	c.OpenAlexBucketCapacity = getenvInt("SCHOLARFED_OPENALEX_BUCKET_CAPACITY", 10)
	c.OpenAlexBucketRefillPerSec = getenvFloat("SCHOLARFED_OPENALEX_BUCKET_REFILL", 1.0)
	c.SemanticScholarBucketCapacity = getenvInt("SCHOLARFED_S2_BUCKET_CAPACITY", 5)
	c.SemanticScholarBucketRefillRate = getenvFloat("SCHOLARFED_S2_BUCKET_REFILL", 1.0)
	c.CrossrefBucketCapacity = getenvInt("SCHOLARFED_CROSSREF_BUCKET_CAPACITY", 10)
	c.CrossrefBucketRefillRate = getenvFloat("SCHOLARFED_CROSSREF_BUCKET_REFILL", 1.0)
	c.ArxivBucketCapacity = getenvInt("SCHOLARFED_ARXIV_BUCKET_CAPACITY", 1)
	c.ArxivBucketRefillRate = getenvFloat("SCHOLARFED_ARXIV_BUCKET_REFILL", 1.0/3.0)
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

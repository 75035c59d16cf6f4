package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/learnhub-api/pkg/config"
)

func TestOptions(t *testing.T) {
	opts := Options(config.RedisConfig{Host: "cache.internal", Port: 6380, Password: "s3cret", DB: 2})

	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, "s3cret", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, pingTimeout, opts.DialTimeout)
}

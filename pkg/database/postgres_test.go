package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/learnhub-api/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "learnhub",
		Password: "pa ss'word",
		Name:     "learnhub",
		SSLMode:  "disable",
	})

	assert.Equal(t, `host=db port=5432 user=learnhub password='pa ss\'word' dbname=learnhub sslmode=disable`, dsn)
}

func TestDSNSkipsEmptyValues(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 5432, Name: "learnhub"})

	assert.Equal(t, "host=db port=5432 dbname=learnhub", dsn)
}

package postgres_test

import (
	"testing"

	postgres_adapter "emojiorder/internal/adapters/out/postgres"

	"github.com/stretchr/testify/assert"
)

func TestConnectionSettings_DSN(t *testing.T) {
	settings := postgres_adapter.ConnectionSettings{
		Host:     "db",
		Port:     "5432",
		User:     "orders",
		Password: "p@ss word",
		Name:     "emoji",
		SSLMode:  "disable",
	}
	assert.Equal(t, "postgres://orders:p%40ss%20word@db:5432/emoji?sslmode=disable", settings.DSN())

	settings.SSLMode = ""
	assert.Equal(t, "postgres://orders:p%40ss%20word@db:5432/emoji", settings.DSN())
}

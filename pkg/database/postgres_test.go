package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/internship-noc-api/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:     "db",
		Port:     5433,
		User:     "noc",
		Password: "secret",
		Name:     "internship_noc",
		SSLMode:  "require",
	})
	assert.Equal(t, "host=db port=5433 user=noc password=secret dbname=internship_noc sslmode=require", dsn)
}

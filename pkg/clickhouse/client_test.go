package clickhouse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildDSN(t *testing.T) {
	dsn := BuildDSN(ClientConfig{
		Host: "ch", Port: 9000, Database: "finbeta", User: "u", Password: "p@ss",
		DialTimeout: 5 * time.Second, ReadTimeout: 30 * time.Second, MaxExecTime: 45 * time.Second,
	})
	assert.Equal(t, "clickhouse://u:p%40ss@ch:9000/finbeta?dial_timeout=5s&max_execution_time=45&read_timeout=30s", dsn)
}

func TestBuildDSNHTTP(t *testing.T) {
	dsn := BuildDSN(ClientConfig{Host: "ch", Port: 8123, Database: "db", User: "default", UseHTTP: true})
	assert.Equal(t, "http://default:@ch:8123/db", dsn)
}

func TestNewClientRequiresHost(t *testing.T) {
	_, err := NewClient()
	assert.Error(t, err)
}

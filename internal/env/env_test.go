package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetString(t *testing.T) {
	t.Setenv("BISTRO_TEST_STRING", "value")

	assert.Equal(t, "value", GetString("BISTRO_TEST_STRING", "fallback"))
	assert.Equal(t, "fallback", GetString("BISTRO_TEST_MISSING", "fallback"))
}

func TestGetIntAndBool(t *testing.T) {
	t.Setenv("BISTRO_TEST_INT", "42")
	t.Setenv("BISTRO_TEST_BAD_INT", "forty-two")
	t.Setenv("BISTRO_TEST_BOOL", "false")

	assert.Equal(t, 42, GetInt("BISTRO_TEST_INT", 7))
	assert.Equal(t, 7, GetInt("BISTRO_TEST_BAD_INT", 7))
	assert.False(t, GetBool("BISTRO_TEST_BOOL", true))
	assert.True(t, GetBool("BISTRO_TEST_MISSING", true))
}

func TestGetDuration(t *testing.T) {
	t.Setenv("BISTRO_TEST_TTL", "24h")
	t.Setenv("BISTRO_TEST_BAD_TTL", "a day")

	assert.Equal(t, 24*time.Hour, GetDuration("BISTRO_TEST_TTL", time.Hour))
	assert.Equal(t, time.Hour, GetDuration("BISTRO_TEST_BAD_TTL", time.Hour))
}

func TestGetStrings(t *testing.T) {
	fallback := []string{"http://localhost:5173"}

	t.Setenv("BISTRO_TEST_LIST", " https://a.example , ,https://b.example")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, GetStrings("BISTRO_TEST_LIST", fallback))

	t.Setenv("BISTRO_TEST_EMPTY_LIST", " , ")
	assert.Equal(t, fallback, GetStrings("BISTRO_TEST_EMPTY_LIST", fallback))
}

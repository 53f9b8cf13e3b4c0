package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMessageFactoryStampsClock(t *testing.T) {
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return fixed }
	t.Cleanup(func() { timeNow = time.Now })

	msg := NewMessage("alice", "hi")
	assert.Equal(t, "alice", msg.Username)
	assert.Equal(t, "hi", msg.Text)
	assert.Equal(t, fixed, msg.CreatedAt)

	loc := NewLocationMessage("bob", "https://google.com/maps?q=1,2")
	assert.Equal(t, "bob", loc.Username)
	assert.Equal(t, "https://google.com/maps?q=1,2", loc.URL)
	assert.Equal(t, fixed, loc.CreatedAt)
}

func TestLocationURL(t *testing.T) {
	assert.Equal(t, "https://google.com/maps?q=40.7128,-74.006", LocationURL(40.7128, -74.006))
	assert.Equal(t, "https://google.com/maps?q=0,0", LocationURL(0, 0))
}

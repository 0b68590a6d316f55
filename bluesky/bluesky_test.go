package bluesky

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostRequiresCredentials(t *testing.T) {
	c := NewClient("https://bsky.social", "", "")

	_, err := c.Post(context.Background(), "hello")
	assert.EqualError(t, err, "bluesky: handle and password are required")
}

package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	loc, err := ParseLocation("s3://photos/2024/cat.jpg")
	require.NoError(t, err)
	assert.Equal(t, Location{Bucket: "photos", Key: "2024/cat.jpg"}, loc)
	assert.Equal(t, "s3://photos/2024/cat.jpg", loc.String())

	loc, err = ParseLocation("  S3://photos//cat.png ")
	require.NoError(t, err)
	assert.Equal(t, "cat.png", loc.Key)
}

func TestParseLocation_Invalid(t *testing.T) {
	for _, in := range []string{
		"photos/cat.jpg",
		"s3://",
		"s3:///cat.jpg",
		"s3://photos",
		"s3://photos/",
		"s3://photos/dir/",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseLocation(in)
			assert.ErrorIs(t, err, ErrInvalidLocation)
		})
	}
}

func TestIsObjectURI(t *testing.T) {
	assert.True(t, IsObjectURI("s3://bucket/key.png"))
	assert.True(t, IsObjectURI("S3://bucket/key.png"))
	assert.False(t, IsObjectURI("/tmp/key.png"))
	assert.False(t, IsObjectURI("s3:/bucket/key.png"))
}

func TestNewClient_RequiresEndpoint(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)

	client, err := NewClient(Config{Endpoint: "localhost:9000", Access: "minioadmin", Secret: "minioadmin"})
	require.NoError(t, err)
	assert.NotNil(t, client)
}

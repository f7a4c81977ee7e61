package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAnnotation_AllTokens(t *testing.T) {
	ann := ParseAnnotation("target:10|downtime:5|part:frame|partId:6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	assert.Empty(t, ann.Malformed)
	assert.Equal(t, 10, *ann.Target)
	assert.Equal(t, 5, *ann.DowntimeMinutes)
	assert.Equal(t, "frame", *ann.Part)
	assert.Equal(t, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", *ann.PartID)
}

func TestParseAnnotation_Empty(t *testing.T) {
	for _, text := range []string{"", "   ", "||"} {
		ann := ParseAnnotation(text)
		assert.Nil(t, ann.Target)
		assert.Nil(t, ann.DowntimeMinutes)
		assert.Nil(t, ann.Part)
		assert.Nil(t, ann.PartID)
		assert.Empty(t, ann.Malformed)
	}
}

func TestParseAnnotation_MalformedTokensAreCollected(t *testing.T) {
	ann := ParseAnnotation("target:ten|downtime:-3|partId:not-a-uuid|justtext")

	assert.Nil(t, ann.Target)
	assert.Nil(t, ann.DowntimeMinutes)
	assert.Nil(t, ann.PartID)
	assert.Len(t, ann.Malformed, 4)
}

func TestParseAnnotation_BadTokenDoesNotPoisonSiblings(t *testing.T) {
	ann := ParseAnnotation("target:abc|downtime:5")

	assert.Nil(t, ann.Target)
	assert.Equal(t, 5, *ann.DowntimeMinutes)
	assert.Equal(t, []string{"target:abc"}, ann.Malformed)
}

func TestParseAnnotation_UnknownKeysIgnored(t *testing.T) {
	ann := ParseAnnotation("operator:smith|target:7")

	assert.Equal(t, 7, *ann.Target)
	assert.Empty(t, ann.Malformed)
}

func TestParseAnnotation_WhitespaceTolerant(t *testing.T) {
	ann := ParseAnnotation(" target : 12 | downtime : 3 ")

	assert.Equal(t, 12, *ann.Target)
	assert.Equal(t, 3, *ann.DowntimeMinutes)
}

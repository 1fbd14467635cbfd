package service

import (
	"encoding/json"
	"testing"

	"github.com/meilisearch/meilisearch-go"
	"github.com/stretchr/testify/assert"
)

func TestHitID(t *testing.T) {
	id, ok := hitID(meilisearch.Hit{"id": json.RawMessage(`"a1b2"`)})
	assert.True(t, ok)
	assert.Equal(t, "a1b2", id)

	// Missing or non-string ids are skipped
	_, ok = hitID(meilisearch.Hit{})
	assert.False(t, ok)

	_, ok = hitID(meilisearch.Hit{"id": json.RawMessage(`42`)})
	assert.False(t, ok)
}

func TestFilterList(t *testing.T) {
	assert.Equal(t, `["golang"]`, filterList([]string{"golang"}))
	assert.Equal(t, `["golang", "unit testing"]`, filterList([]string{"golang", "unit testing"}))
}

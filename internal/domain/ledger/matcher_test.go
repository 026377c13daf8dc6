package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFind(t *testing.T) {
	items := []LineItem{
		{EntryID: "01HZX", ProductRef: p1},
		{EntryID: "01HZY", ProductRef: "mock-7"},
		{EntryID: "01HZZ", ProductRef: p1},
	}

	tests := []struct {
		name  string
		ref   string
		index int
		found bool
	}{
		{name: "by product reference", ref: "mock-7", index: 1, found: true},
		{name: "by entry id", ref: "01HZY", index: 1, found: true},
		{name: "first match wins", ref: p1, index: 0, found: true},
		{name: "no case folding", ref: "MOCK-7", index: -1},
		{name: "surrounding whitespace", ref: " mock-7\t", index: 1, found: true},
		{name: "whitespace only never matches", ref: "   ", index: -1},
		{name: "empty never matches", ref: "", index: -1},
		{name: "unknown", ref: "nope", index: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, found := Find(items, tt.ref)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.index, idx)
		})
	}
}

func TestFind_EmptyEntryIDDoesNotMatchEmptyRef(t *testing.T) {
	items := []LineItem{{ProductRef: p1}}

	_, found := Find(items, "")
	assert.False(t, found)
}

func TestFind_NormalizesStoredReference(t *testing.T) {
	items := []LineItem{{EntryID: "01HZX", ProductRef: " legacy-1 "}}

	idx, found := Find(items, "legacy-1")
	assert.True(t, found)
	assert.Equal(t, 0, idx)
}

func TestFindWishlist(t *testing.T) {
	items := []WishlistItem{
		{EntryID: "w1", ProductRef: "X"},
		{EntryID: "w2", ProductRef: p2},
	}

	idx, found := FindWishlist(items, "w2")
	assert.True(t, found)
	assert.Equal(t, 1, idx)

	idx, found = FindWishlist(items, "X")
	assert.True(t, found)
	assert.Equal(t, 0, idx)
}

func TestLookup_SingleScheme(t *testing.T) {
	items := []LineItem{{EntryID: "abc", ProductRef: "def"}}

	assert.Equal(t, 0, findEntry(items, ByReference("def")))
	assert.Equal(t, -1, findEntry(items, ByReference("abc")))
	assert.Equal(t, 0, findEntry(items, ByEntryID("abc")))
	assert.Equal(t, -1, findEntry(items, ByEntryID("def")))
}

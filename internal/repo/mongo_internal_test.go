package repo

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDocument_ItemWithoutIDIsStableAcrossReads(t *testing.T) {
	doc := tripDocument{
		ID:    uuid.NewString(),
		Items: []itemDocument{{Name: "Boots"}, {ID: "not-a-uuid", Name: "Socks"}, {Name: "Boots"}},
	}

	first := fromDocument(doc)
	second := fromDocument(doc)

	require.Len(t, first.Items, 3)
	for i := range first.Items {
		assert.NotEqual(t, uuid.Nil, first.Items[i].ID)
		assert.Equal(t, first.Items[i].ID, second.Items[i].ID, "item %d", i)
	}
	assert.NotEqual(t, first.Items[0].ID, first.Items[2].ID, "same name at different positions")
}

func TestFromDocument_KeepsStoredItemID(t *testing.T) {
	itemID := uuid.New()
	doc := tripDocument{ID: uuid.NewString(), Items: []itemDocument{{ID: itemID.String(), Name: "Hat"}}}

	assert.Equal(t, itemID, fromDocument(doc).Items[0].ID)
}

func TestVersionFilter_UnversionedDocument(t *testing.T) {
	f := versionFilter(tripDocument{ID: "abc"})

	require.Len(t, f, 2)
	assert.Equal(t, "version", f[1].Key)
	assert.NotEqual(t, int64(0), f[1].Value, "legacy documents have no version field to equal 0")
}

package hybridcontent

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptional_PresenceTracking(t *testing.T) {
	var patch BlogPostPatch
	require.NoError(t, json.Unmarshal([]byte(`{"title":"New title","excerpt":"","publishedAt":null}`), &patch))

	title, ok := patch.Title.Get()
	assert.True(t, ok)
	assert.Equal(t, "New title", title)

	assert.True(t, patch.Excerpt.IsSet(), "explicit empty string is a value")
	assert.True(t, patch.PublishedAt.IsSet(), "explicit null clears the column")
	assert.Nil(t, patch.PublishedAt.OrElse(&time.Time{}))

	assert.False(t, patch.Slug.IsSet())
	assert.False(t, patch.Tags.IsSet())
	assert.Equal(t, "fallback", patch.Slug.OrElse("fallback"))
}

func TestOptional_Marshal(t *testing.T) {
	data, err := json.Marshal(struct {
		A Optional[int] `json:"a"`
		B Optional[int] `json:"b"`
	}{A: Some(3)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":3,"b":null}`, string(data))
}

func TestPromotion_ActiveAt(t *testing.T) {
	from := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	until := from.Add(7 * 24 * time.Hour)
	p := &Promotion{IsActive: true, ValidFrom: from, ValidUntil: until}

	assert.True(t, p.ActiveAt(from), "window start is inclusive")
	assert.True(t, p.ActiveAt(until), "window end is inclusive")
	assert.False(t, p.ActiveAt(from.Add(-time.Second)))
	assert.False(t, p.ActiveAt(until.Add(time.Second)))

	p.IsActive = false
	assert.False(t, p.ActiveAt(from.Add(time.Hour)))
}

func TestPromotion_AppliesToRestaurant(t *testing.T) {
	everywhere := &Promotion{}
	assert.True(t, everywhere.AppliesToRestaurant("any"))

	targeted := &Promotion{TargetRestaurants: []string{"rest-1", "rest-2"}}
	assert.True(t, targeted.AppliesToRestaurant("rest-2"))
	assert.False(t, targeted.AppliesToRestaurant("rest-3"))
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{0, 0, DefaultPageSize, 0},
		{-5, -1, DefaultPageSize, 0},
		{500, 10, MaxPageSize, 10},
		{15, 30, 15, 30},
	}
	for _, tt := range tests {
		limit, offset := ClampPage(tt.limit, tt.offset)
		assert.Equal(t, tt.wantLimit, limit)
		assert.Equal(t, tt.wantOffset, offset)
	}
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, (&RestaurantContent{}).Validate(), ErrInvalidRecord)
	assert.NoError(t, (&RestaurantContent{ExternalID: "rest-1"}).Validate())
	assert.ErrorIs(t, (&BlogPost{Title: "No slug"}).Validate(), ErrInvalidRecord)

	now := time.Now()
	backwards := &Promotion{Title: "Backwards", ValidFrom: now, ValidUntil: now.Add(-time.Hour)}
	assert.ErrorIs(t, backwards.Validate(), ErrInvalidRecord)
}

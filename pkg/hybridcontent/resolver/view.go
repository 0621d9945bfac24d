package resolver

import (
	"encoding/json"
	"maps"
	"time"

	"github.com/tendant/hybrid-content/pkg/hybridcontent/cms"
	"github.com/tendant/hybrid-content/pkg/hybridcontent/operational"
)

// SourceHybrid marks a view merged from both stores.
const SourceHybrid = "hybrid"

// Keys a view adds next to the operational fields. They take precedence
// over operational fields of the same name when encoded.
const (
	fieldContent        = "content"
	fieldHasRichContent = "hasRichContent"
	fieldSource         = "source"
	fieldLastUpdated    = "lastUpdated"
)

// View is the read-only merge of an operational record and its optional
// content attributes. It encodes flat: the operational fields at the top
// level with the attributes under "content".
//
// Operational values always hold JSON-decoded types (float64 numbers,
// []any, map[string]any), whether the view was built fresh or read from
// the cache.
type View[A any] struct {
	Operational    operational.Record
	Content        *A
	HasRichContent bool
	Source         string
	LastUpdated    time.Time
}

// HybridRestaurant is a restaurant with its editorial content.
type HybridRestaurant = View[cms.RestaurantContentAttributes]

// HybridMenuCategory is a menu category with its editorial content.
type HybridMenuCategory = View[cms.MenuCategoryAttributes]

// HybridMenuItem is a menu item with its editorial content.
type HybridMenuItem = View[cms.MenuItemAttributes]

// MenuSection is one category of a menu and the items filed under it.
type MenuSection struct {
	Category HybridMenuCategory `json:"category"`
	Items    []HybridMenuItem   `json:"items"`
}

// HybridMenu is the full menu of a restaurant. Items whose category is
// unknown are listed under Uncategorized.
type HybridMenu struct {
	RestaurantID  string           `json:"restaurantId"`
	Sections      []MenuSection    `json:"sections"`
	Uncategorized []HybridMenuItem `json:"uncategorized,omitempty"`
	LastUpdated   time.Time        `json:"lastUpdated"`
}

// merge never shares the operational map with the caller.
func merge[A any](rec operational.Record, content *A, now time.Time) View[A] {
	return View[A]{
		Operational:    normalize(rec),
		Content:        content,
		HasRichContent: content != nil,
		Source:         SourceHybrid,
		LastUpdated:    now,
	}
}

// normalize deep-copies rec through JSON so its values carry the same
// types a cached view decodes to. Records that do not encode are cloned
// shallowly.
func normalize(rec operational.Record) operational.Record {
	data, err := json.Marshal(rec)
	if err != nil {
		return maps.Clone(rec)
	}
	var out operational.Record
	if err := json.Unmarshal(data, &out); err != nil {
		return maps.Clone(rec)
	}
	return out
}

// ID returns the operational id.
func (v View[A]) ID() string {
	return v.Operational.ID()
}

func (v View[A]) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(v.Operational)+4)
	maps.Copy(out, v.Operational)
	delete(out, fieldContent)
	if v.Content != nil {
		out[fieldContent] = v.Content
	}
	out[fieldHasRichContent] = v.HasRichContent
	out[fieldSource] = v.Source
	out[fieldLastUpdated] = v.LastUpdated
	return json.Marshal(out)
}

func (v *View[A]) UnmarshalJSON(data []byte) error {
	var meta struct {
		Content        *A        `json:"content"`
		HasRichContent bool      `json:"hasRichContent"`
		Source         string    `json:"source"`
		LastUpdated    time.Time `json:"lastUpdated"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return err
	}
	var rec operational.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	for _, k := range []string{fieldContent, fieldHasRichContent, fieldSource, fieldLastUpdated} {
		delete(rec, k)
	}

	*v = View[A]{
		Operational:    rec,
		Content:        meta.Content,
		HasRichContent: meta.HasRichContent,
		Source:         meta.Source,
		LastUpdated:    meta.LastUpdated,
	}
	return nil
}

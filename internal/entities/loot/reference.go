// Package loot contains the loot table domain model: weighted entries whose
// rewards are described by a closed set of reference variants.
package loot

import (
	"fmt"

	"github.com/KirkDiggler/rpg-loot/internal/errors"
)

// Variant names the four reference kinds. The values double as the tag
// names used by the stored loot documents.
type Variant string

const (
	VariantItem         Variant = "Item"
	VariantItemQuantity Variant = "ItemQuantity"
	VariantLootTable    Variant = "LootTable"
	VariantNothing      Variant = "Nothing"
)

// Reference describes what a loot entry awards. The set of implementations is
// closed: Item, ItemQuantity, TableRef and Nothing. Consumers switch on the
// concrete type.
type Reference interface {
	Variant() Variant
	isReference()
}

// Item is a concrete asset path that resolves to exactly one reward.
type Item struct {
	Path string
}

// ItemQuantity is an asset path plus an inclusive quantity range.
type ItemQuantity struct {
	Path string
	Min  uint32
	Max  uint32
}

// TableRef points at another loot table by asset path.
type TableRef struct {
	Path string
}

// Nothing means the entry awards no reward.
type Nothing struct{}

func (Item) Variant() Variant         { return VariantItem }
func (ItemQuantity) Variant() Variant { return VariantItemQuantity }
func (TableRef) Variant() Variant     { return VariantLootTable }
func (Nothing) Variant() Variant      { return VariantNothing }

func (Item) isReference()         {}
func (ItemQuantity) isReference() {}
func (TableRef) isReference()     {}
func (Nothing) isReference()      {}

// NewItemQuantity builds a quantity reference, rejecting an inverted range.
func NewItemQuantity(path string, minQty, maxQty uint32) (ItemQuantity, error) {
	q := ItemQuantity{Path: path, Min: minQty, Max: maxQty}
	if err := q.Validate(); err != nil {
		return ItemQuantity{}, err
	}
	return q, nil
}

// Validate checks min <= max.
func (q ItemQuantity) Validate() error {
	if q.Min > q.Max {
		return errors.InvalidArgumentf("item quantity min (%d) must be <= max (%d)", q.Min, q.Max).
			WithMeta("path", q.Path)
	}
	return nil
}

// Range renders the quantity range the way report rows prefix it, e.g. "2-5".
func (q ItemQuantity) Range() string {
	return fmt.Sprintf("%d-%d", q.Min, q.Max)
}

// PathOf returns the asset path carried by a reference, or "" for Nothing.
func PathOf(ref Reference) string {
	switch r := ref.(type) {
	case Item:
		return r.Path
	case ItemQuantity:
		return r.Path
	case TableRef:
		return r.Path
	case Nothing:
		return ""
	default:
		return ""
	}
}

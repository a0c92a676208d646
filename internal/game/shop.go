package game

import "github.com/user/career-survival/internal/types"

// Shop sells catalog items
type Shop struct {
	catalog  *Catalog
	resolver *Resolver
}

// NewShop creates the shop
func NewShop(c *Catalog, resolver *Resolver) *Shop {
	return &Shop{catalog: c, resolver: resolver}
}

// Buy charges the price and applies the item. Nothing changes when the item
// is unknown or the run cannot afford it.
func (sh *Shop) Buy(s types.RunState, itemID string) (types.RunState, types.EffectDescriptor, error) {
	item, ok := sh.catalog.ShopItem(itemID)
	if !ok {
		return s, types.EffectDescriptor{}, ErrUnknownItem
	}
	if s.Money < item.Price {
		return s, types.EffectDescriptor{}, ErrInsufficientFunds
	}

	raw := Evaluate(item.Effect, s)
	raw.Money -= item.Price
	next, applied, _ := sh.resolver.Apply(s, raw)
	return next, applied, nil
}

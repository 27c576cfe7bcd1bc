package adapters

import (
	"context"

	"go-storefront/internal/cart"
	"go-storefront/internal/catalog"
)

type CatalogLookupAdapter struct {
	catalogSvc catalog.Service
}

func NewCatalogLookupAdapter(
	catalogSvc catalog.Service,
) cart.ProductLookup {
	return &CatalogLookupAdapter{
		catalogSvc: catalogSvc,
	}
}

func (a *CatalogLookupAdapter) Lookup(
	ctx context.Context,
	id cart.ProductID,
) (cart.Product, error) {

	d, err := a.catalogSvc.Detail(ctx, id.String())
	if err != nil {
		return cart.Product{}, err
	}

	attrs := make(map[string]any, len(d.Attributes)+1)
	for k, v := range d.Attributes {
		attrs[k] = v
	}
	if d.ImageURL != "" {
		attrs["imageUrl"] = d.ImageURL
	}
	if len(attrs) == 0 {
		attrs = nil
	}

	image := d.Image
	if image == nil {
		image = []string{}
	}

	return cart.Product{
		ID:         cart.ProductID(d.ID),
		Name:       d.Name,
		Price:      d.Price,
		Image:      image,
		Attributes: attrs,
	}, nil
}

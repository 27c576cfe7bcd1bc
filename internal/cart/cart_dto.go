package cart

import "github.com/shopspring/decimal"

// AddItemRequest is the ADD_TO_CART payload as sent by clients. When Price
// is omitted the product is resolved from the catalog.
type AddItemRequest struct {
	ID         ProductID        `json:"id" validate:"required"`
	Name       string           `json:"name" validate:"max=512"`
	Price      *decimal.Decimal `json:"price"`
	Image      []string         `json:"image" validate:"omitempty,dive,required"`
	Attributes map[string]any   `json:"attributes"`
}

type CartItemResponse struct {
	LineItem
	Subtotal decimal.Decimal `json:"subtotal"`
}

type CartResponse struct {
	CartID  string             `json:"cartId"`
	Items   []CartItemResponse `json:"items"`
	Billing Billing            `json:"billing"`
}

type QuantityResponse struct {
	ProductID ProductID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

type BillingResponse struct {
	CartID string `json:"cartId"`
	Billing
}

func toCartResponse(cartID string, s State) CartResponse {
	items := s.Items()
	out := make([]CartItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, CartItemResponse{
			LineItem: it,
			Subtotal: it.Subtotal(),
		})
	}
	return CartResponse{
		CartID:  cartID,
		Items:   out,
		Billing: ComputeBilling(items),
	}
}

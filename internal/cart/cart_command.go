package cart

type CommandType string

const (
	TypeAddToCart         CommandType = "ADD_TO_CART"
	TypeIncrementQuantity CommandType = "INCREMENT_QUANTITY"
	TypeDecrementQuantity CommandType = "DECREMENT_QUANTITY"
	TypeRemoveFromCart    CommandType = "REMOVE_FROM_CART"
	TypeClearCart         CommandType = "CLEAR_CART"
)

// Command is the closed set of cart transitions. Only the types in this
// file implement it; pass them by value.
type Command interface {
	Type() CommandType
	isCommand()
}

type AddToCart struct {
	Product Product
}

type IncrementQuantity struct {
	ID ProductID
}

type DecrementQuantity struct {
	ID ProductID
}

type RemoveFromCart struct {
	ID ProductID
}

type ClearCart struct{}

func (AddToCart) Type() CommandType         { return TypeAddToCart }
func (IncrementQuantity) Type() CommandType { return TypeIncrementQuantity }
func (DecrementQuantity) Type() CommandType { return TypeDecrementQuantity }
func (RemoveFromCart) Type() CommandType    { return TypeRemoveFromCart }
func (ClearCart) Type() CommandType         { return TypeClearCart }

func (AddToCart) isCommand()         {}
func (IncrementQuantity) isCommand() {}
func (DecrementQuantity) isCommand() {}
func (RemoveFromCart) isCommand()    {}
func (ClearCart) isCommand()         {}

// TargetID returns the product a command addresses, "" for ClearCart.
func TargetID(cmd Command) ProductID {
	switch c := cmd.(type) {
	case AddToCart:
		return c.Product.ID
	case IncrementQuantity:
		return c.ID
	case DecrementQuantity:
		return c.ID
	case RemoveFromCart:
		return c.ID
	default:
		return ""
	}
}

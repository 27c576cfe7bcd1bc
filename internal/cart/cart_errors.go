package cart

import (
	"errors"
	"net/http"

	"go-storefront/internal/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidCartID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid cart ID",
		http.StatusBadRequest,
	)

	ErrInvalidProduct = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid product payload",
		http.StatusBadRequest,
	)

	ErrNegativePrice = apperror.New(
		apperror.CodeInvalidInput,
		"Price must not be negative",
		http.StatusBadRequest,
	)
)

// MapValidationError turns validator output into ErrInvalidProduct, naming
// the first offending field.
func MapValidationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return ErrInvalidProduct.Wrap(errors.New(verrs[0].Field() + " failed on " + verrs[0].Tag()))
	}
	return ErrInvalidProduct.Wrap(err)
}

package catalog

import (
	"net/http"

	"go-storefront/internal/pkg/apperror"
)

var (
	ErrInvalidProductID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid product ID",
		http.StatusBadRequest,
	)

	ErrProductNotFound = apperror.New(
		apperror.CodeNotFound,
		"Product not found",
		http.StatusNotFound,
	)

	ErrCatalogUnavailable = apperror.New(
		apperror.CodeBadGateway,
		"Catalog is unavailable",
		http.StatusBadGateway,
	)
)

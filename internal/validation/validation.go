package validation

import (
	"context"

	"github.com/go-playground/validator/v10"
)

var global = validator.New(validator.WithRequiredStructEnabled())

// Struct checks the validate tags on s and returns the underlying
// validator.ValidationErrors on failure.
func Struct(ctx context.Context, s any) error {
	return global.StructCtx(ctx, s)
}

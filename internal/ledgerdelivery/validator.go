package ledgerdelivery

import (
	"reflect"

	"github.com/go-petr/pet-ledger/pkg/moneypkg"
	"github.com/go-playground/validator/v10"
)

// ValidMoney validates whether the field holds an amount with cent precision.
var ValidMoney validator.Func = func(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}

	_, err := moneypkg.New(field.String())

	return err == nil
}

package use

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_FieldErr(t *testing.T) {
	cause := errors.New("bad tag")
	err := FieldErr("Cart", "customer", cause)
	assert.Equal(t, "invalid mapping entity: Cart field: customer; bad tag", err.Error())
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, "no type arg", Err("no type arg").Error())
}

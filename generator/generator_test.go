package generator

import (
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m4gshm/ormaccessor/internal/typecheck"
	"github.com/m4gshm/ormaccessor/logger"
	"github.com/m4gshm/ormaccessor/model/entity"
)

func init() {
	logger.Init(false)
}

const shopPkg = "example.com/shop"

const shopSrc = `package shop

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	id       int64           ` + "`orm:\"column(type=bigint); generated_value\"`" + `
	note     *string         ` + "`orm:\"column(type=text, length=16, nullable=true)\"`" + `
	code     *string         ` + "`orm:\"column(type=string)\"`" + `
	qty      int             ` + "`orm:\"column(type=smallint)\"`" + `
	small    int16           ` + "`orm:\"column(type=smallint)\"`" + `
	total    decimal.Decimal ` + "`orm:\"column(type=decimal, precision=10, scale=2)\"`" + `
	created  time.Time       ` + "`orm:\"column(type=datetime)\"`" + `
	customer *Customer       ` + "`orm:\"many_to_one(target=Customer, inversed_by=carts)\"`" + `
	tags     []*Tag          ` + "`orm:\"many_to_many(target=Tag, inversed_by=carts)\"`" + `
	items    []*Item         ` + "`orm:\"one_to_many(target=Item, mapped_by=cart)\"`" + `
	Title    string          ` + "`orm:\"column(type=string, length=8)\"`" + `
	cache    map[string]int
}

type Customer struct {
	carts []*Cart ` + "`orm:\"one_to_many(target=Cart, mapped_by=customer)\"`" + `
}

type Tag struct {
	carts []*Cart ` + "`orm:\"many_to_many(target=Cart, mapped_by=tags)\"`" + `
}

type Item struct {
	cart *Cart ` + "`orm:\"many_to_one(target=Cart); column(nullable=true)\"`" + `
}
`

func generate(t *testing.T, src string, nolint bool, typeNames ...string) (string, error) {
	checked, err := typecheck.Check(shopPkg, src)
	require.NoError(t, err)
	g := New("ormaccessor", []string{"-type", "Cart"}, shopPkg, "shop")
	g.Nolint = nolint
	for _, typeName := range typeNames {
		typ, err := checked.Lookup(typeName)
		require.NoError(t, err)
		model, err := entity.New(shopPkg, typ, checked.File, "")
		require.NoError(t, err)
		if err := g.GenerateAccessors(model); err != nil {
			return "", err
		}
	}
	out, err := g.Src()
	require.NoError(t, err)
	return string(out), nil
}

func Test_GenerateAccessors(t *testing.T) {
	out, err := generate(t, shopSrc, false, "Cart", "Customer", "Tag", "Item")
	require.NoError(t, err)

	assert.Contains(t, out, "// Code generated by 'ormaccessor -type Cart'; DO NOT EDIT.")
	assert.Contains(t, out, "package shop")
	assert.Contains(t, out, `"github.com/m4gshm/ormaccessor/accessor"`)
	assert.Contains(t, out, `"github.com/shopspring/decimal"`)

	assert.Contains(t, out, "func (c *Cart) ID() int64 {\n\tif c != nil {\n\t\treturn c.id\n\t}\n\tvar no int64\n\treturn no\n}")
	assert.NotContains(t, out, "SetID")
	assert.NotContains(t, out, "Cache")

	assert.Contains(t, out, "func (c *Cart) SetNote(note *string) error {\n\tif note != nil {\n\t\tif err := accessor.CheckLength(\"note\", *note, 16); err != nil {")
	assert.Contains(t, out, "func (c *Cart) SetCode(code *string) error {\n\tif err := accessor.CheckNotNil(\"code\", code); err != nil {")
	assert.Contains(t, out, "func (c *Cart) SetQty(qty int) error {\n\tif err := accessor.CheckIntegerSize(\"qty\", int64(qty), 16); err != nil {")
	assert.Contains(t, out, "func (c *Cart) SetSmall(small int16) {\n\tc.small = small\n}")
	assert.Contains(t, out, "func (c *Cart) Total() decimal.Decimal {")
	assert.Contains(t, out, "accessor.CheckDecimal(\"total\", total, 10, 2)")
	assert.Contains(t, out, "func (c *Cart) SetCreated(created time.Time) {\n\tc.created = created\n}")

	assert.Contains(t, out, "func (c *Cart) GetTitle() string {")
	assert.Contains(t, out, "func (c *Cart) SetTitle(title string) error {")

	// required reference
	assert.Contains(t, out, "func (c *Cart) Customer() (*Customer, error) {\n\tif c == nil || c.customer == nil {\n\t\treturn nil, accessor.NotFound(\"customer\")\n\t}\n\treturn c.customer, nil\n}")
	assert.Contains(t, out, "func (c *Cart) SetCustomer(customer *Customer) {\n\taccessor.Relink[*Cart, *Customer](cartCustomerInverse{}, c, c.customer, customer)\n\tc.customer = customer\n}")
	assert.Contains(t, out, "type cartCustomerInverse struct{}")
	assert.Contains(t, out, "var _ accessor.Inverse[*Cart, *Customer] = cartCustomerInverse{}")
	assert.Contains(t, out, "func (cartCustomerInverse) ClearInverse(old *Customer, owner *Cart) {\n\told.carts, _ = accessor.Remove(old.carts, owner)\n}")
	assert.Contains(t, out, "func (cartCustomerInverse) SetInverse(related *Customer, owner *Cart) {\n\trelated.carts, _ = accessor.AddUnique(related.carts, owner)\n}")

	// owning collection
	assert.Contains(t, out, "func (c *Cart) Tags() []*Tag {")
	assert.Contains(t, out, "func (c *Cart) AddTag(tag *Tag) {\n\tvar changed bool\n\tif c.tags, changed = accessor.AddUnique(c.tags, tag); changed {\n\t\taccessor.Link[*Cart, *Tag](cartTagsInverse{}, c, tag)\n\t}\n}")
	assert.Contains(t, out, "func (c *Cart) RemoveTag(tag *Tag) {")
	assert.Contains(t, out, "accessor.Unlink[*Cart, *Tag](cartTagsInverse{}, c, tag)")

	// inverse side collections are read only
	assert.Contains(t, out, "func (c *Cart) Items() []*Item {")
	assert.NotContains(t, out, "AddItem")
	assert.Contains(t, out, "func (c *Customer) Carts() []*Cart {")
	assert.NotContains(t, out, "AddCart")
	assert.Contains(t, out, "func (t *Tag) Carts() []*Cart {")

	// nullable reference without inverse side
	assert.Contains(t, out, "func (i *Item) Cart() *Cart {")
	assert.Contains(t, out, "func (i *Item) SetCart(cart *Cart) {\n\ti.cart = cart\n}")

	assert.NotContains(t, out, "//nolint")
}

func Test_GenerateInverseManyToMany(t *testing.T) {
	out, err := generate(t, shopSrc, false, "Tag")
	require.NoError(t, err)
	assert.Contains(t, out, "func (t *Tag) Carts() []*Cart {")
	assert.NotContains(t, out, "AddCart")
	assert.NotContains(t, out, "RemoveCart")
	assert.NotContains(t, out, "Inverse")
}

func Test_GenerateUnsignedAccessors(t *testing.T) {
	out, err := generate(t, `package shop

type Counter struct {
	hits  uint64  `+"`orm:\"column(type=bigint)\"`"+`
	views uint    `+"`orm:\"column(type=bigint)\"`"+`
	score *uint32 `+"`orm:\"column(type=integer, nullable=true)\"`"+`
	level uint8   `+"`orm:\"column(type=smallint)\"`"+`
}
`, false, "Counter")
	require.NoError(t, err)
	assert.Contains(t, out, "func (c *Counter) SetHits(hits uint64) error {\n\tif err := accessor.CheckUnsignedIntegerSize(\"hits\", uint64(hits), 64); err != nil {")
	assert.Contains(t, out, "accessor.CheckUnsignedIntegerSize(\"views\", uint64(views), 64)")
	assert.Contains(t, out, "func (c *Counter) SetScore(score *uint32) error {\n\tif score != nil {\n\t\tif err := accessor.CheckUnsignedIntegerSize(\"score\", uint64(*score), 32); err != nil {")
	assert.Contains(t, out, "func (c *Counter) SetLevel(level uint8) {\n\tc.level = level\n}")
	assert.NotContains(t, out, "CheckIntegerSize")
}

func Test_GenerateMethodKinds(t *testing.T) {
	checked, err := typecheck.Check(shopPkg, shopSrc)
	require.NoError(t, err)
	typ, err := checked.Lookup("Cart")
	require.NoError(t, err)
	model, err := entity.New(shopPkg, typ, checked.File, "")
	require.NoError(t, err)

	g := New("ormaccessor", nil, shopPkg, "shop")
	g.Getters, g.Collections = false, false
	require.NoError(t, g.GenerateAccessors(model))
	src, err := g.Src()
	require.NoError(t, err)
	out := string(src)
	assert.Contains(t, out, "func (c *Cart) SetCustomer(customer *Customer) {")
	assert.NotContains(t, out, "func (c *Cart) Tags()")
	assert.NotContains(t, out, "AddTag")
	assert.NotContains(t, out, "cartTagsInverse")
}

func Test_GenerateAccessorsNolint(t *testing.T) {
	out, err := generate(t, shopSrc, true, "Item")
	require.NoError(t, err)
	assert.Contains(t, out, "//nolint\nfunc (i *Item) Cart() *Cart {")
}

func Test_GenerateAccessorsErrors(t *testing.T) {
	_, err := generate(t, `package shop

type Cart struct {
	Note string `+"`orm:\"column\"`"+`
	note string `+"`orm:\"column\"`"+`
}
`, false, "Cart")
	assert.ErrorContains(t, err, "method Note clashes with a field or another method")

	_, err = generate(t, `package shop

type Cart struct {
	customer *Customer `+"`orm:\"many_to_one(target=Customer, inversed_by=carts)\"`"+`
}

type Order struct{}

type Customer struct {
	carts []*Order
}
`, false, "Cart")
	assert.ErrorContains(t, err, "inverse field Customer.carts must refer to *example.com/shop.Cart")

	_, err = generate(t, `package shop

type Cart struct {
	tags []func() `+"`orm:\"many_to_many(target=Tag)\"`"+`
}
`, false, "Cart")
	assert.ErrorContains(t, err, "is not comparable")

	_, err = generate(t, `package shop

type Box[T any] struct {
	value T `+"`orm:\"column\"`"+`
}
`, false, "Box")
	assert.ErrorContains(t, err, "generic entity Box is not supported")

	_, err = generate(t, `package shop

type Cart struct {
	customer *Customer `+"`orm:\"many_to_one(target=Customer, inversed_by=carts)\"`"+`
}

type Customer struct {
	carts []*Cart `+"`orm:\"one_to_many(target=Cart, mapped_by=customer)\"`"+`
}

type cartCustomerInverse struct{}
`, false, "Cart")
	assert.ErrorContains(t, err, "generated type cartCustomerInverse clashes with a declaration of package example.com/shop")

	_, err = generate(t, shopSrc, false, "Item", "Item")
	assert.ErrorContains(t, err, "accessors of Item are already generated")
}

func Test_needsRangeCheck(t *testing.T) {
	assert.True(t, needsRangeCheck(basic("int"), 32))
	assert.False(t, needsRangeCheck(basic("int32"), 32))
	assert.True(t, needsRangeCheck(basic("uint32"), 32))
	assert.False(t, needsRangeCheck(basic("int8"), 16))
	assert.False(t, needsRangeCheck(basic("int"), 64))
	assert.False(t, needsRangeCheck(basic("int"), 0))
	assert.True(t, needsRangeCheck(basic("uint64"), 64))
	assert.True(t, needsRangeCheck(basic("uint"), 64))
	assert.True(t, needsRangeCheck(basic("uintptr"), 64))
	assert.False(t, needsRangeCheck(basic("uint32"), 64))
	assert.False(t, needsRangeCheck(basic("uint8"), 16))
	assert.False(t, needsRangeCheck(basic("uint"), 0))
}

func basic(name string) *types.Basic {
	return types.Universe.Lookup(name).Type().(*types.Basic)
}

package cart

import (
	"context"
	"fmt"
	"testing"

	"github.com/cucumber/godog"

	"zizi-storefront/internal/domain"
	"zizi-storefront/internal/repository/kv"
)

type cartFeatureContext struct {
	storage kv.Local
	store   *Store
}

func (c *cartFeatureContext) reset() {
	c.storage = kv.Scope(kv.NewMemory(), "feature")
	c.store = New(context.Background(), c.storage, nil)
}

func (c *cartFeatureContext) anEmptyCart() error {
	if n := len(c.store.Items()); n != 0 {
		return fmt.Errorf("expected empty cart, got %d lines", n)
	}
	return nil
}

func (c *cartFeatureContext) iAddItem(id, name string, price float64, quantity int) error {
	c.store.AddItem(context.Background(), domain.CartItem{ID: id, Name: name, Price: price, Quantity: quantity})
	return nil
}

func (c *cartFeatureContext) iRemoveItem(id string) error {
	c.store.RemoveItem(context.Background(), id)
	return nil
}

func (c *cartFeatureContext) iSetTheQuantity(id string, quantity int) error {
	c.store.UpdateQuantity(context.Background(), id, quantity)
	return nil
}

func (c *cartFeatureContext) theCartIsCleared() error {
	c.store.Clear(context.Background())
	return nil
}

func (c *cartFeatureContext) theStoredCartIs(doc *godog.DocString) error {
	return c.storage.Set(context.Background(), StorageKey, doc.Content)
}

func (c *cartFeatureContext) theCartIsReloaded() error {
	c.store = New(context.Background(), c.storage, nil)
	return nil
}

func (c *cartFeatureContext) theCartHasLines(n int) error {
	if got := len(c.store.Items()); got != n {
		return fmt.Errorf("expected %d lines, got %d", n, got)
	}
	return nil
}

func (c *cartFeatureContext) theCartIsEmpty() error {
	return c.theCartHasLines(0)
}

func (c *cartFeatureContext) theSubtotalIs(want float64) error {
	if got := c.store.Subtotal(); got != want {
		return fmt.Errorf("expected subtotal %v, got %v", want, got)
	}
	return nil
}

func (c *cartFeatureContext) find(id string) (domain.CartItem, error) {
	for _, it := range c.store.Items() {
		if it.ID == id {
			return it, nil
		}
	}
	return domain.CartItem{}, fmt.Errorf("item %q not in cart", id)
}

func (c *cartFeatureContext) itemHasQuantity(id string, quantity int) error {
	it, err := c.find(id)
	if err != nil {
		return err
	}
	if it.Quantity != quantity {
		return fmt.Errorf("expected quantity %d, got %d", quantity, it.Quantity)
	}
	return nil
}

func (c *cartFeatureContext) itemHasPrice(id string, price float64) error {
	it, err := c.find(id)
	if err != nil {
		return err
	}
	if it.Price != price {
		return fmt.Errorf("expected price %v, got %v", price, it.Price)
	}
	return nil
}

func initializeCartScenario(ctx *godog.ScenarioContext) {
	tc := &cartFeatureContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^an empty cart$`, tc.anEmptyCart)
	ctx.Step(`^the stored cart is:$`, tc.theStoredCartIs)

	// When steps
	ctx.Step(`^I add item "([^"]*)" named "([^"]*)" priced (\d+(?:\.\d+)?) with quantity (-?\d+)$`, tc.iAddItem)
	ctx.Step(`^I remove item "([^"]*)"$`, tc.iRemoveItem)
	ctx.Step(`^I set the quantity of item "([^"]*)" to (-?\d+)$`, tc.iSetTheQuantity)
	ctx.Step(`^the cart is cleared$`, tc.theCartIsCleared)
	ctx.Step(`^the cart is reloaded$`, tc.theCartIsReloaded)

	// Then steps
	ctx.Step(`^the cart has (\d+) lines?$`, tc.theCartHasLines)
	ctx.Step(`^the cart is empty$`, tc.theCartIsEmpty)
	ctx.Step(`^the subtotal is (\d+(?:\.\d+)?)$`, tc.theSubtotalIs)
	ctx.Step(`^item "([^"]*)" has quantity (\d+)$`, tc.itemHasQuantity)
	ctx.Step(`^item "([^"]*)" has price (\d+(?:\.\d+)?)$`, tc.itemHasPrice)
}

func TestCartFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeCartScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../../../features/cart.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

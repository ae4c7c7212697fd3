package navigation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/cucumber/godog"
)

type navigationFeatureContext struct {
	history    *MemoryHistory
	scroller   *countingScroller
	controller *Controller
}

func (n *navigationFeatureContext) reset() {
	if n.controller != nil {
		n.controller.Close()
	}
	n.history, n.scroller, n.controller = nil, nil, nil
}

func (n *navigationFeatureContext) theStorefrontIsOpenedAt(path string) error {
	n.history = NewMemoryHistory(path)
	n.scroller = &countingScroller{}
	n.controller = NewController(n.history, WithScroller(n.scroller))
	return nil
}

func (n *navigationFeatureContext) theAddressChangesTo(path string) error {
	n.history.Push(path)
	n.controller.HandleLocationChange(path)
	return nil
}

func (n *navigationFeatureContext) iNavigateTo(name string) error {
	view, ok := ParseView(name)
	if !ok {
		return fmt.Errorf("unknown view %q", name)
	}
	n.controller.NavigateTo(view)
	return nil
}

func (n *navigationFeatureContext) iOpenProduct(slug string) error {
	n.controller.NavigateToProduct(slug)
	return nil
}

func (n *navigationFeatureContext) iGoBack() error {
	if !n.history.Back() {
		return errors.New("no history entry to go back to")
	}
	return nil
}

func (n *navigationFeatureContext) iGoForward() error {
	if !n.history.Forward() {
		return errors.New("no history entry to go forward to")
	}
	return nil
}

func (n *navigationFeatureContext) theViewportIs(width, height int) error {
	n.controller.SetViewport(float64(width), float64(height))
	return nil
}

func (n *navigationFeatureContext) iScrollTo(offset int) error {
	n.controller.UpdateScroll(float64(offset))
	return nil
}

func (n *navigationFeatureContext) theSectionIsCentered(section string) error {
	n.controller.ObserveSection(section)
	return nil
}

func (n *navigationFeatureContext) theViewIs(view string) error {
	if got := n.controller.State().View; string(got) != view {
		return fmt.Errorf("expected view %q, got %q", view, got)
	}
	return nil
}

func (n *navigationFeatureContext) theProductSlugIs(slug string) error {
	if got := n.controller.State().ProductSlug; got != slug {
		return fmt.Errorf("expected slug %q, got %q", slug, got)
	}
	return nil
}

func (n *navigationFeatureContext) thereIsNoProductSlug() error {
	return n.theProductSlugIs("")
}

func (n *navigationFeatureContext) theAddressIs(path string) error {
	if got := n.history.Location(); got != path {
		return fmt.Errorf("expected address %q, got %q", path, got)
	}
	return nil
}

func (n *navigationFeatureContext) thePageWasScrolledToTop() error {
	if n.scroller.calls == 0 {
		return errors.New("expected a scroll to top")
	}
	return nil
}

func (n *navigationFeatureContext) theScrollProgressIs(want float64) error {
	if got := n.controller.State().ScrollProgress; math.Abs(got-want) > 1e-9 {
		return fmt.Errorf("expected scroll progress %v, got %v", want, got)
	}
	return nil
}

func (n *navigationFeatureContext) theLogoIsDocked() error {
	if !n.controller.State().Docked {
		return errors.New("expected logo to be docked")
	}
	return nil
}

func (n *navigationFeatureContext) theLogoIsNotDocked() error {
	if n.controller.State().Docked {
		return errors.New("expected logo to be undocked")
	}
	return nil
}

func (n *navigationFeatureContext) theThemeIs(theme string) error {
	if got := n.controller.State().Theme; string(got) != theme {
		return fmt.Errorf("expected theme %q, got %q", theme, got)
	}
	return nil
}

func initializeNavigationScenario(ctx *godog.ScenarioContext) {
	tc := &navigationFeatureContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the storefront is opened at "([^"]*)"$`, tc.theStorefrontIsOpenedAt)
	ctx.Step(`^the viewport is (\d+) by (\d+)$`, tc.theViewportIs)

	// When steps
	ctx.Step(`^the address changes to "([^"]*)"$`, tc.theAddressChangesTo)
	ctx.Step(`^I navigate to "([^"]*)"$`, tc.iNavigateTo)
	ctx.Step(`^I open product "([^"]*)"$`, tc.iOpenProduct)
	ctx.Step(`^I go back$`, tc.iGoBack)
	ctx.Step(`^I go forward$`, tc.iGoForward)
	ctx.Step(`^I scroll to (-?\d+)$`, tc.iScrollTo)
	ctx.Step(`^the section "([^"]*)" is centered$`, tc.theSectionIsCentered)

	// Then steps
	ctx.Step(`^the view is "([^"]*)"$`, tc.theViewIs)
	ctx.Step(`^the product slug is "([^"]*)"$`, tc.theProductSlugIs)
	ctx.Step(`^there is no product slug$`, tc.thereIsNoProductSlug)
	ctx.Step(`^the address is "([^"]*)"$`, tc.theAddressIs)
	ctx.Step(`^the page was scrolled to top$`, tc.thePageWasScrolledToTop)
	ctx.Step(`^the scroll progress is (\d+(?:\.\d+)?)$`, tc.theScrollProgressIs)
	ctx.Step(`^the logo is docked$`, tc.theLogoIsDocked)
	ctx.Step(`^the logo is not docked$`, tc.theLogoIsNotDocked)
	ctx.Step(`^the theme is "([^"]*)"$`, tc.theThemeIs)
}

func TestNavigationFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeNavigationScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../../../features/navigation.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

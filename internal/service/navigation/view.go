package navigation

import (
	"net/url"
	"strings"
)

// View identifies a logical storefront page.
type View string

const (
	Home           View = "home"
	Collection     View = "collection"
	About          View = "about"
	ProductDetail  View = "product-detail"
	Cart           View = "cart"
	Checkout       View = "checkout"
	ThankYou       View = "thank-you"
	Account        View = "account"
	AccountOrders  View = "account-orders"
	AccountDetails View = "account-details"
)

// Views lists every view in menu order.
var Views = []View{Home, Collection, About, ProductDetail, Cart, Checkout, ThankYou, Account, AccountOrders, AccountDetails}

var viewPaths = map[View]string{
	Home:           "/",
	Collection:     "/collection",
	About:          "/about",
	Cart:           "/cart",
	Checkout:       "/checkout",
	ThankYou:       "/checkout/thank-you",
	Account:        "/account",
	AccountOrders:  "/account/orders",
	AccountDetails: "/account/details",
}

var pathViews = func() map[string]View {
	out := make(map[string]View, len(viewPaths))
	for v, p := range viewPaths {
		out[p] = v
	}
	return out
}()

// ParseView maps a view name to a View. Unknown names report false.
func ParseView(name string) (View, bool) {
	v := View(strings.TrimSpace(strings.ToLower(name)))
	if v == ProductDetail {
		return v, true
	}
	_, ok := viewPaths[v]
	return v, ok
}

// IsAccount reports whether v is one of the signed-in account pages.
func (v View) IsAccount() bool {
	return v == Account || v == AccountOrders || v == AccountDetails
}

// PathFor returns the address for view. Product detail without a slug has
// no address of its own and falls back to the collection.
func PathFor(view View, slug string) string {
	if view == ProductDetail {
		slug = strings.Trim(slug, "/ ")
		if slug == "" {
			return viewPaths[Collection]
		}
		return "/collection/" + url.PathEscape(slug)
	}
	if p, ok := viewPaths[view]; ok {
		return p
	}
	return viewPaths[Home]
}

// Resolve maps an address back to a view and, for product pages, the slug.
// Slugs are path-unescaped. Query strings, fragments and trailing slashes
// are ignored; anything unrecognised resolves to Home.
func Resolve(path string) (View, string) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = "/" + strings.Trim(path, "/")

	if v, ok := pathViews[path]; ok {
		return v, ""
	}
	for _, prefix := range []string{"/collection/", "/product/"} {
		if rest, ok := strings.CutPrefix(path, prefix); ok && rest != "" {
			segments := strings.Split(rest, "/")
			slug := segments[len(segments)-1]
			if unescaped, err := url.PathUnescape(slug); err == nil {
				slug = unescaped
			}
			return ProductDetail, slug
		}
	}
	return Home, ""
}

// Package pricing holds the storefront's pricing rules: cart aggregation, bulk
// and coupon discounts, city based shipping and the order total.
//
// The same functions back the optimistic cart quote and the authoritative
// checkout, so a preview and the order it turns into can never disagree on the
// rules, only on the inputs (client snapshot prices versus current catalog
// prices).
package pricing

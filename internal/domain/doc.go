// Package domain holds the shop's core types: users and their sessions,
// catalog products, and per-user carts with their line items.
package domain

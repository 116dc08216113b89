// Package models defines the core domain records for the storefront catalog.
//
// # Entities
//
//   - Store: a merchant entity owning items and tags
//   - Item: a sellable product belonging to exactly one store
//   - Tag: a labeled category scoped to one store, attachable to items
//   - ItemTagLink: the many-to-many association between items and tags
//   - User: a registered account used to authenticate API calls
//
// # Design Principles
//
// 1. **Structure only**: models carry no behavior; all mutation goes through
// the storage layer, which enforces uniqueness, cascade, and cross-store
// constraints atomically.
// 2. **Avoid circular references**: relationships are expressed as ID strings,
// never as pointers between models.
// 3. **IDs are opaque**: UUID strings assigned by storage, except on the item
// replace path where the caller supplies the identifier.
package models

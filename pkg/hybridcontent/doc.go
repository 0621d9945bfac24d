// Package hybridcontent defines the editorial content records that augment
// operational restaurant and menu data, together with the repository
// contract used to persist them.
//
// Operational entities (restaurants, menu categories, menu items) are owned by
// an external store and referenced here only by their stable external id.
// Content records carry the slower-changing editorial material: story text,
// galleries, SEO metadata, blog posts and promotions. The two are merged into
// read-only hybrid views by the resolver subpackage and cached by the cache
// subpackage.
//
// Subpackages:
//
//	contentstore    pooled Postgres client, transactions, JSON columns
//	repo/postgres   Repository backed by contentstore
//	repo/memory     Repository held in process memory
//	cms             typed attribute documents over Repository
//	cache           two-tier cache with per-category TTLs
//	operational     operational store adapter contract and adapters
//	resolver        hybrid views with read-through caching
//	config          configuration and component wiring
//	api             HTTP handlers
//
// # Patch semantics
//
// Updates take a patch type per category whose fields are Optional values.
// Only fields that are set are written; everything else keeps its stored
// value. An Optional decoded from JSON is set whenever its key is present,
// including an explicit null or empty value.
package hybridcontent

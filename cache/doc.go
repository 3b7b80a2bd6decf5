// Package cache provides a stale-while-revalidate request cache.
//
// A request is identified by a logical key. Do first serves the last
// persisted result for that key (when present and not older than the
// request's max age), then runs the request's fetch function, persists the
// fresh result and delivers it again only if it differs from the cached one.
// A caller therefore sees one or two successful deliveries, or exactly one
// error.
//
// Records are kept in a store.Store as JSON {"timestamp": millis, "content": tree}.
// Content is handled as a Value, a tagged JSON tree with a canonical form
// used for duplicate suppression.
package cache

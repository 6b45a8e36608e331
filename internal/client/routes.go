// Package client is the portal's embeddable HTTP client core: the session
// gateway every authenticated call goes through, and the tab-scoped session
// storage it reads. Navigation and notification are injected so the package
// never touches ambient global state.
package client

import "net/url"

// Route is an abstract client-side destination. The UI shell maps routes to
// concrete pages; this core only decides where to go, never how.
type Route string

const (
	RouteLanding          Route = "/"
	RouteAdminLogin       Route = "/login"
	RouteAdminDashboard   Route = "/admin/dashboard"
	RouteDocuments        Route = "/documents"
	RouteServerError      Route = "/common/server-error"
	RouteSessionTimeout   Route = "/common/session-timeout-handle"
	RoutePermissionDenied Route = "/common/permission-denied"
)

// Navigator abstracts client-side routing. Implementations must tolerate
// being called after their owning view is gone; a late navigation is a no-op
// at worst, never a panic.
type Navigator interface {
	// Navigate routes to the destination; params become query parameters.
	Navigate(route Route, params url.Values)
	// Reload re-renders the current page in place.
	Reload()
	// CurrentPath returns the path the user is on right now.
	CurrentPath() string
}

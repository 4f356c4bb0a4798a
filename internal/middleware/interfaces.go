package middleware

// RouteInspector answers the per-path questions middleware ask of the route
// table. Unknown paths answer "no".
type RouteInspector interface {
	IsAuthenticationRequired(path string) bool
	RequiredRole(path string) (string, bool)
	SupportsUpload(path string) bool
}

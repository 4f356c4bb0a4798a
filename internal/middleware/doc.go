// Package middleware implements the cross-cutting pipeline steps of the
// dispatch engine: bearer authentication, role authorization, SQL-injection
// filtering of the query string and multipart form parsing.
//
// Each step consults the route table through [RouteInspector] and either
// continues the chain or writes a terminal response. Response texts are
// client-safe; causes are logged on the request logger.
package middleware

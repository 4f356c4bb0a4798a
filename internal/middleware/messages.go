// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package middleware

// Response bodies written when a middleware short-circuits the pipeline.
const (
	MsgMissingAuthorization = "Unauthorized: Missing or invalid Authorization header"
	MsgInvalidToken         = "Unauthorized: Invalid token"

	MsgRolesNotConfigured     = "Forbidden: role options not configured"
	MsgAuthenticationRequired = "Forbidden: authentication required before authorization"
	MsgNoPermission           = "Forbidden: you do not have permission to access"
	MsgInsufficientRole       = "Forbidden: insufficient role level"

	MsgMalformedMultipart = "Bad Request: malformed multipart body"
	MsgUploadFailed       = "Internal Server Error: could not store uploaded file"
)

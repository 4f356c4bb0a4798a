package httpctx

import (
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-web-interface/internal/codec"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
	contentTypeText = "text/plain; charset=utf-8"
)

// Envelope is the body written by the handler response helpers.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Write sends status and content. The content type is JSON when content is
// framed as a JSON object or array and plain text otherwise.
func (c *Context) Write(status int, content []byte) error {
	if c.written {
		return ErrResponseAlreadyWritten
	}
	c.written = true
	c.status = status

	contentType := contentTypeText
	if codec.LooksLikeJSON(content) {
		contentType = contentTypeJSON
	}

	h := c.Response.Header()
	h.Set("Content-Type", contentType)
	h.Set("X-Content-Type-Options", "nosniff")
	c.Response.WriteHeader(status)

	if _, err := c.Response.Write(content); err != nil {
		return fmt.Errorf("error writing response body: %w", err)
	}
	return nil
}

// WriteText is Write for string content.
func (c *Context) WriteText(status int, content string) error {
	return c.Write(status, []byte(content))
}

// WriteJSON encodes v with the request codec and writes it with status.
func (c *Context) WriteJSON(status int, v any) error {
	data, err := c.codec.Marshal(v)
	if err != nil {
		return err
	}
	return c.Write(status, data)
}

// WriteEmpty sends status without a body.
func (c *Context) WriteEmpty(status int) error {
	if c.written {
		return ErrResponseAlreadyWritten
	}
	c.written = true
	c.status = status
	c.Response.WriteHeader(status)
	return nil
}

// SendOK writes a 200 envelope carrying message.
func (c *Context) SendOK(message string) error {
	return c.WriteJSON(http.StatusOK, Envelope{Code: http.StatusOK, Message: message})
}

// SendError writes an envelope with status and message.
func (c *Context) SendError(status int, message string) error {
	return c.WriteJSON(status, Envelope{Code: status, Message: message})
}

// Written reports whether a response has been written.
func (c *Context) Written() bool {
	return c.written
}

// Status returns the written status code, or 200 when nothing was written.
func (c *Context) Status() int {
	if !c.written {
		return http.StatusOK
	}
	return c.status
}

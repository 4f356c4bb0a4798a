// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package dispatch

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/MKhiriev/go-web-interface/internal/codec"
	"github.com/MKhiriev/go-web-interface/internal/httpctx"
	"github.com/MKhiriev/go-web-interface/internal/invoke"
	"github.com/go-playground/validator/v10"
)

const defaultMaxBodyBytes = 10 << 20

// ParameterResolver builds the argument list of a handler from the request
// body and the multipart form parameters.
type ParameterResolver struct {
	codec        codec.Codec
	validate     *validator.Validate
	maxBodyBytes int64
}

// ResolverOption configures a ParameterResolver.
type ResolverOption func(*ParameterResolver)

// WithMaxBodyBytes limits the body size read for decoding.
func WithMaxBodyBytes(n int64) ResolverOption {
	return func(r *ParameterResolver) {
		if n > 0 {
			r.maxBodyBytes = n
		}
	}
}

// WithValidator replaces the struct validator. A nil validator disables
// body validation.
func WithValidator(v *validator.Validate) ResolverOption {
	return func(r *ParameterResolver) { r.validate = v }
}

// NewParameterResolver returns a resolver decoding with c (codec.Default
// when nil) and validating decoded structs with their `validate` tags.
func NewParameterResolver(c codec.Codec, opts ...ResolverOption) *ParameterResolver {
	if c == nil {
		c = codec.Default()
	}
	r := &ParameterResolver{
		codec:        c,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns no arguments for NoBody handlers and otherwise a single
// pointer to a freshly decoded value of requestType.
func (r *ParameterResolver) Resolve(ctx *httpctx.Context, requestType reflect.Type) ([]any, error) {
	if requestType == nil || requestType == invoke.NoBodyType() {
		return nil, nil
	}

	body, err := r.readBody(ctx.Request)
	if err != nil {
		return nil, err
	}

	text, err := r.MergeParams(body, ctx.Params())
	if err != nil {
		return nil, err
	}

	target := reflect.New(requestType)
	if err := r.codec.Unmarshal([]byte(text), target.Interface()); err != nil {
		return nil, fmt.Errorf("%w into %s: %w", ErrBodyDecode, requestType, err)
	}

	if err := r.validateValue(target); err != nil {
		return nil, err
	}

	return []any{target.Interface()}, nil
}

func (r *ParameterResolver) readBody(req *http.Request) (string, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return "", nil
	}

	data, err := io.ReadAll(io.LimitReader(req.Body, r.maxBodyBytes+1))
	if err != nil {
		return "", fmt.Errorf("error reading request body: %w", err)
	}
	if int64(len(data)) > r.maxBodyBytes {
		return "", &httpctx.StatusError{
			Status:  http.StatusRequestEntityTooLarge,
			Message: MsgBodyTooLarge,
			Err:     ErrBodyTooLarge,
		}
	}
	return string(data), nil
}

// MergeParams folds form parameters into the JSON body text.
//
// Without parameters a blank body becomes "null" and any other body is
// returned trimmed. With parameters a blank or "{}" body starts a new
// object, a body ending in "}" is reopened, and every parameter is appended
// as a "name": "value" string member followed by a closing " }".
func (r *ParameterResolver) MergeParams(body string, params []httpctx.Param) (string, error) {
	body = strings.TrimSpace(body)
	if len(params) == 0 {
		if body == "" {
			return "null", nil
		}
		return body, nil
	}

	var b strings.Builder
	switch {
	case body == "" || body == "{}":
		b.WriteString("{")
	case strings.HasSuffix(body, "}"):
		b.WriteString(body[:len(body)-1])
	default:
		b.WriteString(body)
	}

	first := strings.TrimSpace(b.String()) == "{"
	for _, p := range params {
		name, err := r.codec.Marshal(p.Name)
		if err != nil {
			return "", err
		}
		value, err := r.codec.Marshal(p.Value)
		if err != nil {
			return "", err
		}

		if !first {
			b.WriteString(", ")
		}
		first = false

		b.Write(name)
		b.WriteString(": ")
		b.Write(value)
	}
	b.WriteString(" }")

	return b.String(), nil
}

func (r *ParameterResolver) validateValue(target reflect.Value) error {
	if r.validate == nil {
		return nil
	}

	elem := target.Elem()
	if elem.Kind() != reflect.Struct {
		return nil
	}

	err := r.validate.Struct(target.Interface())
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return nil
	}

	return &httpctx.StatusError{
		Status:  http.StatusBadRequest,
		Message: MsgInvalidBody,
		Err:     fmt.Errorf("%w: %w", ErrBodyInvalid, err),
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Field rules are declared with `validate` tags and checked by
// go-playground/validator; the listen address is checked separately since
// an empty host (":8080") is valid. Each failure is reported under the
// sentinel error of its configuration group.
func (cfg *StructuredConfig) validate() error {
	var errs []error

	if _, port, err := net.SplitHostPort(cfg.Server.HTTPAddress); err != nil || port == "" {
		errs = append(errs, fmt.Errorf("%w: address %q must be host:port", ErrInvalidServerConfigs, cfg.Server.HTTPAddress))
	}

	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("%w: %w", ErrInvalidConfigs, err)
		}
		for _, fe := range fieldErrs {
			errs = append(errs, fmt.Errorf("%w: %s failed %q", groupError(fe.StructNamespace()), fe.StructNamespace(), fe.Tag()))
		}
	}

	return errors.Join(errs...)
}

func groupError(namespace string) error {
	switch {
	case hasGroup(namespace, "Server"):
		return ErrInvalidServerConfigs
	case hasGroup(namespace, "Auth"):
		return ErrInvalidAuthConfigs
	case hasGroup(namespace, "Roles"):
		return ErrInvalidRolesConfigs
	case hasGroup(namespace, "Uploads"):
		return ErrInvalidUploadsConfigs
	default:
		return ErrInvalidConfigs
	}
}

func hasGroup(namespace, group string) bool {
	return strings.HasPrefix(namespace, "StructuredConfig."+group+".")
}

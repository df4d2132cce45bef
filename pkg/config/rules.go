// Copyright 2025 CompliK Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"time"
)

// ValidationRule checks a single configuration value
type ValidationRule interface {
	Validate(value any) *ValidationError
}

// ValidationError describes a rejected configuration value
type ValidationError struct {
	Field   string
	Value   any
	Message string
	Code    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field '%s' is invalid: %s (value: %v)", e.Field, e.Message, e.Value)
}

func typeError(value any, want string) *ValidationError {
	return &ValidationError{
		Code:    "INVALID_TYPE",
		Message: "Value must be a " + want + " type",
		Value:   value,
	}
}

// StringRule validates string values
type StringRule struct {
	MinLength int
	MaxLength int
	Required  bool
	Pattern   *regexp.Regexp
}

func (r *StringRule) Validate(value any) *ValidationError {
	str, ok := value.(string)
	if !ok {
		return typeError(value, "string")
	}
	if str == "" {
		if r.Required {
			return &ValidationError{Code: "REQUIRED", Message: "Field cannot be empty", Value: value}
		}
		return nil
	}
	if r.MinLength > 0 && len(str) < r.MinLength {
		return &ValidationError{
			Code:    "MIN_LENGTH",
			Message: fmt.Sprintf("String length cannot be less than %d", r.MinLength),
			Value:   value,
		}
	}
	if r.MaxLength > 0 && len(str) > r.MaxLength {
		return &ValidationError{
			Code:    "MAX_LENGTH",
			Message: fmt.Sprintf("String length cannot be greater than %d", r.MaxLength),
			Value:   value,
		}
	}
	if r.Pattern != nil && !r.Pattern.MatchString(str) {
		return &ValidationError{Code: "PATTERN_MISMATCH", Message: "String format is incorrect", Value: value}
	}
	return nil
}

// DurationRule validates duration values
type DurationRule struct {
	Min time.Duration
	Max time.Duration
}

func (r *DurationRule) Validate(value any) *ValidationError {
	d, ok := value.(time.Duration)
	if !ok {
		return typeError(value, "duration")
	}
	if r.Min > 0 && d < r.Min {
		return &ValidationError{
			Code:    "MIN_DURATION",
			Message: fmt.Sprintf("Duration cannot be less than %v", r.Min),
			Value:   value,
		}
	}
	if r.Max > 0 && d > r.Max {
		return &ValidationError{
			Code:    "MAX_DURATION",
			Message: fmt.Sprintf("Duration cannot be greater than %v", r.Max),
			Value:   value,
		}
	}
	return nil
}

// EnumRule validates that a string is one of a fixed set
type EnumRule struct {
	AllowedValues []string
	CaseSensitive bool
}

func (r *EnumRule) Validate(value any) *ValidationError {
	str, ok := value.(string)
	if !ok {
		return typeError(value, "string")
	}
	for _, allowed := range r.AllowedValues {
		if str == allowed || (!r.CaseSensitive && strings.EqualFold(str, allowed)) {
			return nil
		}
	}
	return &ValidationError{
		Code:    "INVALID_ENUM",
		Message: fmt.Sprintf("Value must be one of: %v", r.AllowedValues),
		Value:   value,
	}
}

// URLRule validates absolute URLs
type URLRule struct {
	RequiredSchemes []string
	AllowEmpty      bool
}

func (r *URLRule) Validate(value any) *ValidationError {
	str, ok := value.(string)
	if !ok {
		return typeError(value, "string")
	}
	if str == "" {
		if r.AllowEmpty {
			return nil
		}
		return &ValidationError{Code: "REQUIRED", Message: "URL cannot be empty", Value: value}
	}
	parsed, err := url.Parse(str)
	if err != nil || parsed.Host == "" {
		return &ValidationError{Code: "INVALID_URL", Message: "URL format is incorrect", Value: value}
	}
	if len(r.RequiredSchemes) > 0 && !slices.Contains(r.RequiredSchemes, parsed.Scheme) {
		return &ValidationError{
			Code:    "INVALID_SCHEME",
			Message: fmt.Sprintf("URL scheme must be one of: %v", r.RequiredSchemes),
			Value:   value,
		}
	}
	return nil
}

// RegexRule validates that a string compiles as a regular expression
type RegexRule struct{}

func (r *RegexRule) Validate(value any) *ValidationError {
	str, ok := value.(string)
	if !ok {
		return typeError(value, "string")
	}
	if str == "" {
		return nil
	}
	if _, err := regexp.Compile(str); err != nil {
		return &ValidationError{
			Code:    "INVALID_REGEX",
			Message: "Regular expression format is incorrect: " + err.Error(),
			Value:   value,
		}
	}
	return nil
}

// SliceRule validates string slices, optionally element by element
type SliceRule struct {
	ElementRule ValidationRule
	MinLength   int
	MaxLength   int
	AllowEmpty  bool
}

func (r *SliceRule) Validate(value any) *ValidationError {
	slice, ok := value.([]string)
	if !ok {
		return typeError(value, "string array")
	}
	if len(slice) == 0 {
		if r.AllowEmpty {
			return nil
		}
		return &ValidationError{Code: "REQUIRED", Message: "Array cannot be empty", Value: value}
	}
	if r.MinLength > 0 && len(slice) < r.MinLength {
		return &ValidationError{
			Code:    "MIN_LENGTH",
			Message: fmt.Sprintf("Array length cannot be less than %d", r.MinLength),
			Value:   value,
		}
	}
	if r.MaxLength > 0 && len(slice) > r.MaxLength {
		return &ValidationError{
			Code:    "MAX_LENGTH",
			Message: fmt.Sprintf("Array length cannot be greater than %d", r.MaxLength),
			Value:   value,
		}
	}
	if r.ElementRule != nil {
		for i, element := range slice {
			if err := r.ElementRule.Validate(element); err != nil {
				err.Field = fmt.Sprintf("[%d]", i)
				return err
			}
		}
	}
	return nil
}

// NumberRule validates int and float64 values against an inclusive range
type NumberRule struct {
	Min *float64
	Max *float64
}

// Bound is a helper for building NumberRule limits
func Bound(v float64) *float64 {
	return &v
}

func (r *NumberRule) Validate(value any) *ValidationError {
	var num float64
	switch v := value.(type) {
	case int:
		num = float64(v)
	case int64:
		num = float64(v)
	case float64:
		num = v
	default:
		return typeError(value, "number")
	}
	if r.Min != nil && num < *r.Min {
		return &ValidationError{
			Code:    "MIN_VALUE",
			Message: fmt.Sprintf("Value cannot be less than %v", *r.Min),
			Value:   value,
		}
	}
	if r.Max != nil && num > *r.Max {
		return &ValidationError{
			Code:    "MAX_VALUE",
			Message: fmt.Sprintf("Value cannot be greater than %v", *r.Max),
			Value:   value,
		}
	}
	return nil
}

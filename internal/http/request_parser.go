// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data.

package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"wealthway/internal/core"
)

// maxBodyBytes bounds the body of a mutation request.
const maxBodyBytes = 64 << 10

// ParseMonthParams reads year and month through get, defaulting each to
// the month of now. Out-of-range months roll over into the adjacent year
// so month=13 means January of the next year.
func ParseMonthParams(get func(string) string, now time.Time) core.MonthPointer {
	year, month := now.Year(), int(now.Month())

	if v := strings.TrimSpace(get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil && y >= 1 && y <= 9999 {
			year = y
		}
	}
	if v := strings.TrimSpace(get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m >= -120 && m <= 120 {
			month = m
		}
	}

	return core.NewMonthPointer(year, month)
}

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data, commonly used with HTMX.
type RequestBodyParser struct {
	body        []byte
	contentType string
	query       url.Values
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser reads the body of r once, up to maxBodyBytes.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
		query:       r.URL.Query(),
	}
	if r.Body != nil {
		p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	}
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	trimmed := strings.TrimSpace(string(p.body))
	if trimmed == "" {
		p.formData = url.Values{}
		return nil
	}

	if trimmed[0] == '{' || strings.HasPrefix(p.contentType, "application/json") {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal([]byte(trimmed), &p.jsonData); err != nil {
			p.jsonData = nil
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(trimmed)
	return p.err
}

// Get returns a sanitized value from the body, falling back to the query
// string.
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
	}
	if p.formData != nil && p.formData.Has(key) {
		return sanitizeInput(p.formData.Get(key))
	}
	return sanitizeInput(p.query.Get(key))
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// NewTransactionInput holds the raw fields of an add request.
type NewTransactionInput struct {
	Name   string
	Amount string
	Date   string
	Type   string
}

// Complete reports whether every required field has a value.
func (in NewTransactionInput) Complete() bool {
	return in.Name != "" && in.Amount != "" && in.Date != ""
}

// ParseNewTransaction extracts the add form fields.
func (p *RequestBodyParser) ParseNewTransaction() NewTransactionInput {
	return NewTransactionInput{
		Name:   p.Get("name"),
		Amount: p.Get("amount"),
		Date:   p.Get("date"),
		Type:   p.Get("type"),
	}
}

// Transaction converts the input into a core.NewTransaction. An empty type
// means expense.
func (in NewTransactionInput) Transaction() (core.NewTransaction, error) {
	amount, err := core.ParseAmount(in.Amount)
	if err != nil {
		return core.NewTransaction{}, err
	}
	typ := core.Expense
	if in.Type != "" {
		if typ, err = core.ParseTransactionType(in.Type); err != nil {
			return core.NewTransaction{}, err
		}
	}
	return core.NewTransaction{Name: in.Name, Amount: amount, Date: in.Date, Type: typ}, nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

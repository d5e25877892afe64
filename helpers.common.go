package main

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"os"
	"regexp"
	"strings"
)

var (
	ErrBookNotFound      = errors.New("book not found")
	ErrPackNotFound      = errors.New("pack not found")
	ErrNoOrderItems      = errors.New("at least one book must be ordered")
	ErrSelectionTooSmall = errors.New("selection below the minimum required to checkout")
	ErrLanguageUnknown   = errors.New("language is not supported")
	ErrEmailNotValid     = errors.New("email is not a valid address")
	ErrItemQuantity      = errors.New("item quantity must be positive")
)

type (
	ContextKey        string
	missingFieldError string
)

const (
	OrderIDPrefix        string     = "o"
	RequestIDPrefix      string     = "r"
	ContextRequestID     ContextKey = "request.id"
	ContextRequestNumber ContextKey = "request.number"
	ContextLanguage      ContextKey = "request.language"
)

// emailPattern accepts the conventional local@domain.tld shape. Checkout
// requests failing it are rejected before any upstream call is made.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func (m missingFieldError) Error() string {
	return string(m) + " is required"
}

// GetValueFromContext returns the value of a given key in the context
// if this key is not available, it returns an empty string.
func GetValueFromContext(ctx context.Context, contextKey ContextKey) string {
	if val := ctx.Value(contextKey); val != nil {
		if s, ok := val.(string); ok {
			return s
		}
	}
	return ""
}

// GetRequestNumberFromContext returns the request number set in
// the context. if not previously set then it returns 0.
func GetRequestNumberFromContext(ctx context.Context) uint64 {
	if val := ctx.Value(ContextRequestNumber); val != nil {
		return val.(uint64)
	}
	return 0
}

// DecodeOrderRequestBody is a helper function to read the content of a checkout request.
func DecodeOrderRequestBody(r *http.Request, req *OrderRequest) error {
	if r.Body == nil {
		return errors.New("invalid order request body")
	}
	return json.NewDecoder(r.Body).Decode(req)
}

// ValidateOrderRequest checks the customer identity fields and line items of
// a checkout request. It runs before any network call: a request failing here
// is never sent upstream and mutates no state.
func ValidateOrderRequest(req *OrderRequest) error {
	if len(strings.TrimSpace(req.FirstName)) == 0 {
		return missingFieldError("firstName")
	}

	if len(strings.TrimSpace(req.LastName)) == 0 {
		return missingFieldError("lastName")
	}

	if len(strings.TrimSpace(req.Email)) == 0 {
		return missingFieldError("email")
	}

	if !emailPattern.MatchString(req.Email) {
		return ErrEmailNotValid
	}

	if len(strings.TrimSpace(req.Phone)) == 0 {
		return missingFieldError("phone")
	}

	if len(strings.TrimSpace(req.Address)) == 0 {
		return missingFieldError("address")
	}

	if len(req.Items) == 0 {
		return ErrNoOrderItems
	}

	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return ErrItemQuantity
		}
	}

	return nil
}

// GetRequestSourceIP helps find the source IP of the caller.
func GetRequestSourceIP(r *http.Request) string {
	ip := r.Header.Get("X-REAL-IP")
	netIP := net.ParseIP(ip)
	if netIP != nil {
		return ip
	}

	ips := r.Header.Get("X-FORWARDED-FOR")
	splitIps := strings.Split(ips, ",")
	for _, ip := range splitIps {
		netIP = net.ParseIP(ip)
		if netIP != nil {
			return ip
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return ""
	}
	netIP = net.ParseIP(ip)
	if netIP != nil {
		return ip
	}
	return ""
}

// IsAppRunningInDocker checks the existence of the .dockerenv
// file at the root directory and returns a boolean result. This
// helps know if the App is running in a docker container or not.
func IsAppRunningInDocker() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	return false
}

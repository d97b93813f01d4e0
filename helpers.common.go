package main

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"os"
	"strings"
)

type ContextKey string

const (
	BookIDPrefix            string     = "b"
	UserIDPrefix            string     = "u"
	RequestIDPrefix         string     = "r"
	RequestIDContextKey     ContextKey = "request.id"
	RequestNumberContextKey ContextKey = "request.number"
	CallerContextKey        ContextKey = "request.caller"
)

// SetValueIntoContext stores any value under a typed context key.
func SetValueIntoContext(ctx context.Context, contextKey ContextKey, val interface{}) context.Context {
	return context.WithValue(ctx, contextKey, val)
}

// GetValueFromContext returns the value of a given key in the context
// if this key is not available, it returns an empty string.
func GetValueFromContext(ctx context.Context, contextKey ContextKey) string {
	if val := ctx.Value(contextKey); val != nil {
		return val.(string)
	}
	return ""
}

// GetRequestNumberFromContext returns the request number set in
// the context. if not previously set then it returns 0.
func GetRequestNumberFromContext(ctx context.Context) uint64 {
	if val := ctx.Value(RequestNumberContextKey); val != nil {
		return val.(uint64)
	}
	return 0
}

// SetCallerIntoContext stores the request caller identity for handlers use.
func SetCallerIntoContext(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, CallerContextKey, caller)
}

// GetCallerFromContext returns the caller identity attached to the request.
// A request which went through no authentication middleware is a guest.
func GetCallerFromContext(ctx context.Context) Caller {
	if val := ctx.Value(CallerContextKey); val != nil {
		return val.(Caller)
	}
	return GuestCaller()
}

// DecodeCreateBookRequestBody is a helper function to read the content of a book creation request.
func DecodeCreateBookRequestBody(r *http.Request, book *Book) error {
	if r.Body == nil {
		return errors.New("invalid create book request body")
	}
	return json.NewDecoder(r.Body).Decode(book)
}

// ValidateCreateBookRequestBody is a helper function to check if the content of a book creation request is valid.
// Title and author are required. ISBN and description default to empty values.
func ValidateCreateBookRequestBody(book *Book) error {
	if len(book.Title) == 0 {
		return missingFieldError("title")
	}

	if len(book.Author) == 0 {
		return missingFieldError("author")
	}

	return nil
}

// CredentialsRequest is the payload of register and login calls.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// DecodeCredentialsRequestBody is a helper function to read the content of a register or login request.
func DecodeCredentialsRequestBody(r *http.Request, creds *CredentialsRequest) error {
	if r.Body == nil {
		return errors.New("invalid credentials request body")
	}
	return json.NewDecoder(r.Body).Decode(creds)
}

// ValidateCredentialsRequestBody checks a register request content.
// The minimum password length comes from the auth configuration.
func ValidateCredentialsRequestBody(creds *CredentialsRequest, minPasswordLen int) error {
	if len(creds.Username) == 0 {
		return missingFieldError("username")
	}

	if len(creds.Password) == 0 {
		return missingFieldError("password")
	}

	if len(creds.Password) < minPasswordLen {
		return errors.New("password is too short")
	}

	return nil
}

// GetRequestSourceIP helps find the source IP of the caller.
func GetRequestSourceIP(r *http.Request) string {
	// Get IP from the X-REAL-IP header
	ip := r.Header.Get("X-REAL-IP")
	netIP := net.ParseIP(ip)
	if netIP != nil {
		return ip
	}

	// Get IP from X-FORWARDED-FOR header
	ips := r.Header.Get("X-FORWARDED-FOR")
	splitIps := strings.Split(ips, ",")
	for _, ip := range splitIps {
		netIP = net.ParseIP(ip)
		if netIP != nil {
			return ip
		}
	}

	// Get IP from RemoteAddr
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

// GetBearerToken extracts the credential from the Authorization header.
// It returns an empty string when no bearer credential is present.
func GetBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
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

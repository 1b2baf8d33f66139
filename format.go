package gokata

import (
	"encoding/base64"
	"net"
	"net/mail"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FormatValidator checks whether a string satisfies a named format. Check
// returns false when the value does not conform; the engine turns that into
// an invalid_format Issue. Implementations must be safe for concurrent use.
type FormatValidator interface {
	Check(code FormatCode, s string) bool
}

var (
	formatMu        sync.RWMutex
	formatValidator FormatValidator = builtinFormats{}
)

// SetFormatValidator replaces the package-wide FormatValidator used by
// schemas compiled without an explicit SchemaOpt.Formats. Passing nil
// restores the built-in validator.
func SetFormatValidator(v FormatValidator) {
	formatMu.Lock()
	defer formatMu.Unlock()
	if v == nil {
		formatValidator = builtinFormats{}
		return
	}
	formatValidator = v
}

// DefaultFormats returns the built-in FormatValidator.
func DefaultFormats() FormatValidator { return builtinFormats{} }

func getFormatValidator() FormatValidator {
	formatMu.RLock()
	defer formatMu.RUnlock()
	return formatValidator
}

// builtinFormats implements the built-in format checks.
type builtinFormats struct{}

func (builtinFormats) Check(code FormatCode, s string) bool {
	switch code {
	case FormatEmail:
		return validEmail(s)
	case FormatURL:
		return validURL(s)
	case FormatUUID:
		return validUUID(s)
	case FormatIPv4:
		return validIPv4(s)
	case FormatIPv6:
		return validIPv6(s)
	case FormatBase64:
		return validBase64(s)
	case FormatDate:
		return validDate(s)
	case FormatDateTime:
		return validDateTime(s)
	}
	return true
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	domain := s[at+1:]
	if !strings.Contains(domain, ".") {
		return false
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	for _, part := range strings.Split(domain, ".") {
		if part == "" {
			return false
		}
	}
	return true
}

func validURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

func validUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

func validIPv4(s string) bool {
	ip := net.ParseIP(s)
	return ip != nil && ip.To4() != nil && strings.Contains(s, ".")
}

func validIPv6(s string) bool {
	if !strings.Contains(s, ":") {
		return false
	}
	return net.ParseIP(s) != nil
}

func validBase64(s string) bool {
	_, err := base64.StdEncoding.DecodeString(s)
	return err == nil
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func validDateTime(s string) bool {
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}

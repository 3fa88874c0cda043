package httpmethods

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"syscall"
	"time"
)

// ErrTransportUnavailable is reported when an Executor has no transport to send with.
var ErrTransportUnavailable = errors.New("missing required HTTP transport")

// ErrorKind classifies transport failures.
type ErrorKind string

const (
	KindDNS               ErrorKind = "dns_failure"
	KindConnectionRefused ErrorKind = "connection_refused"
	KindTLS               ErrorKind = "tls_failure"
	KindTimeout           ErrorKind = "timeout"
	KindOther             ErrorKind = "other"

	// KindUnavailable marks a request that was never attempted because no transport is set.
	KindUnavailable ErrorKind = "transport_unavailable"
)

// TransportError is a network level failure of the single request attempt.
type TransportError struct {
	Kind    ErrorKind
	Timeout time.Duration
	Err     error
}

func (e *TransportError) Error() string {
	var prefix string
	switch e.Kind {
	case KindDNS:
		prefix = "DNS resolution failed"
	case KindConnectionRefused:
		prefix = "connection refused"
	case KindTLS:
		prefix = "TLS handshake failed"
	case KindTimeout:
		prefix = fmt.Sprintf("request timed out after %s", e.Timeout)
	default:
		prefix = "request failed"
	}
	if e.Err == nil {
		return prefix
	}
	return fmt.Sprintf("%s: %v", prefix, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTimeout reports whether the failure was the deadline expiring.
func (e *TransportError) IsTimeout() bool { return e.Kind == KindTimeout }

// classifyTransportError wraps err into a TransportError with the matching kind.
func classifyTransportError(err error, timeout time.Duration) *TransportError {
	if err == nil {
		return nil
	}
	var te *TransportError
	if errors.As(err, &te) {
		return te
	}
	return &TransportError{Kind: errorKind(err), Timeout: timeout, Err: err}
}

func errorKind(err error) ErrorKind {
	var (
		netErr     net.Error
		dnsErr     *net.DNSError
		verifyErr  *tls.CertificateVerificationError
		authErr    x509.UnknownAuthorityError
		hostErr    x509.HostnameError
		invalidErr x509.CertificateInvalidError
		recordErr  tls.RecordHeaderError
		alertErr   tls.AlertError
	)

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		return KindTimeout
	case errors.As(err, &dnsErr):
		return KindDNS
	case errors.Is(err, syscall.ECONNREFUSED):
		return KindConnectionRefused
	case errors.As(err, &verifyErr),
		errors.As(err, &authErr),
		errors.As(err, &hostErr),
		errors.As(err, &invalidErr),
		errors.As(err, &recordErr),
		errors.As(err, &alertErr):
		return KindTLS
	default:
		return KindOther
	}
}

package configuration

import (
	"fmt"
	"strings"
)

// PostgresTransport holds the TLS settings of the database connection. It is
// handed to the storage client constructor and only ever ends up in that
// client's connection string.
type PostgresTransport struct {
	SSLMode     string
	SSLRootCert string
	SSLCert     string
	SSLKey      string
}

// String renders the transport as lib/pq connection string parameters.
func (t PostgresTransport) String() string {
	mode := t.SSLMode
	if mode == "" {
		mode = "disable"
	}
	params := []string{fmt.Sprintf("sslmode=%s", mode)}
	if t.SSLRootCert != "" {
		params = append(params, fmt.Sprintf("sslrootcert=%s", t.SSLRootCert))
	}
	if t.SSLCert != "" {
		params = append(params, fmt.Sprintf("sslcert=%s", t.SSLCert))
	}
	if t.SSLKey != "" {
		params = append(params, fmt.Sprintf("sslkey=%s", t.SSLKey))
	}
	return strings.Join(params, " ")
}

// VerifiesServer returns true if the transport checks the server certificate.
func (t PostgresTransport) VerifiesServer() bool {
	return t.SSLMode == "verify-ca" || t.SSLMode == "verify-full"
}

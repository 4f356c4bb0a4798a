package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// StringList is a comma separated flag value.
type StringList []string

// String joins the list with commas.
func (l *StringList) String() string {
	return strings.Join(*l, ",")
}

// Set splits s on commas, dropping blank items.
func (l *StringList) Set(s string) error {
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			*l = append(*l, item)
		}
	}
	return nil
}

// ParseFlags parses all configuration flags from args.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-prefix route prefix (e.g. "/api")
//	-request-timeout request timeout (e.g. "30s", "1m")
//	-shutdown-timeout graceful shutdown timeout
//	-l log level
//	-c/-config json file path with configs
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-roles comma separated role levels, lowest first
//	-role-claim token claim holding the roles
//	-cors enable the CORS policy
//	-cors-origins comma separated allowed origins
//	-uploads enable multipart uploads
//	-upload-dir directory for uploaded files
//	-upload-strict reject malformed forms and failed uploads
//	-sql-filter enable the query string filter
//	-metrics enable the metrics endpoint
func ParseFlags(args []string) (*StructuredConfig, error) {
	var serverAddress NetAddress
	var apiPrefix string
	var requestTimeout time.Duration
	var shutdownTimeout time.Duration
	var logLevel string
	var jsonConfigPath string
	var tokenSignKey string
	var tokenIssuer string
	var roles StringList
	var roleClaim string
	var corsEnabled bool
	var corsOrigins StringList
	var uploadsEnabled bool
	var uploadDir string
	var uploadStrict bool
	var sqlFilter bool
	var metricsEnabled bool

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&apiPrefix, "prefix", "", "Route prefix")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&shutdownTimeout, "shutdown-timeout", 0, "Graceful shutdown timeout")
	fs.StringVar(&logLevel, "l", "", "Log level")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.Var(&roles, "roles", "Role levels, lowest first")
	fs.StringVar(&roleClaim, "role-claim", "", "Token claim holding the roles")
	fs.BoolVar(&corsEnabled, "cors", false, "Enable CORS")
	fs.Var(&corsOrigins, "cors-origins", "Allowed CORS origins")
	fs.BoolVar(&uploadsEnabled, "uploads", false, "Enable multipart uploads")
	fs.StringVar(&uploadDir, "upload-dir", "", "Upload directory")
	fs.BoolVar(&uploadStrict, "upload-strict", false, "Reject malformed multipart requests")
	fs.BoolVar(&sqlFilter, "sql-filter", false, "Enable the query string filter")
	fs.BoolVar(&metricsEnabled, "metrics", false, "Enable the metrics endpoint")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		Server: Server{
			HTTPAddress:     serverAddress.String(),
			APIPrefix:       apiPrefix,
			RequestTimeout:  requestTimeout,
			ShutdownTimeout: shutdownTimeout,
		},
		Log: Log{
			Level: logLevel,
		},
		Auth: Auth{
			TokenSignKey: tokenSignKey,
			TokenIssuer:  tokenIssuer,
		},
		Roles: Roles{
			Levels:     roles,
			ClaimField: roleClaim,
		},
		CORS: CORS{
			Enabled:        corsEnabled,
			AllowedOrigins: corsOrigins,
		},
		Uploads: Uploads{
			Enabled: uploadsEnabled,
			Dir:     uploadDir,
			Strict:  uploadStrict,
		},
		Security: Security{
			SQLInjectionCountermeasures: sqlFilter,
		},
		Metrics: Metrics{
			Enabled: metricsEnabled,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is empty or
// "localhost", and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be between 1 and 65535")
	}

	if host != "" && host != "localhost" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}

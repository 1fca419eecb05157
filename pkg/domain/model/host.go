package model

import (
	"net"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// DefaultSSHPort is used for hosts without an explicit port
const DefaultSSHPort = 22

// Host is a deploy target
type Host struct {
	User string
	Name string
	Port int
}

// ParseHost parses "[user@]host[:port]". Missing parts take the given defaults.
func ParseHost(entry, defaultUser string, defaultPort int) (Host, error) {
	h := Host{User: defaultUser, Port: defaultPort}
	rest := strings.TrimSpace(entry)
	if rest == "" {
		return h, goerr.Wrap(ErrInvalidHost, "empty host entry")
	}

	if i := strings.LastIndex(rest, "@"); i >= 0 {
		h.User = rest[:i]
		rest = rest[i+1:]
		if h.User == "" {
			return h, goerr.Wrap(ErrInvalidHost, "empty user", goerr.V("entry", entry))
		}
	}

	name, port, err := net.SplitHostPort(rest)
	if err != nil {
		// no port given; a bare IPv6 address also ends up here
		name = strings.TrimSuffix(strings.TrimPrefix(rest, "["), "]")
	} else {
		p, err := strconv.Atoi(port)
		if err != nil || p < 1 || p > 65535 {
			return h, goerr.Wrap(ErrInvalidHost, "bad port", goerr.V("entry", entry))
		}
		h.Port = p
	}

	if name == "" {
		return h, goerr.Wrap(ErrInvalidHost, "empty host name", goerr.V("entry", entry))
	}
	h.Name = name
	if h.Port == 0 {
		h.Port = DefaultSSHPort
	}

	return h, nil
}

// ParseHosts parses a comma or whitespace separated host list
func ParseHosts(list, defaultUser string, defaultPort int) ([]Host, error) {
	var hosts []Host
	for _, entry := range SplitList(list) {
		h, err := ParseHost(entry, defaultUser, defaultPort)
		if err != nil {
			return nil, err
		}
		hosts = append(hosts, h)
	}
	return hosts, nil
}

// Address returns host:port for dialing
func (h Host) Address() string {
	return net.JoinHostPort(h.Name, strconv.Itoa(h.Port))
}

func (h Host) String() string {
	if h.User == "" {
		return h.Address()
	}
	return h.User + "@" + h.Address()
}

// SSHOptions selects how deploy hosts are authenticated and verified
type SSHOptions struct {
	IdentityFile          string
	IdentityPassphrase    string `masq:"secret"`
	KnownHosts            string
	InsecureIgnoreHostKey bool
}

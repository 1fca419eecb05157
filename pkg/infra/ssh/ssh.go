// Package ssh opens remote sessions to deploy hosts over SSH.
package ssh

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/webship/pkg/domain/interfaces"
	"github.com/m-mizutani/webship/pkg/domain/model"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

const defaultTimeout = 30 * time.Second

// Dialer connects to hosts with golang.org/x/crypto/ssh
type Dialer struct {
	user        string
	home        string
	agentSocket string
	timeout     time.Duration
	stdout      io.Writer
	stderr      io.Writer
}

// Option configures a Dialer
type Option func(*Dialer)

// WithUser sets the login name for hosts that do not carry one
func WithUser(name string) Option {
	return func(d *Dialer) {
		d.user = name
	}
}

// WithAgentSocket sets the ssh-agent socket. An empty path disables the agent.
func WithAgentSocket(path string) Option {
	return func(d *Dialer) {
		d.agentSocket = path
	}
}

// WithHome sets the directory searched for default identity files
func WithHome(dir string) Option {
	return func(d *Dialer) {
		d.home = dir
	}
}

// WithTimeout limits TCP connect and SSH handshake
func WithTimeout(timeout time.Duration) Option {
	return func(d *Dialer) {
		d.timeout = timeout
	}
}

// WithOutput sets where remote stdout and stderr are copied
func WithOutput(stdout, stderr io.Writer) Option {
	return func(d *Dialer) {
		d.stdout = stdout
		d.stderr = stderr
	}
}

// New creates a Dialer. The login name defaults to the local user and the
// agent to $SSH_AUTH_SOCK.
func New(opts ...Option) *Dialer {
	d := &Dialer{
		user:        currentUser(),
		agentSocket: os.Getenv("SSH_AUTH_SOCK"),
		timeout:     defaultTimeout,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
	}
	if home, err := os.UserHomeDir(); err == nil {
		d.home = home
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}

// Dial connects and authenticates to host
func (d *Dialer) Dial(ctx context.Context, host model.Host, opt model.SSHOptions) (interfaces.RemoteSession, error) {
	login := host.User
	if login == "" {
		login = d.user
	}
	if login == "" {
		return nil, goerr.Wrap(model.ErrInvalidHost, "no login name for host", goerr.V("host", host.String()))
	}

	hostKey, err := hostKeyCallback(opt)
	if err != nil {
		return nil, err
	}

	auth, agentConn, err := d.authMethods(ctx, opt)
	if err != nil {
		return nil, err
	}

	cfg := &ssh.ClientConfig{
		User:            login,
		Auth:            auth,
		HostKeyCallback: hostKey,
		Timeout:         d.timeout,
	}

	closeAgent := func() {
		if agentConn != nil {
			_ = agentConn.Close()
		}
	}

	dialer := net.Dialer{Timeout: d.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", host.Address())
	if err != nil {
		closeAgent()
		return nil, goerr.Wrap(err, "failed to connect", goerr.V("host", host.String()))
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	c, chans, reqs, err := ssh.NewClientConn(conn, host.Address(), cfg)
	if err != nil {
		_ = conn.Close()
		closeAgent()
		return nil, goerr.Wrap(err, "SSH handshake failed", goerr.V("host", host.String()))
	}
	_ = conn.SetDeadline(time.Time{})

	ctxlog.From(ctx).Info("Connected", "host", host.String(), "user", login)

	return &session{
		host:      host.String(),
		client:    ssh.NewClient(c, chans, reqs),
		agentConn: agentConn,
		stdout:    d.stdout,
		stderr:    d.stderr,
	}, nil
}

func hostKeyCallback(opt model.SSHOptions) (ssh.HostKeyCallback, error) {
	if opt.InsecureIgnoreHostKey {
		return ssh.InsecureIgnoreHostKey(), nil // #nosec G106
	}
	if opt.KnownHosts == "" {
		return nil, goerr.Wrap(model.ErrInvalidSetting, "known_hosts is not set and host key checking is enabled")
	}

	cb, err := knownhosts.New(opt.KnownHosts)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load known_hosts", goerr.V("path", opt.KnownHosts))
	}
	return cb, nil
}

// authMethods collects the agent's keys and the identity file. Without
// either, the usual ~/.ssh/id_* files are tried.
func (d *Dialer) authMethods(ctx context.Context, opt model.SSHOptions) ([]ssh.AuthMethod, net.Conn, error) {
	var (
		methods   []ssh.AuthMethod
		agentConn net.Conn
	)

	if d.agentSocket != "" {
		dialer := net.Dialer{Timeout: d.timeout}
		conn, err := dialer.DialContext(ctx, "unix", d.agentSocket)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, nil, goerr.Wrap(ctxErr, "cancelled while connecting to ssh-agent")
			}
			ctxlog.From(ctx).Debug("ssh-agent not reachable", "socket", d.agentSocket, "error", err)
		} else {
			agentConn = conn
			methods = append(methods, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
		}
	}

	var files []string
	if opt.IdentityFile != "" {
		files = []string{opt.IdentityFile}
	} else if d.home != "" {
		for _, name := range []string{"id_ed25519", "id_ecdsa", "id_rsa"} {
			files = append(files, filepath.Join(d.home, ".ssh", name))
		}
	}

	var signers []ssh.Signer
	for _, path := range files {
		signer, err := loadSigner(path, opt.IdentityPassphrase)
		if err != nil {
			if opt.IdentityFile == "" && errors.Is(err, os.ErrNotExist) {
				continue
			}
			if agentConn != nil {
				_ = agentConn.Close()
			}
			return nil, nil, err
		}
		signers = append(signers, signer)
	}
	if len(signers) > 0 {
		methods = append(methods, ssh.PublicKeys(signers...))
	}

	if len(methods) == 0 {
		return nil, nil, goerr.New("no SSH credentials: start ssh-agent or set [deploy] identity_file")
	}
	return methods, agentConn, nil
}

func loadSigner(path, passphrase string) (ssh.Signer, error) {
	pem, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read identity file", goerr.V("path", path))
	}

	var signer ssh.Signer
	if passphrase != "" {
		signer, err = ssh.ParsePrivateKeyWithPassphrase(pem, []byte(passphrase))
	} else {
		signer, err = ssh.ParsePrivateKey(pem)
	}
	if err != nil {
		var missing *ssh.PassphraseMissingError
		if errors.As(err, &missing) {
			return nil, goerr.Wrap(err, "identity file is encrypted, set [deploy] identity_passphrase", goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to parse identity file", goerr.V("path", path))
	}
	return signer, nil
}

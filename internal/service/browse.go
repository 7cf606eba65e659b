package service

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/sftp"
	"github.com/skeema/knownhosts"
	"golang.org/x/crypto/ssh"

	"github.com/jask/sshmgr/internal/database/repository"
	"github.com/jask/sshmgr/internal/logging"
)

// DialFunc opens an authenticated ssh client to addr.
type DialFunc func(ctx context.Context, addr string, cfg *ssh.ClientConfig) (*ssh.Client, error)

// SFTPBrowser lists the initial directory of an SFTP profile.
type SFTPBrowser struct {
	// KnownHosts enables strict host key checking against that file.
	// Empty means host keys are accepted unverified, like the terminal path.
	KnownHosts string
	// Timeout bounds the TCP connect and handshake; zero leaves it to the transport.
	Timeout time.Duration
	Dial    DialFunc
	Logger  *log.Logger
}

// BrowseRemoteRoot connects, authenticates with the profile's user and
// secret, lists the login directory and disconnects. Names are sorted.
// Either every entry is returned or a *ConnectionError.
func (b *SFTPBrowser) BrowseRemoteRoot(ctx context.Context, p repository.Profile) ([]string, error) {
	if p.Protocol != repository.ProtocolSFTP {
		return nil, &UnsupportedProtocolError{Protocol: string(p.Protocol)}
	}
	if p.Host == "" {
		return nil, &repository.ValidationError{Field: "host", Reason: "required to connect"}
	}
	logger := logging.OrDiscard(b.Logger).With("profile", p.ID, "host", p.Host)
	addr := net.JoinHostPort(p.Host, strconv.Itoa(p.Port))

	cfg, err := b.clientConfig(p, addr)
	if err != nil {
		return nil, &ConnectionError{Host: addr, Err: err}
	}

	dial := b.Dial
	if dial == nil {
		dial = b.dial
	}
	logger.Info("browse", "addr", addr, "strict", b.KnownHosts != "")
	client, err := dial(ctx, addr, cfg)
	if err != nil {
		logger.Warn("browse dial failed", "err", err)
		return nil, &ConnectionError{Host: addr, Err: err}
	}
	defer client.Close()

	sc, err := sftp.NewClient(client)
	if err != nil {
		return nil, &ConnectionError{Host: addr, Err: fmt.Errorf("sftp session: %w", err)}
	}
	defer sc.Close()

	entries, err := sc.ReadDir(".")
	if err != nil {
		return nil, &ConnectionError{Host: addr, Err: fmt.Errorf("read dir: %w", err)}
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (b *SFTPBrowser) clientConfig(p repository.Profile, addr string) (*ssh.ClientConfig, error) {
	secret := p.Secret
	cfg := &ssh.ClientConfig{
		User: p.User,
		Auth: []ssh.AuthMethod{
			ssh.Password(secret),
			ssh.KeyboardInteractive(func(_, _ string, questions []string, _ []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = secret
				}
				return answers, nil
			}),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         b.Timeout,
	}
	if b.KnownHosts != "" {
		kh, err := knownhosts.New(b.KnownHosts)
		if err != nil {
			return nil, fmt.Errorf("load known_hosts: %w", err)
		}
		cfg.HostKeyCallback = kh.HostKeyCallback()
		cfg.HostKeyAlgorithms = kh.HostKeyAlgorithms(addr)
	}
	return cfg, nil
}

func (b *SFTPBrowser) dial(ctx context.Context, addr string, cfg *ssh.ClientConfig) (*ssh.Client, error) {
	d := net.Dialer{Timeout: b.Timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	c, chans, reqs, err := ssh.NewClientConn(conn, addr, cfg)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return ssh.NewClient(c, chans, reqs), nil
}

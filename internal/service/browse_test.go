package service

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/pkg/sftp"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
	xknownhosts "golang.org/x/crypto/ssh/knownhosts"

	"github.com/jask/sshmgr/internal/database/repository"
)

func sftpProfile(host string, port int) repository.Profile {
	return repository.Profile{ID: 7, ProfileFields: repository.ProfileFields{
		Name: "files", Host: host, Port: port, User: "backup", Secret: "s3cret",
		Protocol: repository.ProtocolSFTP,
	}}
}

func TestBrowseRejectsSSHProfileWithoutDialing(t *testing.T) {
	t.Parallel()
	dials := 0
	b := &SFTPBrowser{Dial: func(context.Context, string, *ssh.ClientConfig) (*ssh.Client, error) {
		dials++
		return nil, errors.New("unexpected dial")
	}}
	p := sftpProfile("10.0.0.5", 22)
	p.Protocol = repository.ProtocolSSH

	_, err := b.BrowseRemoteRoot(context.Background(), p)
	var upe *UnsupportedProtocolError
	require.ErrorAs(t, err, &upe)
	require.Equal(t, "SSH", upe.Protocol)
	require.Zero(t, dials)
}

func TestBrowseDialFailureIsConnectionError(t *testing.T) {
	t.Parallel()
	refused := errors.New("connection refused")
	var gotAddr string
	var gotUser string
	b := &SFTPBrowser{Dial: func(_ context.Context, addr string, cfg *ssh.ClientConfig) (*ssh.Client, error) {
		gotAddr, gotUser = addr, cfg.User
		return nil, refused
	}}

	_, err := b.BrowseRemoteRoot(context.Background(), sftpProfile("fe80::1", 2222))
	var ce *ConnectionError
	require.ErrorAs(t, err, &ce)
	require.ErrorIs(t, err, refused)
	require.Equal(t, "[fe80::1]:2222", gotAddr)
	require.Equal(t, "backup", gotUser)
}

func TestBrowseMissingKnownHostsFails(t *testing.T) {
	t.Parallel()
	dials := 0
	b := &SFTPBrowser{
		KnownHosts: filepath.Join(t.TempDir(), "known_hosts"),
		Dial: func(context.Context, string, *ssh.ClientConfig) (*ssh.Client, error) {
			dials++
			return nil, errors.New("unexpected dial")
		},
	}
	_, err := b.BrowseRemoteRoot(context.Background(), sftpProfile("10.0.0.5", 22))
	var ce *ConnectionError
	require.ErrorAs(t, err, &ce)
	require.Zero(t, dials)
}

// startSFTPServer serves dir over sftp on a loopback port and returns the
// address and the server's host key.
func startSFTPServer(t *testing.T, dir, password string) (string, ssh.PublicKey) {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := ssh.NewSignerFromKey(priv)
	require.NoError(t, err)

	cfg := &ssh.ServerConfig{
		PasswordCallback: func(_ ssh.ConnMetadata, pw []byte) (*ssh.Permissions, error) {
			if string(pw) == password {
				return nil, nil
			}
			return nil, errors.New("denied")
		},
	}
	cfg.AddHostKey(signer)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go serveSFTPConn(conn, cfg, dir)
		}
	}()
	return ln.Addr().String(), signer.PublicKey()
}

func serveSFTPConn(conn net.Conn, cfg *ssh.ServerConfig, dir string) {
	defer conn.Close()
	_, chans, reqs, err := ssh.NewServerConn(conn, cfg)
	if err != nil {
		return
	}
	go ssh.DiscardRequests(reqs)
	for nc := range chans {
		if nc.ChannelType() != "session" {
			_ = nc.Reject(ssh.UnknownChannelType, "session only")
			continue
		}
		ch, chReqs, err := nc.Accept()
		if err != nil {
			return
		}
		go func() {
			for req := range chReqs {
				ok := req.Type == "subsystem" && len(req.Payload) > 4 &&
					int(binary.BigEndian.Uint32(req.Payload)) == len(req.Payload)-4 &&
					string(req.Payload[4:]) == "sftp"
				_ = req.Reply(ok, nil)
				if !ok {
					continue
				}
				srv, err := sftp.NewServer(ch, sftp.WithServerWorkingDirectory(dir))
				if err != nil {
					_ = ch.Close()
					return
				}
				_ = srv.Serve()
				_ = srv.Close()
				return
			}
		}()
	}
}

func TestBrowseListsRemoteDirectorySorted(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	for _, name := range []string{"zeta.log", "alpha.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "backups"), 0o755))

	addr, _ := startSFTPServer(t, dir, "s3cret")
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	b := &SFTPBrowser{}
	names, err := b.BrowseRemoteRoot(context.Background(), sftpProfile(host, port))
	require.NoError(t, err)
	require.Equal(t, []string{"alpha.txt", "backups", "zeta.log"}, names)
}

func TestBrowseWrongSecretIsConnectionError(t *testing.T) {
	t.Parallel()
	addr, _ := startSFTPServer(t, t.TempDir(), "right")
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	b := &SFTPBrowser{}
	_, err = b.BrowseRemoteRoot(context.Background(), sftpProfile(host, port))
	var ce *ConnectionError
	require.ErrorAs(t, err, &ce)
}

func TestBrowseStrictHostKeys(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme"), nil, 0o600))
	addr, hostKey := startSFTPServer(t, dir, "s3cret")
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	khDir := t.TempDir()
	good := filepath.Join(khDir, "good")
	require.NoError(t, os.WriteFile(good, []byte(xknownhosts.Line([]string{addr}, hostKey)+"\n"), 0o600))

	b := &SFTPBrowser{KnownHosts: good}
	names, err := b.BrowseRemoteRoot(context.Background(), sftpProfile(host, port))
	require.NoError(t, err)
	require.Equal(t, []string{"readme"}, names)

	_, otherPriv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	other, err := ssh.NewSignerFromKey(otherPriv)
	require.NoError(t, err)
	bad := filepath.Join(khDir, "bad")
	require.NoError(t, os.WriteFile(bad, []byte(xknownhosts.Line([]string{addr}, other.PublicKey())+"\n"), 0o600))

	b = &SFTPBrowser{KnownHosts: bad}
	_, err = b.BrowseRemoteRoot(context.Background(), sftpProfile(host, port))
	var ce *ConnectionError
	require.ErrorAs(t, err, &ce)
}

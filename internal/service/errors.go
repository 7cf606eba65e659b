package service

import (
	"errors"
	"fmt"

	"github.com/jask/sshmgr/internal/database/repository"
)

// ErrNoFileManager is returned when none of the configured file managers is installed.
var ErrNoFileManager = errors.New("no file manager found")

// ReservedNameError rejects mutations of the All and (ungrouped) labels.
type ReservedNameError struct {
	Name string
}

func (e *ReservedNameError) Error() string {
	return fmt.Sprintf("group %q is reserved", e.Name)
}

// UnsupportedProtocolError is returned by BrowseRemoteRoot for non-SFTP profiles.
type UnsupportedProtocolError struct {
	Protocol string
}

func (e *UnsupportedProtocolError) Error() string {
	return fmt.Sprintf("unsupported protocol %q: remote browse needs SFTP", e.Protocol)
}

// ConnectionError wraps a network or authentication failure.
type ConnectionError struct {
	Host string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Host, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// LaunchError reports that the OS could not spawn Program.
type LaunchError struct {
	Program string
	Attempt string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: %v", e.Program, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

func notFoundGroup(name string) error {
	return fmt.Errorf("group %q: %w", name, repository.ErrNotFound)
}

package assets

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors.
var (
	// ErrNotFound is returned when a logical name or store key does not exist.
	ErrNotFound = errors.New("assets: not found")

	// ErrCyclicDependency is returned when a batch contains a reference cycle.
	ErrCyclicDependency = errors.New("assets: cyclic dependency")

	// ErrManifestCorrupt is returned when a persisted manifest cannot be parsed.
	ErrManifestCorrupt = errors.New("assets: manifest corrupt")

	// ErrInvalidName is returned when a logical name is empty or escapes the
	// storage root.
	ErrInvalidName = errors.New("assets: invalid logical name")
)

// CycleError reports a reference cycle within a batch. Members holds the
// logical names participating in the cycle, sorted.
type CycleError struct {
	Members []string
}

func (e *CycleError) Error() string {
	members := append([]string(nil), e.Members...)
	sort.Strings(members)
	return fmt.Sprintf("assets: cyclic dependency among [%s]", strings.Join(members, ", "))
}

func (e *CycleError) Unwrap() error { return ErrCyclicDependency }

// ScanError reports a failure extracting references from an asset. The
// message names the asset and the reason, never its content.
type ScanError struct {
	LogicalName string
	Reason      string
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("assets: scan %s: %s", e.LogicalName, e.Reason)
}

// StoreError wraps a storage backend failure with the offending key.
type StoreError struct {
	Key string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("assets: store %s: %v", e.Key, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NotFoundError reports a strict-mode miss for a logical name.
type NotFoundError struct {
	LogicalName string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("assets: %s: not found", e.LogicalName)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ManifestCorruptError reports an unparseable persisted manifest.
type ManifestCorruptError struct {
	Err error
}

func (e *ManifestCorruptError) Error() string {
	return fmt.Sprintf("assets: manifest corrupt: %v", e.Err)
}

func (e *ManifestCorruptError) Unwrap() []error { return []error{ErrManifestCorrupt, e.Err} }

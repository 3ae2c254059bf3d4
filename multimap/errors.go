package multimap

import "github.com/pkg/errors"

var (
	// ErrKeyNotFound is returned by Get, Pop and Delete for an absent key.
	ErrKeyNotFound = errors.New("key not found")
	// ErrEmpty is returned by PopItem, MinKey and MaxKey when no key is stored.
	ErrEmpty = errors.New("multimap is empty")
)

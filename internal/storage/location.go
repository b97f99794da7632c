package storage

import (
	"errors"
	"fmt"
	"strings"
)

const Scheme = "s3://"

var ErrInvalidLocation = errors.New("invalid object location")

// Location addresses one object as s3://bucket/key.
type Location struct {
	Bucket string
	Key    string
}

func IsObjectURI(s string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(s)), Scheme)
}

func ParseLocation(s string) (Location, error) {
	s = strings.TrimSpace(s)
	if !IsObjectURI(s) {
		return Location{}, fmt.Errorf("%w: %q must start with %s", ErrInvalidLocation, s, Scheme)
	}

	bucket, key, _ := strings.Cut(s[len(Scheme):], "/")
	key = strings.TrimLeft(key, "/")
	if bucket == "" {
		return Location{}, fmt.Errorf("%w: %q has no bucket", ErrInvalidLocation, s)
	}
	if key == "" || strings.HasSuffix(key, "/") {
		return Location{}, fmt.Errorf("%w: %q has no object key", ErrInvalidLocation, s)
	}
	return Location{Bucket: bucket, Key: key}, nil
}

func (l Location) String() string {
	return Scheme + l.Bucket + "/" + l.Key
}

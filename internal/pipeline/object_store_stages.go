package pipeline

import (
	"context"
	"errors"
	"io"

	"github.com/dunamismax/pixelcraft/internal/storage"
)

type ObjectStoreFetcher struct {
	Storage *storage.Client
}

func (f ObjectStoreFetcher) Exists(ctx context.Context, src string) (bool, error) {
	if f.Storage == nil {
		return false, errors.New("storage client is required")
	}
	loc, err := storage.ParseLocation(src)
	if err != nil {
		return false, err
	}
	return f.Storage.ObjectExists(ctx, loc)
}

func (f ObjectStoreFetcher) Open(ctx context.Context, src string) (io.ReadCloser, error) {
	if f.Storage == nil {
		return nil, errors.New("storage client is required")
	}
	loc, err := storage.ParseLocation(src)
	if err != nil {
		return nil, err
	}
	return f.Storage.OpenObject(ctx, loc)
}

type ObjectStoreEmitter struct {
	Storage *storage.Client
}

func (e ObjectStoreEmitter) Emit(ctx context.Context, dst string, data []byte, format Format) error {
	if e.Storage == nil {
		return errors.New("storage client is required")
	}
	loc, err := storage.ParseLocation(dst)
	if err != nil {
		return err
	}
	return e.Storage.WriteObject(ctx, loc, data, contentTypeForFormat(format))
}

//go:build !govips || !cgo

package pipeline

func Startup() error {
	return nil
}

func Shutdown() {}

func newCodec(opts CodecOptions) (Codec, error) {
	return newImagingCodec(opts), nil
}

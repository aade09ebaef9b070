package cloudwriter

// CloudWriter buffers an object's bytes and stores the object on Close.
type CloudWriter interface {
	Write(data []byte) (int, error)
	Close() error
}

type CloudWriterFactory interface {
	NewWriter(bucket, objectPath string) (CloudWriter, error)
}

// ContentTyper is implemented by writers that can label the stored object.
type ContentTyper interface {
	SetContentType(contentType string)
}

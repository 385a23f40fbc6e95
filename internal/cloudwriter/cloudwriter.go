// Package cloudwriter streams finished output files to object storage.
// Writers buffer locally and upload on Close, which suits formats like
// parquet whose footer is only written when the file is finalised.
package cloudwriter

// CloudWriter collects a single object's bytes and uploads them when closed.
type CloudWriter interface {
	Write(data []byte) (int, error)
	Close() error
}

// CloudWriterFactory creates writers bound to one provider and region.
type CloudWriterFactory interface {
	NewWriter(bucket, objectPath string) (CloudWriter, error)
}

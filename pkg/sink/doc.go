// Package sink stores the finished export files.
//
// The exporter marshals every file in memory and hands each one to a Sink
// only after the whole run succeeded. Implementations:
//
//   - fs: a local directory, written via temp file and rename
//   - s3: an S3 or S3-compatible bucket (aws-sdk-go-v2)
//   - memory: in-process files for tests
package sink

package inspect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Archive stores settled snapshots.
type Archive interface {
	Put(ctx context.Context, snap Snapshot) error
}

// DiskArchive writes each snapshot to <Dir>/<id>.json.
type DiskArchive struct {
	Dir string
}

// NewDiskArchive creates the directory if needed.
func NewDiskArchive(dir string) (*DiskArchive, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	return &DiskArchive{Dir: dir}, nil
}

// Put writes snap.
func (a *DiskArchive) Put(_ context.Context, snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	path := filepath.Join(a.Dir, snap.ID+".json")
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// S3PutAPI is the part of the S3 client the archive uses.
type S3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archive puts each snapshot as one object under a key prefix.
//
// Example usage:
//
//	client := inspect.NewS3Client("eu-west-1")
//	archive := inspect.NewS3Archive(client, "my-bucket", "snapshots/")
type S3Archive struct {
	client S3PutAPI
	bucket string
	prefix string
}

// NewS3Archive creates an S3 archive.
func NewS3Archive(client S3PutAPI, bucket, prefix string) *S3Archive {
	return &S3Archive{client: client, bucket: bucket, prefix: prefix}
}

// Key returns the object key of a snapshot.
func (a *S3Archive) Key(snap Snapshot) string {
	return a.prefix + snap.ID + ".json"
}

// Put uploads snap.
func (a *S3Archive) Put(ctx context.Context, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(a.Key(snap)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"batch": fmt.Sprint(snap.Batch),
		},
	})
	if err != nil {
		return fmt.Errorf("s3 put failed: %w", err)
	}
	return nil
}

// NewS3Client builds an S3 client for region using the standard
// AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN
// environment variables.
func NewS3Client(region string) *s3.Client {
	return s3.New(s3.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(aws.CredentialsProviderFunc(envCredentials)),
	})
}

func envCredentials(context.Context) (aws.Credentials, error) {
	id := os.Getenv("AWS_ACCESS_KEY_ID")
	secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.Credentials{}, fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
	}
	return aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "environment",
	}, nil
}

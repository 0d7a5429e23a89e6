package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/navigator/internal/errors"
)

// S3Scheme prefixes definition sources stored in S3.
const S3Scheme = "s3://"

// maxRemoteSize caps the size of a remote definition file.
const maxRemoteSize = 4 << 20

// ObjectGetter is the subset of *s3.Client used to fetch definitions.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Loader resolves definition sources, either local paths or s3:// URLs.
type Loader struct {
	// S3 fetches s3:// sources. When nil, a client is built from the
	// AWS_REGION, AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and
	// AWS_SESSION_TOKEN environment variables.
	S3 ObjectGetter
}

// LoadSource loads definitions from a local path, a directory or an
// s3://bucket/key URL using a default Loader.
func LoadSource(ctx context.Context, source string) (*Config, error) {
	return (&Loader{}).Load(ctx, source)
}

// Load loads definitions from source.
func (l *Loader) Load(ctx context.Context, source string) (*Config, error) {
	if !strings.HasPrefix(source, S3Scheme) {
		if info, err := os.Stat(source); err == nil && info.IsDir() {
			return Load(source)
		}
		return LoadFile(source)
	}

	bucket, key, err := ParseS3URL(source)
	if err != nil {
		return nil, err
	}

	client := l.S3
	if client == nil {
		client = NewS3Client(os.Getenv("AWS_REGION"))
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.New("NAV204").Wrap(err).
			WithDetail(fmt.Sprintf("GetObject %s: %v", source, err)).
			WithSuggestion("Check the bucket name, the key and your AWS credentials")
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, maxRemoteSize+1))
	if err != nil {
		return nil, errors.New("NAV204").Wrap(err).
			WithDetail(fmt.Sprintf("Reading %s: %v", source, err))
	}
	if len(data) > maxRemoteSize {
		return nil, errors.New("NAV204").
			WithDetail(fmt.Sprintf("%s is larger than %d bytes", source, maxRemoteSize))
	}

	format := FormatFor(key)
	if out.ContentType != nil && strings.Contains(aws.ToString(out.ContentType), "yaml") {
		format = FormatYAML
	}

	return parse(data, format, source)
}

// ParseS3URL splits s3://bucket/key into its parts.
func ParseS3URL(source string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(source, S3Scheme)
	if !ok {
		return "", "", errors.New("NAV204").
			WithDetail(fmt.Sprintf("%q is not an s3:// URL", source))
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", errors.New("NAV204").
			WithDetail(fmt.Sprintf("%q must look like s3://bucket/key", source)).
			WithSuggestion("Include both the bucket and the object key")
	}
	return bucket, key, nil
}

// NewS3Client builds an S3 client whose credentials come from the
// standard AWS environment variables.
func NewS3Client(region string) *s3.Client {
	if region == "" {
		region = "us-east-1"
	}
	return s3.New(s3.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(envCredentials{}),
	})
}

type envCredentials struct{}

func (envCredentials) Retrieve(context.Context) (aws.Credentials, error) {
	id := os.Getenv("AWS_ACCESS_KEY_ID")
	secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.Credentials{}, fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
	}
	return aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "Environment",
	}, nil
}

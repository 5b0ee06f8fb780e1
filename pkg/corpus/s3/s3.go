package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/medkg/medgraph/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Loader reads a corpus from an S3 bucket. Every .txt object under the prefix
// becomes one document, keyed by its object key relative to the prefix.
type Loader struct {
	Bucket string
	Prefix string

	Client *s3.Client
}

// NewClientParams configures the S3 connection. Endpoint may point at any
// S3-compatible store.
type NewClientParams struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

func NewClient(ctx context.Context, params NewClientParams) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(params.Region),
		config.WithBaseEndpoint(params.Endpoint),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			params.AccessKey,
			params.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config:\n%w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
	return client, nil
}

func NewLoader(client *s3.Client, bucket, prefix string) *Loader {
	return &Loader{
		Bucket: bucket,
		Prefix: prefix,
		Client: client,
	}
}

func (l *Loader) Load(ctx context.Context) (map[string]string, error) {
	texts := map[string]string{}

	paginator := s3.NewListObjectsV2Paginator(l.Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(l.Bucket),
		Prefix: aws.String(l.Prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list corpus objects:\n%w", err)
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if path.Ext(key) != ".txt" {
				continue
			}

			content, err := l.getObject(ctx, key)
			if err != nil {
				logger.Error("[Corpus] failed to fetch object", "key", key, "err", err)
				continue
			}

			id := strings.TrimPrefix(strings.TrimPrefix(key, l.Prefix), "/")
			texts[id] = string(content)
		}
	}

	logger.Info("[Corpus] loaded documents", "bucket", l.Bucket, "prefix", l.Prefix, "count", len(texts))
	return texts, nil
}

func (l *Loader) getObject(ctx context.Context, key string) ([]byte, error) {
	result, err := l.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object from S3: %v", err)
	}
	defer result.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, result.Body); err != nil {
		return nil, fmt.Errorf("failed to read object contents: %v", err)
	}

	return buf.Bytes(), nil
}

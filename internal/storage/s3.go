// Package storage uploads panel images to the S3-compatible bucket the
// public site serves them from.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

var storageLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	storageLogger = l
}

// allowedTypes maps accepted upload MIME types to the extension the
// stored object gets. Anything else is rejected before touching S3.
var allowedTypes = map[string]string{
	"image/webp": ".webp",
	"image/png":  ".png",
	"image/jpeg": ".jpg",
}

type ImageStore struct {
	client     *s3.Client
	bucket     string
	baseFolder string
	publicBase string
}

// NewImageStore builds the S3 client from static credentials against a
// custom endpoint, which works for R2 and Supabase storage alike.
// publicBase is the URL prefix the bucket is served from.
func NewImageStore(accessKeyID, accessKeySecret, baseEndpoint, publicBase, bucket, baseFolder string) *ImageStore {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, accessKeySecret, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		storageLogger.Fatal().Err(err).Msg("Error initializing S3 client")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(baseEndpoint)
	})

	return &ImageStore{
		client:     client,
		bucket:     bucket,
		baseFolder: baseFolder,
		publicBase: strings.TrimRight(publicBase, "/"),
	}
}

// ObjectPath builds the fixed key <base>/<scope>/<recordKey>/<slot><ext>
// so re-uploading the same slot overwrites the previous image instead
// of leaking orphans.
func (s *ImageStore) ObjectPath(scope, recordKey, slot, contentType string) (string, error) {
	ext, ok := allowedTypes[contentType]
	if !ok {
		return "", fmt.Errorf("tipo de imagen no soportado: %s", contentType)
	}
	for _, part := range []string{scope, recordKey, slot} {
		if part == "" || strings.ContainsAny(part, "/\\") {
			return "", fmt.Errorf("ruta de imagen inválida")
		}
	}
	return path.Join(s.baseFolder, scope, recordKey, slot) + ext, nil
}

// Upload stores the image and returns its public URL.
func (s *ImageStore) Upload(ctx context.Context, objectPath, contentType string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(objectPath),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=3600"),
	})
	if err != nil {
		return "", fmt.Errorf("error uploading %s: %w", objectPath, err)
	}
	storageLogger.Info().Str("path", objectPath).Int("bytes", len(data)).Msg("Image uploaded")
	return s.PublicURL(objectPath), nil
}

// Delete removes an object. Missing objects are not an error; S3
// deletes are idempotent.
func (s *ImageStore) Delete(ctx context.Context, objectPath string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectPath),
	})
	if err != nil {
		return fmt.Errorf("error deleting %s: %w", objectPath, err)
	}
	storageLogger.Info().Str("path", objectPath).Msg("Image deleted")
	return nil
}

func (s *ImageStore) PublicURL(objectPath string) string {
	return s.publicBase + "/" + s.bucket + "/" + objectPath
}

// ExtractPath recovers the object key from a public URL previously
// returned by Upload. Returns "" when the URL points elsewhere.
func (s *ImageStore) ExtractPath(publicURL string) string {
	u, err := url.Parse(publicURL)
	if err != nil {
		return ""
	}
	prefix := "/" + s.bucket + "/"
	idx := strings.Index(u.Path, prefix)
	if idx < 0 {
		return ""
	}
	key := u.Path[idx+len(prefix):]
	if !strings.HasPrefix(key, s.baseFolder+"/") {
		return ""
	}
	return key
}

// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"cloud.google.com/go/auth/credentials"
	"cloud.google.com/go/storage"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/genai"

	"github.com/go-a2a/adkchat/types"
)

// GCSService represents an artifact service implementation using Google Cloud Storage (GCS).
type GCSService struct {
	client *storage.Client
	bucket *storage.BucketHandle
	logger *slog.Logger
}

var _ types.ArtifactService = (*GCSService)(nil)

// NewGCSService creates a new [GCSService] instance with the given bucket name.
//
// Credentials are detected from the environment unless opts provide them.
func NewGCSService(ctx context.Context, bucketName string, logger *slog.Logger, opts ...option.ClientOption) (*GCSService, error) {
	if bucketName == "" {
		return nil, errors.New("bucket name is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	if len(opts) == 0 {
		creds, err := credentials.DetectDefault(&credentials.DetectOptions{
			Scopes: []string{
				storage.ScopeReadWrite,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("get credentials for storage: %w", err)
		}
		opts = append(opts, option.WithAuthCredentials(creds))
	}

	client, err := storage.NewGRPCClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	logger.InfoContext(ctx, "GCS artifact service initialized", slog.String("bucket", bucketName))

	return &GCSService{
		client: client,
		bucket: client.Bucket(bucketName),
		logger: logger,
	}, nil
}

// blobPrefix returns the object name prefix shared by every version of an artifact.
func (a *GCSService) blobPrefix(appName, userID, sessionID, filename string) string {
	if fileHasUserNamespace(filename) {
		return fmt.Sprintf("%s/%s/user/%s/", appName, userID, filename)
	}
	return fmt.Sprintf("%s/%s/%s/%s/", appName, userID, sessionID, filename)
}

// getBlobName constructs the blob name in GCS.
func (a *GCSService) getBlobName(appName, userID, sessionID, filename string, version int) string {
	return a.blobPrefix(appName, userID, sessionID, filename) + strconv.Itoa(version)
}

// SaveArtifact implements [types.ArtifactService].
func (a *GCSService) SaveArtifact(ctx context.Context, appName, userID, sessionID, filename string, artifact *genai.Part) (int, error) {
	if artifact == nil || artifact.InlineData == nil {
		return 0, fmt.Errorf("save artifact %q: part has no inline data", filename)
	}

	versions, err := a.ListVersions(ctx, appName, userID, sessionID, filename)
	if err != nil {
		return 0, err
	}
	version := 0
	if len(versions) > 0 {
		version = slices.Max(versions) + 1
	}

	w := a.bucket.Object(a.getBlobName(appName, userID, sessionID, filename, version)).NewWriter(ctx)
	w.ContentType = artifact.InlineData.MIMEType
	if _, err := w.Write(artifact.InlineData.Data); err != nil {
		w.Close()
		return 0, fmt.Errorf("write artifact %q: %w", filename, err)
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("write artifact %q: %w", filename, err)
	}

	return version, nil
}

// LoadArtifact implements [types.ArtifactService].
func (a *GCSService) LoadArtifact(ctx context.Context, appName, userID, sessionID, filename string, version int) (*genai.Part, error) {
	if version < 0 {
		versions, err := a.ListVersions(ctx, appName, userID, sessionID, filename)
		if err != nil {
			return nil, err
		}
		if len(versions) == 0 {
			return nil, fmt.Errorf("%s: %w", filename, types.ErrArtifactNotFound)
		}
		version = slices.Max(versions)
	}

	blobName := a.getBlobName(appName, userID, sessionID, filename, version)
	r, err := a.bucket.Object(blobName).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("%s: %w", blobName, types.ErrArtifactNotFound)
		}
		return nil, fmt.Errorf("open artifact %s: %w", blobName, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", blobName, err)
	}

	a.logger.DebugContext(ctx, "Loaded artifact",
		slog.String("blob", blobName),
		slog.Int("size", len(data)),
	)

	return genai.NewPartFromBytes(data, r.Attrs.ContentType), nil
}

// ListArtifactKey implements [types.ArtifactService].
func (a *GCSService) ListArtifactKey(ctx context.Context, appName, userID, sessionID string) ([]string, error) {
	prefixes := []string{
		fmt.Sprintf("%s/%s/%s/", appName, userID, sessionID),
		fmt.Sprintf("%s/%s/user/", appName, userID),
	}
	found := make([][]string, len(prefixes))

	eg, ctx := errgroup.WithContext(ctx)
	for i, prefix := range prefixes {
		eg.Go(func() error {
			it := a.bucket.Objects(ctx, &storage.Query{Prefix: prefix})
			for {
				objAttrs, err := it.Next()
				if err != nil {
					if errors.Is(err, iterator.Done) {
						return nil
					}
					return err
				}
				if pairs := strings.Split(objAttrs.Name, "/"); len(pairs) == 5 {
					found[i] = append(found[i], pairs[3])
				}
			}
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}

	filenames := slices.Concat(found...)
	slices.Sort(filenames)

	return slices.Compact(filenames), nil
}

// ListVersions implements [types.ArtifactService].
func (a *GCSService) ListVersions(ctx context.Context, appName, userID, sessionID, filename string) ([]int, error) {
	it := a.bucket.Objects(ctx, &storage.Query{
		Prefix: a.blobPrefix(appName, userID, sessionID, filename),
	})

	versions := []int{}
	for {
		objAttrs, err := it.Next()
		if err != nil {
			if errors.Is(err, iterator.Done) {
				break
			}
			return nil, fmt.Errorf("list versions of %s: %w", filename, err)
		}

		idx := strings.LastIndex(objAttrs.Name, "/")
		version, err := strconv.Atoi(objAttrs.Name[idx+1:])
		if err != nil {
			continue
		}
		versions = append(versions, version)
	}
	slices.Sort(versions)

	return versions, nil
}

// Close implements [types.ArtifactService].
func (a *GCSService) Close() error {
	return a.client.Close()
}

// Package storage provides the blob reference store used to pass image
// artifacts between pipeline stages without re-encoding, backed by Azure
// Blob Storage. Artifacts are session-keyed and immutable once written;
// a changed image must be put under a new key.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/JaimeStill/wraith/pkg/lifecycle"
)

// Artifact describes a stored blob.
type Artifact struct {
	Ref           string `json:"ref"`
	ContentType   string `json:"content_type"`
	ContentLength int64  `json:"content_length"`
}

// Download couples artifact metadata with its content stream.
// The caller must close Body.
type Download struct {
	Artifact
	Body io.ReadCloser
}

// System manages blob reference store operations and lifecycle coordination.
type System interface {
	// Start registers a startup hook that initializes the artifact container.
	Start(lc *lifecycle.Coordinator) error
	// Put streams data to a new blob at the given key and returns its reference.
	// Returns ErrImmutableKey if the key is already written.
	Put(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)
	// Get returns the artifact metadata and a content stream for the given reference.
	// Returns ErrNotFound if the blob does not exist.
	Get(ctx context.Context, ref string) (*Download, error)
	// Find returns artifact metadata for the given reference without its content.
	// Returns ErrNotFound if the blob does not exist.
	Find(ctx context.Context, ref string) (*Artifact, error)
	// Exists reports whether a blob exists at the given reference.
	Exists(ctx context.Context, ref string) (bool, error)
}

// SessionKey builds the storage key for a named artifact within a session.
func SessionKey(sessionID, name string) string {
	return path.Join("sessions", sessionID, name)
}

type azure struct {
	client    *azblob.Client
	container string
	logger    *slog.Logger
}

// New creates a blob reference store from the given configuration.
// It validates the connection string and creates the Azure client
// but does not establish a connection until Start is called.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &azure{
		client:    client,
		container: cfg.ContainerName,
		logger:    logger.With("system", "storage"),
	}, nil
}

func (a *azure) Start(lc *lifecycle.Coordinator) error {
	a.logger.Info("starting storage system")

	lc.OnStartup(func() {
		_, err := a.client.CreateContainer(lc.Context(), a.container, nil)
		if err != nil {
			if !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
				a.logger.Error("storage container initialization failed", "error", err)
				return
			}
		}

		a.logger.Info("storage container ready", "container", a.container)
	})

	return nil
}

func (a *azure) Put(ctx context.Context, key string, reader io.Reader, contentType string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}

	// If-None-Match: * makes the service reject the upload if the blob
	// already exists, so immutability holds even under concurrent writers.
	etagAny := azcore.ETagAny
	opts := &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: &contentType,
		},
		AccessConditions: &blob.AccessConditions{
			ModifiedAccessConditions: &blob.ModifiedAccessConditions{
				IfNoneMatch: &etagAny,
			},
		},
	}

	if _, err := a.client.UploadStream(ctx, a.container, key, reader, opts); err != nil {
		if bloberror.HasCode(err, bloberror.BlobAlreadyExists, bloberror.ConditionNotMet) {
			return "", fmt.Errorf("%w: %s", ErrImmutableKey, key)
		}
		return "", fmt.Errorf("put blob %s: %w", key, err)
	}

	return key, nil
}

func (a *azure) Get(ctx context.Context, ref string) (*Download, error) {
	if err := validateKey(ref); err != nil {
		return nil, err
	}

	resp, err := a.client.DownloadStream(ctx, a.container, ref, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get blob %s: %w", ref, err)
	}

	artifact := Artifact{Ref: ref}
	if resp.ContentType != nil {
		artifact.ContentType = *resp.ContentType
	}
	if resp.ContentLength != nil {
		artifact.ContentLength = *resp.ContentLength
	}

	return &Download{
		Artifact: artifact,
		Body:     resp.Body,
	}, nil
}

func (a *azure) Find(ctx context.Context, ref string) (*Artifact, error) {
	if err := validateKey(ref); err != nil {
		return nil, err
	}

	props, err := a.blobClient(ref).GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find blob %s: %w", ref, err)
	}

	artifact := &Artifact{Ref: ref}
	if props.ContentType != nil {
		artifact.ContentType = *props.ContentType
	}
	if props.ContentLength != nil {
		artifact.ContentLength = *props.ContentLength
	}

	return artifact, nil
}

func (a *azure) Exists(ctx context.Context, ref string) (bool, error) {
	if err := validateKey(ref); err != nil {
		return false, err
	}

	_, err := a.blobClient(ref).GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("check blob existence %s: %w", ref, err)
	}

	return true, nil
}

func (a *azure) blobClient(ref string) *blob.Client {
	return a.client.
		ServiceClient().
		NewContainerClient(a.container).
		NewBlobClient(ref)
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}

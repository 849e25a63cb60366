package document

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"time"

	"banquet-backoffice/pkg/db/option"
	"banquet-backoffice/pkg/db/pagination"
	"banquet-backoffice/pkg/errutil"
	"banquet-backoffice/pkg/repository"
	"banquet-backoffice/pkg/storage"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// presignTTL bounds how long a download link stays valid.
const presignTTL = 15 * time.Minute

type ServiceParams struct {
	fx.In

	Logger  *zap.Logger
	DB      *gorm.DB
	Node    *snowflake.Node
	Storage storage.Storage
}

type Service struct {
	logger  *zap.Logger
	db      *gorm.DB
	node    *snowflake.Node
	storage storage.Storage
	repo    repository.Repository[Document]
}

func NewService(p ServiceParams) *Service {
	return &Service{
		logger:  p.Logger,
		db:      p.DB,
		node:    p.Node,
		storage: p.Storage,
		repo:    repository.ProvideStore[Document](p.DB),
	}
}

type UploadRequest struct {
	EntityType string
	EntityID   string
	UploadedBy string
	File       *multipart.FileHeader
}

// Upload stores the file in object storage and records its metadata. When
// no store is configured the metadata row is still written so the file can
// be re-uploaded later.
func (s *Service) Upload(ctx context.Context, req *UploadRequest) (*Document, error) {
	if req.File == nil {
		return nil, errutil.ValidationFailed("validation failed", nil,
			errutil.WithDetails(errutil.Detail{Field: "file", Message: "file is required"}))
	}

	contentType := req.File.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("documents/%s%s", uuid.NewString(), filepath.Ext(req.File.Filename))

	doc := &Document{
		ID:           s.node.Generate().String(),
		FileName:     filepath.Base(req.File.Filename),
		ContentType:  contentType,
		SizeBytes:    req.File.Size,
		ObjectKey:    key,
		EntityType:   req.EntityType,
		EntityID:     req.EntityID,
		UploadedBy:   req.UploadedBy,
		StorageState: StorageStateMetadataOnly,
	}

	if s.storage.Configured() {
		f, err := req.File.Open()
		if err != nil {
			return nil, errutil.BadRequest("unable to read uploaded file", err)
		}
		defer f.Close()

		if err := s.storage.Upload(ctx, key, contentType, req.File.Size, f); err != nil {
			return nil, errutil.Internal("failed to store file", err)
		}
		doc.StorageState = StorageStateStored
	} else {
		s.logger.Warn("document stored as metadata only",
			zap.String("file_name", doc.FileName),
			zap.String("entity_type", doc.EntityType),
		)
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		if doc.StorageState == StorageStateStored {
			if rmErr := s.storage.Remove(ctx, key); rmErr != nil {
				s.logger.Warn("failed to clean up orphaned object", zap.String("key", key), zap.Error(rmErr))
			}
		}
		return nil, err
	}
	return doc, nil
}

type ListQuery struct {
	EntityType string `form:"entity_type"`
	EntityID   string `form:"entity_id"`
	pagination.Pagination
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]*Document, pagination.PageInfo, error) {
	query := &Document{EntityType: q.EntityType, EntityID: q.EntityID}

	total, err := s.repo.Count(ctx, query)
	if err != nil {
		return nil, pagination.PageInfo{}, err
	}

	rows, err := s.repo.Find(ctx, query,
		option.OrderBy("created_at DESC"),
		option.ApplyPagination(q.Pagination),
	)
	if err != nil {
		return nil, pagination.PageInfo{}, err
	}

	return rows, pagination.BuildPageInfo(q.Pagination, total), nil
}

func (s *Service) Get(ctx context.Context, id string) (*Document, error) {
	return s.repo.FindOne(ctx, &Document{ID: id})
}

type DownloadLink struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DownloadURL returns a short-lived presigned link for the stored object.
func (s *Service) DownloadURL(ctx context.Context, id string) (*DownloadLink, error) {
	doc, err := s.repo.FindOne(ctx, &Document{ID: id})
	if err != nil {
		return nil, err
	}
	if doc.StorageState != StorageStateStored {
		return nil, errutil.UnprocessableEntity("document has no stored file", nil)
	}

	u, err := s.storage.PresignedGet(ctx, doc.ObjectKey, presignTTL)
	if err != nil {
		return nil, errutil.Internal("failed to sign download link", err)
	}
	return &DownloadLink{URL: u, ExpiresAt: time.Now().Add(presignTTL)}, nil
}

// Delete removes the metadata row and, when a file was stored, the object
// behind it. A failed object removal is logged but does not undo the row
// delete.
func (s *Service) Delete(ctx context.Context, id string) error {
	doc, err := s.repo.FindOne(ctx, &Document{ID: id})
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, doc.ID); err != nil {
		return err
	}

	if doc.StorageState == StorageStateStored {
		if err := s.storage.Remove(ctx, doc.ObjectKey); err != nil {
			s.logger.Warn("failed to remove stored object", zap.String("key", doc.ObjectKey), zap.Error(err))
		}
	}
	return nil
}

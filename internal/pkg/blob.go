package pkg

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Asset 已上传到对象存储的文件
type Asset struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// BlobStore 媒体对象存储
type BlobStore interface {
	Upload(ctx context.Context, localPath string) (*Asset, error)
	Delete(ctx context.Context, publicID string) error
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStore(cfg CloudinaryConfig) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &CloudinaryStore{cld: cld, folder: cfg.Folder}, nil
}

func (s *CloudinaryStore) Upload(ctx context.Context, localPath string) (*Asset, error) {
	if localPath == "" {
		return nil, ErrDependency.With("no file path provided")
	}
	res, err := s.cld.Upload.Upload(ctx, localPath, uploader.UploadParams{
		Folder:       s.folder,
		ResourceType: "auto",
	})
	if err != nil {
		return nil, ErrDependency.With("media upload failed").Wrap(err)
	}
	if res.Error.Message != "" {
		return nil, ErrDependency.With("media upload failed").Wrap(errors.New(res.Error.Message))
	}
	return &Asset{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

// Delete 先按图片删除，找不到再按视频删除
func (s *CloudinaryStore) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	for _, rt := range []string{"image", "video"} {
		res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID, ResourceType: rt})
		if err != nil {
			return ErrDependency.With("media delete failed").Wrap(err)
		}
		if res.Result != "not found" {
			return nil
		}
	}
	return nil
}

// DisabledStore 未配置 Cloudinary 时使用，上传一律失败
type DisabledStore struct{}

func (DisabledStore) Upload(context.Context, string) (*Asset, error) {
	return nil, ErrDependency.With("media storage is not configured")
}

func (DisabledStore) Delete(context.Context, string) error { return nil }

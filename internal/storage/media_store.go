// Package storage кладёт медиафайлы в S3-совместимое объектное хранилище.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/agrimitra/backend/internal/models"
)

// allowedMediaTypes — типы, которые принимает хранилище, с расширением ключа.
var allowedMediaTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"audio/mpeg": ".mp3",
	"audio/ogg":  ".ogg",
}

// MediaStore хранит фото посевов и голосовые ответы в MinIO.
type MediaStore struct {
	client   *minio.Client
	bucket   string
	maxBytes int64

	initOnce sync.Once
	initErr  error
}

// MediaStoreConfig — настройки подключения к MinIO.
type MediaStoreConfig struct {
	Endpoint    string
	AccessKey   string
	SecretKey   string
	Bucket      string
	UseSSL      bool
	MaxUploadMB int64
}

// NewMediaStore создаёт хранилище. Бакет создаётся лениво при первом обращении.
func NewMediaStore(cfg MediaStoreConfig) (*MediaStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("storage: minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("storage: minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage: media bucket is required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: init minio client: %w", err)
	}

	return &MediaStore{
		client:   client,
		bucket:   cfg.Bucket,
		maxBytes: cfg.MaxUploadMB * 1024 * 1024,
	}, nil
}

func (s *MediaStore) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = fmt.Errorf("storage: check bucket: %w", err)
			return
		}
		if exists {
			return
		}
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			s.initErr = fmt.Errorf("storage: make bucket: %w", err)
		}
	})
	return s.initErr
}

// Put валидирует файл и сохраняет его под ключом prefix/uuid.ext.
func (s *MediaStore) Put(ctx context.Context, prefix, uploadedBy string, data []byte) (*models.MediaObject, error) {
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("storage: file exceeds the %d MB limit", s.maxBytes/(1024*1024))
	}

	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return nil, fmt.Errorf("storage: unrecognized file format")
	}
	ext, ok := allowedMediaTypes[kind.MIME.Value]
	if !ok {
		return nil, fmt.Errorf("storage: unsupported media type %s", kind.MIME.Value)
	}

	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}

	key := path.Join(prefix, uuid.NewString()+ext)
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: kind.MIME.Value,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: put object: %w", err)
	}

	return &models.MediaObject{
		Key:         key,
		ContentType: kind.MIME.Value,
		Size:        int64(len(data)),
		UploadedBy:  uploadedBy,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Get читает сохранённый объект целиком.
func (s *MediaStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return nil, "", err
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("storage: get object: %w", err)
	}
	defer obj.Close()

	stat, err := obj.Stat()
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" {
			return nil, "", fmt.Errorf("storage: object %s not found", key)
		}
		return nil, "", fmt.Errorf("storage: stat object: %w", err)
	}

	data := make([]byte, 0, stat.Size)
	buf := bytes.NewBuffer(data)
	if _, err := buf.ReadFrom(obj); err != nil {
		return nil, "", fmt.Errorf("storage: read object: %w", err)
	}
	return buf.Bytes(), stat.ContentType, nil
}

// PresignedGet выдаёт временную ссылку на объект для внешних сервисов.
func (s *MediaStore) PresignedGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return "", err
	}

	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("storage: presign object: %w", err)
	}
	return u.String(), nil
}

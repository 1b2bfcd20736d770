package storage

import (
	"os"
	"strings"

	"guestsnap/db"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

type StorageType uint8

const (
	StorageTypeFile StorageType = 0
	StorageTypeS3   StorageType = 1
)

type Bucket struct {
	ID          uint64 `gorm:"primaryKey"`
	CreatedAt   int64
	UpdatedAt   int64
	Name        string `gorm:"type:varchar(200)"` // S3 bucket name, or a label for disk buckets
	StorageType StorageType
	Path        string // Directory on disk, or a key prefix in the S3 bucket
	Region      string `gorm:"type:varchar(50)"`
	Endpoint    string `gorm:"type:varchar(300)"` // Optional, for S3-compatible stores
	AuthDetails string // In case of S3 - "key:secret"
}

func (b *Bucket) IsS3() bool {
	return b.StorageType == StorageTypeS3
}

// GetRemotePath prepends the bucket's key prefix (if any) to a logical path.
func (b *Bucket) GetRemotePath(path string) string {
	if b.Path == "" {
		return path
	}
	return strings.Trim(b.Path, "/") + "/" + path
}

func (b *Bucket) CreateSVC() *s3.S3 {
	parts := strings.SplitN(b.AuthDetails, ":", 2)
	key, secret := parts[0], ""
	if len(parts) == 2 {
		secret = parts[1]
	}
	cfg := aws.Config{
		Region:      aws.String(b.Region),
		Credentials: credentials.NewStaticCredentials(key, secret, ""),
	}
	if b.Endpoint != "" {
		cfg.Endpoint = aws.String(b.Endpoint)
		cfg.S3ForcePathStyle = aws.Bool(true)
	}
	return s3.New(session.Must(session.NewSession(&cfg)))
}

// CreateRemoteURL returns the stable public URL of an object. The bucket is
// expected to allow public reads - photo URLs are handed to guest browsers.
func (b *Bucket) CreateRemoteURL(path string) string {
	remote := b.GetRemotePath(path)
	if b.Endpoint != "" {
		return strings.TrimSuffix(b.Endpoint, "/") + "/" + b.Name + "/" + remote
	}
	host := "s3.amazonaws.com"
	if b.Region != "" {
		host = "s3." + b.Region + ".amazonaws.com"
	}
	return "https://" + b.Name + "." + host + "/" + remote
}

func (b *Bucket) Create() error {
	if err := db.Instance.Create(b).Error; err != nil {
		return err
	}
	if b.StorageType == StorageTypeFile {
		if err := os.MkdirAll(b.Path+"/album", 0777); err != nil {
			return err
		}
		if err := os.MkdirAll(b.Path+"/guest", 0777); err != nil {
			return err
		}
	}
	return nil
}

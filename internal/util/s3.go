package util

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"strconv"
	"strings"

	"github.com/minio/minio-go/v7"
)

const storageScheme = "s3://"

func GetExperimentDirectoryPath(experimentID uint) string {
	return "experiments/" + strconv.FormatUint(uint64(experimentID), 10)
}

// FormatStorageLink builds the value stored in experiments.files_link, e.g. "s3://biotech-dashboard/experiments/3/gel.png".
func FormatStorageLink(bucket, key string) string {
	return storageScheme + bucket + "/" + strings.TrimPrefix(key, "/")
}

// ParseStorageLink splits a link produced by FormatStorageLink.
// ok is false for plain URLs entered by users.
func ParseStorageLink(link string) (bucket string, key string, ok bool) {
	rest, found := strings.CutPrefix(link, storageScheme)
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

type FileUploadOptions struct {
	// DirectoryPath is prepended to the object name, e.g. "experiments/3"
	// turns "gel.png" into "experiments/3/gel.png".
	DirectoryPath string
	UniquePrefix  bool
	Bucket        string
	S3            *minio.Client
}

// UploadFileToS3ByFileHeader streams a multipart upload into the bucket. The
// bucket must exist; cmd/api creates it at startup.
func UploadFileToS3ByFileHeader(ctx context.Context, fileHeader *multipart.FileHeader, fuo *FileUploadOptions) (minio.UploadInfo, error) {
	objectName, err := prepareFileName(fileHeader.Filename, fuo)
	if err != nil {
		return minio.UploadInfo{}, err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return minio.UploadInfo{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	info, err := fuo.S3.PutObject(ctx, fuo.Bucket, objectName, file, fileHeader.Size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return minio.UploadInfo{}, fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return info, nil
}

// prepareFileName builds the object key from the uploaded name and fuo.
func prepareFileName(originalName string, fuo *FileUploadOptions) (string, error) {
	fileName := SanitizeFileName(originalName)
	if fuo == nil {
		return fileName, nil
	}

	if fuo.UniquePrefix {
		unique, err := UniqueObjectName(originalName)
		if err != nil {
			return "", err
		}
		fileName = unique
	}

	if fuo.DirectoryPath != "" {
		fileName = path.Join(fuo.DirectoryPath, fileName)
	}
	return fileName, nil
}

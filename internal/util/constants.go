package util

const DateFormat = "2006-01-02"

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 题目图片相关常量
const (
	MimeImage   = "image/"
	ImagePrefix = "questions/"
)

var (
	AllowedImageExtensions = []string{".webp", ".png", ".jpg", ".jpeg", ".gif"}
)

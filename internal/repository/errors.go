package repository

import (
	"errors"
	"godrive_backend/internal/util"

	"gorm.io/gorm"
)

// wrap 把 gorm 错误转换为服务层可识别的 AppError
// notFound 为 nil 时，记录不存在也按存储错误处理
func wrap(err error, notFound *util.AppError) error {
	if err == nil {
		return nil
	}
	var appErr *util.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) && notFound != nil {
		return util.Wrap(notFound, err)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.Wrap(util.ErrConflict, err)
	}
	return util.NewTransientError(err)
}

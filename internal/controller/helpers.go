package controller

import (
	"godrive_backend/internal/config"
	"godrive_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators 注册自定义校验标签 locale
func RegisterValidators(exam config.ExamConfig) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("locale", func(fl validator.FieldLevel) bool {
		return exam.SupportsLocale(fl.Field().String())
	})
}

// langQuery 可选的 ?lang= 参数
type langQuery struct {
	Lang string `form:"lang" binding:"omitempty,locale"`
}

func currentUserID(ctx *gin.Context) uint {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		return 0
	}
	return claims.UserID
}

func paramID(ctx *gin.Context, name string) (int, bool) {
	id, err := util.ParsePositiveInt(ctx.Param(name), name)
	if err != nil {
		util.HandleError(ctx, err)
		return 0, false
	}
	return id, true
}

func queryInt(ctx *gin.Context, name string, def int) (int, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		util.BadRequest(ctx, name+" must be an integer")
		return 0, false
	}
	return n, true
}

// resolveLang 读取 ?lang=，缺省时使用默认语言
func resolveLang(ctx *gin.Context, exam config.ExamConfig) (string, bool) {
	var q langQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		util.BadRequest(ctx, "unsupported language")
		return "", false
	}
	if q.Lang == "" {
		return exam.DefaultLocale, true
	}
	return q.Lang, true
}

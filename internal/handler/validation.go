package handler

import (
	"log"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/user/moviepicker/internal/model"
)

var registerOnce sync.Once

// RegisterValidators 向 gin 的校验引擎注册自定义规则
//   - moviestatus: pending / chosen / rejected
//   - notblank: 去除首尾空白后非空
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			log.Println("[Validator] 校验引擎不是 validator/v10，跳过自定义规则")
			return
		}
		if err := v.RegisterValidation("moviestatus", func(fl validator.FieldLevel) bool {
			return model.MovieStatus(fl.Field().String()).Valid()
		}); err != nil {
			log.Printf("[Validator] 注册 moviestatus 失败: %v", err)
		}
		if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		}); err != nil {
			log.Printf("[Validator] 注册 notblank 失败: %v", err)
		}
	})
}

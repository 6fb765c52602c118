package biz

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iWorld-y/sales_assistant/app/sales_assistant/pkg/generation"
	"github.com/iWorld-y/sales_assistant/app/sales_assistant/pkg/prompt"
	"github.com/iWorld-y/sales_assistant/app/sales_assistant/pkg/search"
)

// InputRecord 表单输入
type InputRecord struct {
	ProductName      string `json:"product_name" validate:"required"`
	ProductCategory  string `json:"product_category"`
	CompanyURL       string `json:"company_url" validate:"required"`
	Competitors      string `json:"competitors"`
	CompetitorsURL   string `json:"competitors_url"`
	TargetCustomer   string `json:"target_customer"`
	ValueProposition string `json:"value_proposition"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// 错误信息使用 JSON 字段名
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Normalize 去掉首尾空白，纯空白视为未填写
func (r InputRecord) Normalize() InputRecord {
	return InputRecord{
		ProductName:      strings.TrimSpace(r.ProductName),
		ProductCategory:  strings.TrimSpace(r.ProductCategory),
		CompanyURL:       strings.TrimSpace(r.CompanyURL),
		Competitors:      strings.TrimSpace(r.Competitors),
		CompetitorsURL:   strings.TrimSpace(r.CompetitorsURL),
		TargetCustomer:   strings.TrimSpace(r.TargetCustomer),
		ValueProposition: strings.TrimSpace(r.ValueProposition),
	}
}

// Validate 校验必填字段
func (r InputRecord) Validate() error {
	if err := validate.Struct(r); err != nil {
		return validationError(describe(err))
	}
	return nil
}

// PromptData 绑定到提示词模板
func (r InputRecord) PromptData(results []search.Result) prompt.Data {
	return prompt.Data{
		ProductName:        r.ProductName,
		ProductCategory:    r.ProductCategory,
		CompanyURL:         r.CompanyURL,
		Competitors:        r.Competitors,
		CompetitorsURL:     r.CompetitorsURL,
		TargetCustomer:     r.TargetCustomer,
		ValueProposition:   r.ValueProposition,
		CompanyInformation: results,
	}
}

// ValidateSettings 校验生成参数范围
func ValidateSettings(s generation.Settings) error {
	if err := validate.Struct(s); err != nil {
		return validationError(describe(err))
	}
	return nil
}

func describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		}
	}
	return strings.Join(msgs, "; ")
}

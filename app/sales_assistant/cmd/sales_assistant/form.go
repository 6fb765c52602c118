package main

import (
	"errors"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/iWorld-y/sales_assistant/app/sales_assistant/internal/biz"
)

// fieldPrompt 表单中的一个字段
type fieldPrompt struct {
	Message  string
	Help     string
	Required bool
	Target   *string
}

// asker 抽象终端交互，便于测试
type asker interface {
	Input(p fieldPrompt) (string, error)
}

type surveyAsker struct{}

func (surveyAsker) Input(p fieldPrompt) (string, error) {
	prompt := &survey.Input{
		Message: p.Message,
		Default: *p.Target,
		Help:    p.Help,
	}
	var opts []survey.AskOpt
	if p.Required {
		opts = append(opts, survey.WithValidator(requiredText))
	}
	var out string
	if err := survey.AskOne(prompt, &out, opts...); err != nil {
		return "", err
	}
	return out, nil
}

// requiredText 拒绝纯空白输入
func requiredText(ans interface{}) error {
	s, _ := ans.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("this field is required")
	}
	return nil
}

func formFields(rec *biz.InputRecord) []fieldPrompt {
	return []fieldPrompt{
		{Message: "Product Name:", Help: "What product are you selling?", Required: true, Target: &rec.ProductName},
		{Message: "Product Category:", Help: "e.g., 'Data Warehousing'", Target: &rec.ProductCategory},
		{Message: "Company URL:", Help: "The URL of the product's company", Required: true, Target: &rec.CompanyURL},
		{Message: "Competitors List:", Help: "e.g., Apple, Tesla, Google", Target: &rec.Competitors},
		{Message: "Target Customer:", Help: "Who are you selling to?", Target: &rec.TargetCustomer},
		{Message: "Competitors URL:", Help: "e.g., www.apple.com", Target: &rec.CompetitorsURL},
		{Message: "Value Proposition:", Help: "Summarize the product's value", Target: &rec.ValueProposition},
	}
}

// askRecord 逐项询问，已有值作为默认值
func askRecord(a asker, rec biz.InputRecord) (biz.InputRecord, error) {
	for _, f := range formFields(&rec) {
		v, err := a.Input(f)
		if err != nil {
			return biz.InputRecord{}, err
		}
		*f.Target = v
	}
	return rec, nil
}

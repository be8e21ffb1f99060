// 检查题库文件中各语言版本是否一致（选项数量、正确答案范围）
//
// 导入前手动运行，输出被拒绝的题目及原因。
//
// 用法: go run scripts/check_questions.go -file questions.json [-format yaml]

package main

import (
	"flag"
	"fmt"
	"godrive_backend/internal/config"
	"godrive_backend/internal/service"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

type checkReport struct {
	File     string   `yaml:"file"`
	Total    int      `yaml:"total"`
	Valid    int      `yaml:"valid"`
	Rejected []string `yaml:"rejected,omitempty"`
}

func main() {
	configDir := flag.String("config", "configs", "配置文件目录")
	file := flag.String("file", "questions.json", "题库 JSON 文件")
	format := flag.String("format", "text", "输出格式 text|yaml")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("无法打开题库文件: %v", err)
	}
	defer f.Close()

	questions, err := service.ParseQuestions(f)
	if err != nil {
		log.Fatalf("解析题库失败: %v", err)
	}

	report := checkReport{File: *file, Total: len(questions)}
	checker := service.NewQuestionChecker(cfg.Exam)
	for _, q := range questions {
		if err := checker.Check(q); err != nil {
			report.Rejected = append(report.Rejected, err.Error())
			continue
		}
		report.Valid++
	}

	if *format == "yaml" {
		out, err := yaml.Marshal(report)
		if err != nil {
			log.Fatalf("生成报告失败: %v", err)
		}
		os.Stdout.Write(out)
	} else {
		fmt.Printf("%s: %d questions, %d valid, %d rejected\n", report.File, report.Total, report.Valid, len(report.Rejected))
		for _, r := range report.Rejected {
			fmt.Println("  -", r)
		}
	}

	if len(report.Rejected) > 0 {
		os.Exit(1)
	}
}

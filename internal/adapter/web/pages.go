package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"

	"github.com/Nyukimin/failguard/internal/domain/prediction"
	"github.com/Nyukimin/failguard/internal/infrastructure/dom"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// StaticPrefix は埋め込み静的ファイルの配信パス
const StaticPrefix = "/static/"

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type fieldData struct {
	Name        string
	Label       string
	Description string
}

type indexData struct {
	StylePath   string
	Action      string
	ExampleHref string
	Fields      []fieldData
}

type dashboardData struct {
	StylePath string
	FormPath  string
}

func staticFiles() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// buildIndex はフォームページのドキュメントを組み立てる
func buildIndex(formPath, action string) (*dom.Document, error) {
	data := indexData{
		StylePath:   StaticPrefix + "style.css",
		Action:      action,
		ExampleHref: formPath + "?example=1",
	}
	for _, name := range prediction.FieldNames {
		data.Fields = append(data.Fields, fieldData{
			Name:        name,
			Label:       prediction.FieldLabels[name],
			Description: prediction.FieldDescriptions[name],
		})
	}
	return buildPage("index.html", data)
}

// buildDashboard は結果ページのドキュメントを組み立てる
func buildDashboard(formPath string) (*dom.Document, error) {
	return buildPage("dashboard.html", dashboardData{
		StylePath: StaticPrefix + "style.css",
		FormPath:  formPath,
	})
}

func buildPage(name string, data interface{}) (*dom.Document, error) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}

	doc, err := dom.Parse(&buf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return doc, nil
}

package http

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/*.html static/*
var assets embed.FS

func loadTemplates() *template.Template {
	return template.Must(template.ParseFS(assets, "templates/*.html"))
}

func staticFS() fs.FS {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

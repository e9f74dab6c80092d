package vanilla

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl templates/components/*.tmpl
var embeddedTemplates embed.FS

//go:embed assets/*
var embeddedAssets embed.FS

const (
	// StylesheetName is the file name of the default stylesheet inside AssetsFS.
	StylesheetName = "inquiry.css"
	// ScriptName is the file name of the submit guard script inside AssetsFS.
	// It marks a form as submitting on the first submit and swallows repeats.
	ScriptName = "inquiry.js"
)

// TemplatesFS exposes the embedded template bundle.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

// AssetsFS exposes the embedded stylesheet and script so callers can serve
// them.
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}

func defaultStylesheet() string {
	data, err := fs.ReadFile(embeddedAssets, "assets/"+StylesheetName)
	if err != nil {
		return ""
	}
	return string(data)
}

func defaultScript() string {
	data, err := fs.ReadFile(embeddedAssets, "assets/"+ScriptName)
	if err != nil {
		return ""
	}
	return string(data)
}

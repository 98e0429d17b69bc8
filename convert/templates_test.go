package convert

import (
	"strings"
	"testing"

	"ttc/common"
	"ttc/config"
	"ttc/model"
)

func templateTestContent(t *testing.T, lang string) *Content {
	t.Helper()
	doc := model.NewDocument()
	doc.SetLang(lang)
	return &Content{
		srcName: "season1/episode03.srt",
		format:  common.InputFmtSrt,
		id:      "0198c5e2-0000-7000-8000-000000000000",
		doc:     doc,
	}
}

func TestExpandTemplate(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		expected string
	}{
		{"source file", "{{ .SourceFile }}", "episode03"},
		{"language", "{{ .Language }}", "en"},
		{"format", "{{ .Format }}", "vtt"},
		{"context", "{{ .Context }}", string(config.OutputNameTemplateFieldName)},
		{"id", "{{ .ID }}", "0198c5e2-0000-7000-8000-000000000000"},
		{"combined", "{{ .Language }}/{{ .SourceFile }}", "en/episode03"},
		{"sprig function", "{{ upper .Format }}", "VTT"},
		{"static text", "captions", "captions"},
	}

	c := templateTestContent(t, "en")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandTemplate(c, config.OutputNameTemplateFieldName, tt.field, common.OutputFmtVtt)
			if err != nil {
				t.Fatalf("expandTemplate() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("expandTemplate() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestExpandTemplate_EmptyLanguage(t *testing.T) {
	c := templateTestContent(t, "")
	got, err := expandTemplate(c, config.OutputNameTemplateFieldName, "{{ .Language }}-{{ .SourceFile }}", common.OutputFmtSrt)
	if err != nil {
		t.Fatalf("expandTemplate() error = %v", err)
	}
	if got != "-episode03" {
		t.Errorf("expandTemplate() = %q, want %q", got, "-episode03")
	}
}

func TestExpandTemplate_ParseError(t *testing.T) {
	c := templateTestContent(t, "en")
	_, err := expandTemplate(c, config.OutputNameTemplateFieldName, "{{ .SourceFile", common.OutputFmtSrt)
	if err == nil {
		t.Fatal("Expected error for malformed template, got nil")
	}
	if !strings.Contains(err.Error(), "unable to parse template field") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExpandTemplate_ExecuteError(t *testing.T) {
	c := templateTestContent(t, "en")
	_, err := expandTemplate(c, config.OutputNameTemplateFieldName, "{{ .NoSuchField }}", common.OutputFmtSrt)
	if err == nil {
		t.Fatal("Expected error for unknown field, got nil")
	}
}

package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"ttc/common"
	"ttc/config"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context    string
	Language   string
	Format     string
	SourceFile string
	ID         string
}

func expandTemplate(c *Content, name config.TemplateFieldName, field string, format common.OutputFmt) (string, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New(string(name)).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values := Values{
		Context:    string(name),
		Language:   c.Doc().Lang(),
		Format:     format.String(),
		SourceFile: strings.TrimSuffix(filepath.Base(c.SrcName()), filepath.Ext(c.SrcName())),
		ID:         c.ID(),
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}

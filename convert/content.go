package convert

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ttc/common"
	"ttc/convert/scc"
	"ttc/convert/srt"
	"ttc/convert/stl"
	"ttc/convert/ttml"
	"ttc/css"
	"ttc/model"
	"ttc/state"
)

// Content pairs the source of a single conversion with its parsed canonical
// document, after document wide configuration has been applied.
type Content struct {
	srcName string
	format  common.InputFmt
	id      string
	doc     *model.Document
}

// Accessor methods to expose Content fields to avoid cyclic imports in
// writer packages

func (c *Content) Doc() *model.Document { return c.doc }

func (c *Content) SrcName() string { return c.srcName }

func (c *Content) Format() common.InputFmt { return c.format }

func (c *Content) ID() string { return c.id }

// prepareContent reads and parses timed text from r, then applies document
// wide configuration: default language and user stylesheet overrides.
func prepareContent(ctx context.Context, r io.Reader, srcName string, format common.InputFmt, log *zap.Logger) (*Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	env := state.EnvFromContext(ctx)

	var (
		doc *model.Document
		err error
	)
	switch format {
	case common.InputFmtTtml:
		doc, err = ttml.Read(r, log)
	case common.InputFmtScc:
		doc, err = scc.Read(r, log)
	case common.InputFmtStl:
		doc, err = stl.Read(r, log)
	case common.InputFmtSrt:
		doc, err = srt.Read(r, log)
	default:
		return nil, fmt.Errorf("unable to process %s: unsupported source format", srcName)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", format, err)
	}

	if doc.Lang() == "" && env.Cfg.Document.DefaultLanguage != "" {
		log.Debug("Source has no language, applying default", zap.String("lang", env.Cfg.Document.DefaultLanguage))
		doc.SetLang(env.Cfg.Document.DefaultLanguage)
	}

	if len(env.DefaultStyle) > 0 {
		overrides, err := css.NewParser(log).Parse(env.DefaultStyle)
		if err != nil {
			return nil, err
		}
		if err := css.Apply(doc, overrides); err != nil {
			return nil, err
		}
	}

	// Conversions are tracked by UUID, source names may repeat across
	// directories and archives
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("unable to generate conversion UUID: %w", err)
	}

	content := &Content{
		srcName: srcName,
		format:  format,
		id:      id.String(),
		doc:     doc,
	}

	// Save parsed document for debugging
	if env.Rpt != nil {
		env.Rpt.StoreData(fmt.Sprintf("%s-%s_parsed", filepath.Base(srcName), content.id), []byte(content.String()))
	}
	return content, nil
}

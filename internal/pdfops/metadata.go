package pdfops

import (
	"bytes"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Metadata is the document information dictionary plus page and encryption
// facts.
type Metadata struct {
	Pages            int
	Title            string
	Author           string
	Subject          string
	Creator          string
	Producer         string
	CreationDate     string
	ModificationDate string
	Encrypted        bool
}

// MetadataEdit holds replacement values. Nil fields are left untouched.
type MetadataEdit struct {
	Title   *string
	Author  *string
	Subject *string
}

// Empty reports whether the edit changes nothing.
func (e MetadataEdit) Empty() bool {
	return e.Title == nil && e.Author == nil && e.Subject == nil
}

// ReadMetadata returns the metadata of data.
func (s *Service) ReadMetadata(data []byte) (Metadata, error) {
	ctx, err := readContext(data)
	if err != nil {
		return Metadata{}, failed("read metadata", err)
	}

	md := Metadata{
		Pages:     ctx.PageCount,
		Encrypted: ctx.Encrypt != nil,
	}

	if ctx.Info == nil {
		return md, nil
	}

	info, err := ctx.DereferenceDict(*ctx.Info)
	if err != nil || info == nil {
		s.logger.Debug("info dictionary unreadable", "error", err)
		return md, nil
	}

	md.Title = infoText(ctx, info, "Title")
	md.Author = infoText(ctx, info, "Author")
	md.Subject = infoText(ctx, info, "Subject")
	md.Creator = infoText(ctx, info, "Creator")
	md.Producer = infoText(ctx, info, "Producer")
	md.CreationDate = infoDate(ctx, info, "CreationDate")
	md.ModificationDate = infoDate(ctx, info, "ModDate")

	return md, nil
}

// EditMetadata writes the edit into the information dictionary of data.
func (s *Service) EditMetadata(data []byte, edit MetadataEdit) ([]byte, error) {
	ctx, err := readContext(data)
	if err != nil {
		return nil, failed("read metadata", err)
	}

	info, err := ensureInfo(ctx)
	if err != nil {
		return nil, failed("update metadata", err)
	}

	set := func(key string, value *string) {
		if value != nil {
			info.Update(key, textObject(*value))
		}
	}
	set("Title", edit.Title)
	set("Author", edit.Author)
	set("Subject", edit.Subject)

	var out bytes.Buffer
	if err := api.WriteContext(ctx, &out); err != nil {
		return nil, failed("write metadata", err)
	}
	return out.Bytes(), nil
}

func readContext(data []byte) (*model.Context, error) {
	ctx, err := api.ReadContext(bytes.NewReader(data), configuration())
	if err != nil {
		return nil, err
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, err
	}
	return ctx, nil
}

func ensureInfo(ctx *model.Context) (types.Dict, error) {
	if ctx.Info != nil {
		d, err := ctx.DereferenceDict(*ctx.Info)
		if err != nil {
			return nil, err
		}
		if d != nil {
			return d, nil
		}
	}

	d := types.NewDict()
	ir, err := ctx.IndRefForNewObject(d)
	if err != nil {
		return nil, err
	}
	ctx.Info = ir
	return d, nil
}

func infoText(ctx *model.Context, info types.Dict, key string) string {
	obj, ok := info[key]
	if !ok || obj == nil {
		return ""
	}

	obj, err := ctx.Dereference(obj)
	if err != nil || obj == nil {
		return ""
	}

	switch v := obj.(type) {
	case types.StringLiteral:
		if s, err := types.StringLiteralToString(v); err == nil {
			return s
		}
		return string(v)
	case types.HexLiteral:
		if s, err := types.HexLiteralToString(v); err == nil {
			return s
		}
		return string(v)
	case types.Name:
		return string(v)
	default:
		return ""
	}
}

func infoDate(ctx *model.Context, info types.Dict, key string) string {
	raw := infoText(ctx, info, key)
	if raw == "" {
		return ""
	}
	if t, ok := types.DateTime(raw, true); ok {
		return t.Format(time.RFC3339)
	}
	return raw
}

// textObject encodes s as a PDF text string: an escaped literal for ASCII,
// UTF-16BE with a byte order mark otherwise.
func textObject(s string) types.Object {
	if isASCII(s) {
		r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
		return types.StringLiteral(r.Replace(s))
	}

	units := utf16.Encode([]rune(s))
	buf := make([]byte, 0, 2+2*len(units))
	buf = append(buf, 0xFE, 0xFF)
	for _, u := range units {
		buf = append(buf, byte(u>>8), byte(u))
	}
	return types.NewHexLiteral(buf)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

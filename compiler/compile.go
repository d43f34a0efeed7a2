// Package compiler turns component sources into JavaScript modules that
// define a custom element against the sig runtime helpers.
package compiler

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AnatoleLucet/sig"
	"github.com/AnatoleLucet/sig/compiler/analyze"
	"github.com/AnatoleLucet/sig/compiler/ast"
	"github.com/AnatoleLucet/sig/compiler/parser"
	"github.com/AnatoleLucet/sig/compiler/printer"
	"github.com/AnatoleLucet/sig/compiler/template"
	"github.com/AnatoleLucet/sig/compiler/transform"
)

// DefaultPrefix is prepended to component names without a hyphen.
const DefaultPrefix = "x"

// Preprocessor rewrites the content of a style block. attrs are the
// attributes of the style element.
type Preprocessor func(css string, attrs map[string]string, filename string) (string, error)

type Options struct {
	// Name is the component name. A name containing a hyphen is used as
	// the tag as is; otherwise the tag is derived from Name, or from the
	// base of Filename, and prefixed with Prefix.
	Name     string
	Filename string
	Prefix   string

	// RuntimePath is the module runtime helpers are imported from.
	RuntimePath string

	Preprocess Preprocessor

	Logger *slog.Logger
	Tracer trace.Tracer
}

type Result struct {
	Code string
	Tag  string
	// Props are the exported prop names, in declaration order.
	Props []string
	CSS   string

	Analysis *analyze.Result
}

// Compile compiles a component source.
func Compile(source string, opts Options) (*Result, error) {
	return CompileContext(context.Background(), source, opts)
}

func CompileContext(ctx context.Context, source string, opts Options) (*Result, error) {
	c := newCompilation(source, opts)

	ctx, span := c.tracer.Start(ctx, "compile", trace.WithAttributes(
		attribute.String("sig.filename", opts.Filename),
	))
	defer span.End()

	res, err := c.run(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.log.Debug("compile failed", "filename", opts.Filename, "error", err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("sig.tag", res.Tag),
		attribute.Int("sig.props", len(res.Props)),
	)
	return res, nil
}

type compilation struct {
	src    string
	opts   Options
	log    *slog.Logger
	tracer trace.Tracer
}

func newCompilation(source string, opts Options) *compilation {
	c := &compilation{src: source, opts: opts, log: opts.Logger, tracer: opts.Tracer}
	if c.log == nil {
		c.log = slog.Default()
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer("sig/compiler")
	}
	if c.opts.Prefix == "" {
		c.opts.Prefix = DefaultPrefix
	}
	if c.opts.RuntimePath == "" {
		c.opts.RuntimePath = transform.DefaultRuntimePath
	}
	return c
}

func (c *compilation) run(ctx context.Context) (*Result, error) {
	var doc *template.Document
	err := c.phase(ctx, "parse", func() (err error) {
		doc, err = template.Parse(c.src)
		return err
	})
	if err != nil {
		return nil, err
	}

	var script *ast.Program
	if doc.Script != nil {
		err = c.phase(ctx, "parse-script", func() (err error) {
			script, err = parser.ParseProgram(doc.Script.Content, doc.Script.Offset)
			return err
		})
		if err != nil {
			return nil, err
		}
	}

	var css string
	if doc.Style != nil {
		err = c.phase(ctx, "style", func() (err error) {
			css, err = c.style(doc.Style)
			return err
		})
		if err != nil {
			return nil, err
		}
	}

	tag := c.tag()
	var out *transform.Output
	err = c.phase(ctx, "transform", func() (err error) {
		var styles []string
		if css != "" {
			styles = append(styles, css)
		}
		out, err = transform.Component(doc, script, transform.Options{
			Tag:         tag,
			RuntimePath: c.opts.RuntimePath,
			Styles:      styles,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	var code string
	_ = c.phase(ctx, "print", func() error {
		code = printer.Print(out.Program)
		return nil
	})

	return &Result{
		Code:     code,
		Tag:      tag,
		Props:    out.Props,
		CSS:      css,
		Analysis: out.Analysis,
	}, nil
}

// phase runs fn in its own span and converts its error to an *Error.
func (c *compilation) phase(ctx context.Context, name string, fn func() error) error {
	_, span := c.tracer.Start(ctx, name)
	defer span.End()

	start := time.Now()
	err := fn()
	c.log.Debug("compiler phase", "phase", name, "filename", c.opts.Filename, "duration", time.Since(start))
	if err == nil {
		return nil
	}

	err = c.convert(err)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func (c *compilation) style(b *template.Block) (string, error) {
	if c.opts.Preprocess == nil {
		return strings.TrimSpace(b.Content), nil
	}
	css, err := c.opts.Preprocess(b.Content, b.Attrs, c.opts.Filename)
	if err != nil {
		return "", newError(c.src, c.opts.Filename, ErrStyle, err.Error(), b.Start, b.End, err)
	}
	return strings.TrimSpace(css), nil
}

func (c *compilation) convert(err error) error {
	var (
		perr *parser.Error
		terr *template.Error
		aerr *analyze.Error
		cerr *Error
	)
	switch {
	case errors.As(err, &cerr):
		return cerr
	case errors.As(err, &perr):
		return newError(c.src, c.opts.Filename, ErrSyntax, perr.Msg, perr.Pos, perr.Pos, err)
	case errors.As(err, &terr):
		return newError(c.src, c.opts.Filename, ErrMarkup, terr.Msg, terr.Pos, terr.Pos, err)
	case errors.As(err, &aerr):
		return newError(c.src, c.opts.Filename, aerr.Code, aerr.Msg, aerr.Range.Start, aerr.Range.End, err)
	}
	return err
}

func (c *compilation) tag() string {
	return Tag(c.opts.Name, c.opts.Filename, c.opts.Prefix)
}

// Tag derives the custom element name of a component from its name or
// filename.
func Tag(name, filename, prefix string) string {
	if strings.Contains(name, "-") {
		return strings.ToLower(name)
	}
	if name == "" {
		base := filepath.Base(filename)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if name == "" || name == "." {
		name = "component"
	}

	tag := sig.AttributeName(name)
	if !strings.Contains(tag, "-") {
		if prefix == "" {
			prefix = DefaultPrefix
		}
		tag = prefix + "-" + tag
	}
	return tag
}

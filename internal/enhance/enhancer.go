// Package enhance runs one enhancement on an uploaded image: a local pixel
// transform for the black & white, colourful and cartoon types, or the
// remote vision provider for background removal.
package enhance

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log"
	"path"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/image-enhance-mcp/internal/imaging"
	"github.com/ironsheep/image-enhance-mcp/internal/pixels"
	"github.com/ironsheep/image-enhance-mcp/internal/vision"
)

// DefaultConcurrency bounds the number of enhancements EnhanceAll runs at
// once.
const DefaultConcurrency = 4

// Provider removes the background from an encoded image.
type Provider interface {
	RemoveBackground(ctx context.Context, image []byte) ([]byte, error)
}

// ProviderFactory builds a Provider for a set of credentials. It is called
// once per remote enhancement, so credentials may differ between requests.
type ProviderFactory func(Credentials) (Provider, error)

// VisionProvider returns a factory for Azure Computer Vision clients.
func VisionProvider(timeout time.Duration) ProviderFactory {
	return func(c Credentials) (Provider, error) {
		client, err := vision.NewClient(c.Endpoint, c.APIKey, c.Location, vision.WithTimeout(timeout))
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// Request describes one enhancement.
type Request struct {
	Type        Type
	Image       []byte // encoded upload (PNG, JPEG, GIF or WebP)
	Credentials Credentials
	Format      imaging.Format // output format of local results; PNG if empty
}

// Result is a finished enhancement.
type Result struct {
	Type     Type          `json:"type"`
	Width    int           `json:"width"`
	Height   int           `json:"height"`
	Data     []byte        `json:"-"`
	MimeType string        `json:"mime_type"`
	FileName string        `json:"file_name"`
	Message  string        `json:"message"`
	Elapsed  time.Duration `json:"elapsed_ns"`
}

// Enhancer dispatches enhancement requests.
//
// An Enhancer holds no per-request state and is safe for concurrent use.
type Enhancer struct {
	providers   ProviderFactory
	concurrency int
	debug       bool
}

// Option configures an Enhancer.
type Option func(*Enhancer)

// WithConcurrency sets the EnhanceAll fan-out limit.
func WithConcurrency(n int) Option {
	return func(e *Enhancer) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithDebug enables debug logging of each enhancement.
func WithDebug(debug bool) Option {
	return func(e *Enhancer) { e.debug = debug }
}

// New creates an Enhancer. providers may be nil, in which case remote
// enhancements fail.
func New(providers ProviderFactory, opts ...Option) *Enhancer {
	e := &Enhancer{
		providers:   providers,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enhance runs exactly one enhancement. On error no partial result is
// returned.
func (e *Enhancer) Enhance(ctx context.Context, req Request) (*Result, error) {
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, req.Type)
	}
	if req.Type.Remote() {
		return e.enhanceRemote(ctx, req)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buf, _, err := imaging.Decode(bytes.NewReader(req.Image))
	if err != nil {
		return nil, err
	}
	return e.enhanceLocal(req.Type, buf, req.Format)
}

// EnhanceAll runs several enhancements of the same upload concurrently and
// returns the results in the order of types. The upload is decoded once and
// shared, since transforms never modify their input. The first failure
// cancels the remaining work and is returned.
func (e *Enhancer) EnhanceAll(ctx context.Context, upload []byte, types []Type, creds Credentials, format imaging.Format) ([]*Result, error) {
	for _, t := range types {
		if !t.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
		}
	}

	var buf *pixels.Buffer
	for _, t := range types {
		if !t.Remote() {
			decoded, _, err := imaging.Decode(bytes.NewReader(upload))
			if err != nil {
				return nil, err
			}
			buf = decoded
			break
		}
	}

	results := make([]*Result, len(types))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, t := range types {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var (
				res *Result
				err error
			)
			if t.Remote() {
				res, err = e.enhanceRemote(ctx, Request{Type: t, Image: upload, Credentials: creds})
			} else {
				res, err = e.enhanceLocal(t, buf, format)
			}
			if err != nil {
				return fmt.Errorf("%s: %w", t, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Enhancer) enhanceLocal(t Type, buf *pixels.Buffer, format imaging.Format) (*Result, error) {
	if format == "" {
		format = imaging.FormatPNG
	}
	start := time.Now()

	out := t.Transform()(buf)
	data, err := imaging.EncodeBytes(out, format)
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	if e.debug {
		log.Printf("enhance %s: %dx%d in %s", t, out.Width, out.Height, elapsed)
	}

	return &Result{
		Type:     t,
		Width:    out.Width,
		Height:   out.Height,
		Data:     data,
		MimeType: format.MimeType(),
		FileName: fileName(t, format),
		Message:  t.CompletionMessage(),
		Elapsed:  elapsed,
	}, nil
}

func (e *Enhancer) enhanceRemote(ctx context.Context, req Request) (*Result, error) {
	if !req.Credentials.Complete() {
		return nil, ErrMissingCredentials
	}
	if e.providers == nil {
		return nil, fmt.Errorf("no remote provider configured for %s", req.Type)
	}

	provider, err := e.providers(req.Credentials)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	start := time.Now()
	data, err := provider.RemoveBackground(ctx, req.Image)
	if err != nil {
		return nil, err
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("provider returned an unreadable image: %w", err)
	}

	elapsed := time.Since(start)
	if e.debug {
		log.Printf("enhance %s: %dx%d %s from provider in %s", req.Type, cfg.Width, cfg.Height, format, elapsed)
	}

	return &Result{
		Type:     req.Type,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Data:     data,
		MimeType: "image/" + format,
		FileName: req.Type.FileName(),
		Message:  req.Type.CompletionMessage(),
		Elapsed:  elapsed,
	}, nil
}

// fileName adjusts the PNG download name of t to format.
func fileName(t Type, format imaging.Format) string {
	name := t.FileName()
	if format == imaging.FormatJPEG {
		name = strings.TrimSuffix(name, path.Ext(name)) + ".jpg"
	}
	return name
}
